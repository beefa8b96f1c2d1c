package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/CTAG07/parrot/pkg/markov"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"
)

// corpusOpener is the part of corpus.Store the model cache needs.
type corpusOpener interface {
	Open(ctx context.Context, name string) (io.Reader, error)
}

// ModelCache is a TTL cache of models keyed by corpus name. Models are
// rebuilt from the stored corpus on a miss and are never written anywhere.
// Concurrent misses for the same corpus share a single build.
type ModelCache struct {
	cache     *ttlcache.Cache[string, *markov.Model]
	builds    singleflight.Group
	corpora   corpusOpener
	tokenizer markov.Tokenizer
	logger    *slog.Logger

	mu       sync.Mutex
	versions map[string]uint64 // bumped by Invalidate
}

// NewModelCache creates a ModelCache whose entries expire ttl after their
// last use.
func NewModelCache(corpora corpusOpener, tokenizer markov.Tokenizer, ttl time.Duration, logger *slog.Logger) *ModelCache {
	c := ttlcache.New[string, *markov.Model](
		ttlcache.WithTTL[string, *markov.Model](ttl),
	)
	go c.Start()
	return &ModelCache{
		cache:     c,
		corpora:   corpora,
		tokenizer: tokenizer,
		logger:    logger,
		versions:  make(map[string]uint64),
	}
}

// Close stops the cache expiration loop.
func (mc *ModelCache) Close() {
	mc.cache.Stop()
}

// Get returns the model for the named corpus, building it if it is not cached.
func (mc *ModelCache) Get(ctx context.Context, name string) (*markov.Model, error) {
	if item := mc.cache.Get(name); item != nil {
		return item.Value(), nil
	}

	v, err, _ := mc.builds.Do(name, func() (any, error) {
		// Every waiter shares this build, so it must not end with the
		// request that started it.
		ctx := context.WithoutCancel(ctx)
		version := mc.version(name)

		r, err := mc.corpora.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		model, err := markov.BuildFrom(mc.tokenizer, r)
		if err != nil {
			return nil, fmt.Errorf("failed to build model for corpus '%s': %w", name, err)
		}
		if !mc.store(name, version, model) {
			mc.logger.DebugContext(ctx, "Corpus changed during build, model not cached", slog.String("corpus_name", name))
		}

		stats := model.Stats()
		mc.logger.InfoContext(ctx, "Model built",
			slog.String("corpus_name", name),
			slog.Int("contexts", stats.Contexts),
			slog.Int("transitions", stats.Transitions),
			slog.Duration("elapsed", time.Since(start)),
		)
		if model.Empty() {
			mc.logger.WarnContext(ctx, "Corpus too short to build a model", slog.String("corpus_name", name))
		}
		return model, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*markov.Model), nil
}

// Invalidate drops the cached model for name, if any. A build already in
// flight for name still answers its waiters but is not cached, and later
// calls to Get start a fresh build.
func (mc *ModelCache) Invalidate(name string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.versions[name]++
	mc.cache.Delete(name)
	mc.builds.Forget(name)
}

func (mc *ModelCache) version(name string) uint64 {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.versions[name]
}

// store caches model unless name was invalidated since version was read.
func (mc *ModelCache) store(name string, version uint64, model *markov.Model) bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.versions[name] != version {
		return false
	}
	mc.cache.Set(name, model, ttlcache.DefaultTTL)
	return true
}

// Len returns the number of cached models.
func (mc *ModelCache) Len() int {
	return mc.cache.Len()
}
