package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/CTAG07/parrot/pkg/corpus"
	"github.com/CTAG07/parrot/pkg/markov"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ParrotAPI holds the dependencies for the corpus and generation handlers.
type ParrotAPI struct {
	config    *Config
	store     *corpus.Store
	models    *ModelCache
	tokenizer *markov.DefaultTokenizer
	logger    *slog.Logger
}

// VersionInfo defines the structure for build/version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// GenerateRequest is the body of POST /api/generate. Zero values fall back to
// the generation config.
type GenerateRequest struct {
	Corpus     string  `json:"corpus"`
	Length     int     `json:"length"`
	Seed       string  `json:"seed"`
	RandomSeed bool    `json:"random_seed"`
	Retries    *int    `json:"retries"`
	RandSeed   *uint64 `json:"rand_seed"`
}

// GenerateResponse is the result of a successful generation.
type GenerateResponse struct {
	ID     string   `json:"id"`
	Corpus string   `json:"corpus"`
	Tokens []string `json:"tokens"`
	Text   string   `json:"text"`
}

// NewParrotAPI creates a new instance of the ParrotAPI.
func NewParrotAPI(config *Config, store *corpus.Store, models *ModelCache, tokenizer *markov.DefaultTokenizer, logger *slog.Logger) *ParrotAPI {
	return &ParrotAPI{
		config:    config,
		store:     store,
		models:    models,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// RegisterRoutes sets up the routing for all /api endpoints.
func (a *ParrotAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", a.handleHealthCheck)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/corpora", a.handleListCorpora)
	mux.HandleFunc("/api/corpora/", a.handleCorpusByName)
	mux.HandleFunc("/api/generate", a.handleGenerate)
}

func (a *ParrotAPI) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *ParrotAPI) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, VersionInfo{Version: Version, Commit: Commit, BuildDate: BuildDate})
}

// handleListCorpora lists every stored corpus.
func (a *ParrotAPI) handleListCorpora(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	infos, err := a.store.List(r.Context())
	if err != nil {
		a.logger.Error("Failed to list corpora", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve corpora: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, infos)
}

// handleCorpusByName stores (PUT), reports stats for (GET) or removes (DELETE)
// a single corpus.
func (a *ParrotAPI) handleCorpusByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/corpora/")
	if name == "" || strings.Contains(name, "/") {
		respondWithError(w, http.StatusBadRequest, "Corpus name not specified")
		return
	}

	switch r.Method {
	case http.MethodPut:
		body := http.MaxBytesReader(w, r.Body, a.config.Server.MaxCorpusBytes)
		if err := a.store.Put(r.Context(), name, body); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondWithError(w, http.StatusRequestEntityTooLarge, "Corpus too large")
				return
			}
			a.logger.Error("Failed to store corpus", "name", name, "error", err)
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store corpus: %v", err))
			return
		}
		a.models.Invalidate(name)
		w.WriteHeader(http.StatusNoContent)

	case http.MethodGet:
		model, err := a.models.Get(r.Context(), name)
		if err != nil {
			a.respondWithModelError(w, name, err)
			return
		}
		respondWithJSON(w, http.StatusOK, model.Stats())

	case http.MethodDelete:
		if err := a.store.Remove(r.Context(), name); err != nil {
			if errors.Is(err, corpus.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "Corpus not found")
				return
			}
			a.logger.Error("Failed to remove corpus", "name", name, "error", err)
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to remove corpus: %v", err))
			return
		}
		a.models.Invalidate(name)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleGenerate builds (or reuses) the model for a corpus and generates text from it.
func (a *ParrotAPI) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if req.Corpus == "" {
		respondWithError(w, http.StatusBadRequest, "Corpus name is required")
		return
	}

	defaults := a.config.Generation
	length := req.Length
	if length == 0 {
		length = defaults.Length
	}
	if length > defaults.MaxLength {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Length may not exceed %d", defaults.MaxLength))
		return
	}
	retries := defaults.Retries
	if req.Retries != nil {
		retries = *req.Retries
	}

	policy, err := seedPolicy(a.tokenizer, req.Seed, defaults.Seed, req.RandomSeed || (req.Seed == "" && defaults.RandomSeed))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	model, err := a.models.Get(r.Context(), req.Corpus)
	if err != nil {
		a.respondWithModelError(w, req.Corpus, err)
		return
	}

	opts := []markov.GenerateOption{
		markov.WithSeedPolicy(policy),
		markov.WithRetries(retries),
		markov.WithTokenizer(a.tokenizer),
		markov.WithLogger(a.logger),
	}
	if req.RandSeed != nil {
		opts = append(opts, markov.WithSource(markov.NewSource(*req.RandSeed)))
	}

	tokens, err := markov.NewGenerator(model, opts...).Generate(r.Context(), length)
	if err != nil {
		switch {
		case errors.Is(err, markov.ErrInvalidLength):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, markov.ErrUnknownContext), errors.Is(err, markov.ErrEmptyModel):
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			a.logger.Error("Generation failed", "corpus", req.Corpus, "error", err)
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Generation failed: %v", err))
		}
		return
	}

	respondWithJSON(w, http.StatusOK, GenerateResponse{
		ID:     "gen-" + uuid.NewString(),
		Corpus: req.Corpus,
		Tokens: tokens,
		Text:   markov.Join(a.tokenizer, tokens),
	})
}

func (a *ParrotAPI) respondWithModelError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, corpus.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "Corpus not found")
		return
	}
	a.logger.Error("Failed to load model", "corpus", name, "error", err)
	respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load model: %v", err))
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		err := json.NewEncoder(w).Encode(payload)
		if err != nil {
			fmt.Printf("ERROR: Failed to encode JSON response: %v\n", err)
		}
	}
}
