// Package server exposes the generation pipeline and post store over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Kesaramb/infographedia/core/dna"
	"github.com/Kesaramb/infographedia/core/generate"
	"github.com/Kesaramb/infographedia/core/store"
)

const version = "0.1.0"

// defaultGenerateTimeout bounds one generation request end to end, tool
// rounds and the repair retry included.
const defaultGenerateTimeout = 5 * time.Minute

// Generator is the pipeline surface the server needs. *generate.Generator
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, userPrompt string, parent *dna.DNA) (*generate.Result, error)
}

// PostStore is the persistence surface the server needs. *store.SQLiteStore
// satisfies it.
type PostStore interface {
	SavePost(ctx context.Context, doc *dna.DNA, authorID, parentID string, queries []string) (*store.Post, error)
	GetPost(ctx context.Context, id string) (*store.Post, error)
	ListPosts(ctx context.Context, limit int) ([]*store.Post, error)
}

// Config holds server settings.
type Config struct {
	Addr            string
	GenerateTimeout time.Duration
}

// Server wires the generator and post store behind a chi router.
type Server struct {
	generator Generator
	posts     PostStore
	logger    *slog.Logger
	timeout   time.Duration
}

// New creates a Server. logger may be nil.
func New(generator Generator, posts PostStore, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.GenerateTimeout
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	return &Server{
		generator: generator,
		posts:     posts,
		logger:    logger,
		timeout:   timeout,
	}
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/version", s.handleVersion)
	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(api chi.Router) {
		api.Post("/generate", s.handleGenerate)
		api.Get("/posts", s.listPosts)
		api.Get("/posts/{post_id}", s.getPost)
	})

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type generateRequest struct {
	Prompt   string `json:"prompt"`
	AuthorID string `json:"authorId"`
	ParentID string `json:"parentId,omitempty"`
}

type generateResponse struct {
	Post *store.Post `json:"post"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "prompt is required", nil)
		return
	}
	if strings.TrimSpace(req.AuthorID) == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request", "authorId is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	// Iterations start from the stored parent document.
	var parent *dna.DNA
	if req.ParentID != "" {
		parentPost, err := s.posts.GetPost(ctx, req.ParentID)
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusBadRequest, "parent_not_found", "parent post not found",
				map[string]string{"parentId": req.ParentID})
			return
		}
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "store_error", err.Error(), nil)
			return
		}
		parent = parentPost.DNA
	}

	result, err := s.generator.Generate(ctx, req.Prompt, parent)
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}

	post, err := s.posts.SavePost(ctx, result.DNA, req.AuthorID, req.ParentID, result.SearchQueries)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "store_error", err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Post: post})
}

// writeGenerateError maps pipeline stages to HTTP statuses: transport
// failures are an upstream problem (502), everything else means the model
// could not satisfy the request and a changed prompt may (422).
func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	var genErr *generate.Error
	if !errors.As(err, &genErr) {
		writeErr(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
		return
	}

	status := http.StatusUnprocessableEntity
	if genErr.Stage == generate.StageAPI {
		status = http.StatusBadGateway
	}
	writeErr(w, status, string(genErr.Stage), genErr.Message, nil)
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeErr(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}

	posts, err := s.posts.ListPosts(r.Context(), limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "store_error", err.Error(), nil)
		return
	}
	if posts == nil {
		posts = []*store.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "post_id")
	post, err := s.posts.GetPost(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not_found", "post not found", map[string]string{"postId": id})
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "store_error", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message, Details: details}})
}
