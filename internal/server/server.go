package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Usmankh4/netflixclone/internal/app"
	"github.com/Usmankh4/netflixclone/internal/identity"
	"github.com/Usmankh4/netflixclone/internal/ratelimit"
	"github.com/Usmankh4/netflixclone/internal/util"
	"github.com/Usmankh4/netflixclone/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	TokenVerifier  *identity.Verifier
	WriteLimiter   *ratelimit.FixedWindowLimiter
	UploadLimiter  *ratelimit.FixedWindowLimiter
	TrustedProxies *util.TrustedProxies
	MaxUploadBytes int64
}

// Server exposes the streaming API over HTTP.
type Server struct {
	app            *app.App
	tokenVerifier  *identity.Verifier
	writeLimiter   *ratelimit.FixedWindowLimiter
	uploadLimiter  *ratelimit.FixedWindowLimiter
	trustedProxies *util.TrustedProxies
	mux            *http.ServeMux
	maxUploadBytes int64
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	maxUploadBytes := cfg.MaxUploadBytes
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 * 1024 * 1024
	}
	s := &Server{
		app:            cfg.App,
		tokenVerifier:  cfg.TokenVerifier,
		writeLimiter:   cfg.WriteLimiter,
		uploadLimiter:  cfg.UploadLimiter,
		trustedProxies: cfg.TrustedProxies,
		mux:            http.NewServeMux(),
		maxUploadBytes: maxUploadBytes,
	}
	s.routes()
	return s
}

// Router returns the configured handler wrapped in the shared middleware.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// catalog reads are public, rating submission authenticates per request
	s.mux.HandleFunc("/videos", s.handleVideos)
	s.mux.HandleFunc("/videos/", s.handleVideoSubtree)

	// profiles and everything scoped under them
	s.mux.Handle("/profiles", s.withAccount(s.handleProfiles))
	s.mux.Handle("/profiles/", s.withAccount(s.handleProfileSubtree))

	// image assets
	s.mux.HandleFunc("/assets/", s.handleAsset)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type accountHandler func(http.ResponseWriter, *http.Request, domain.Account)

// withAccount authenticates the bearer token and resolves (lazily creating)
// the backing account before calling the handler.
func (s *Server) withAccount(next accountHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		next(w, r, account)
	})
}

// authenticate resolves the caller's account from the bearer token. On
// failure the response has already been written and ok is false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (domain.Account, bool) {
	if s.tokenVerifier == nil {
		writeError(w, http.StatusInternalServerError, "token verifier not configured")
		return domain.Account{}, false
	}
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return domain.Account{}, false
	}
	subject, err := s.tokenVerifier.VerifySubject(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return domain.Account{}, false
	}
	account, err := s.app.EnsureAccount(subject, "", "")
	if err != nil {
		util.LoggerFromContext(r.Context()).Error("ensure account failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return domain.Account{}, false
	}
	return account, true
}

// allowWrite enforces the mutation rate limit.
func (s *Server) allowWrite(w http.ResponseWriter, r *http.Request) bool {
	return s.allow(s.writeLimiter, w, r)
}

// allowUpload enforces the tighter upload rate limit.
func (s *Server) allowUpload(w http.ResponseWriter, r *http.Request) bool {
	return s.allow(s.uploadLimiter, w, r)
}

// allow counts per request path and client IP.
func (s *Server) allow(limiter *ratelimit.FixedWindowLimiter, w http.ResponseWriter, r *http.Request) bool {
	if limiter == nil {
		return true
	}
	key := r.URL.Path + ":" + util.ClientIP(r, s.trustedProxies)
	if !limiter.Allow(key) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return false
	}
	return true
}

// writeAppError maps application errors onto HTTP statuses.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrValidation),
		errors.Is(err, app.ErrAlreadyFavorited),
		errors.Is(err, app.ErrNotFavorited):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, app.ErrProfileLimit):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		util.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusNotFound, msg)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}
