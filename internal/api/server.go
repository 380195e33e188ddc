package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sardhan/security-scanner/internal/api/middleware"
	"github.com/sardhan/security-scanner/internal/scanner"
	consts "github.com/sardhan/security-scanner/internal/shared/constants"
	serr "github.com/sardhan/security-scanner/internal/shared/errors"
	"go.uber.org/zap"
)

// ScanRequest is the POST /scan body.
type ScanRequest struct {
	URL string `json:"url"`
}

// ScanResponse is the success shape of POST /scan.
type ScanResponse struct {
	Score   int               `json:"score"`
	Results []scanner.Finding `json:"results"`
}

// ErrorResponse is the failure shape of POST /scan and of every other error.
type ErrorResponse struct {
	Error string `json:"error"`
}

type ScanService interface {
	Scan(ctx context.Context, target string) (*scanner.Report, error)
}

type HealthService interface {
	Check(ctx context.Context) error
}

type Config struct {
	Scanner     ScanService
	Health      HealthService
	PublicDir   string // static front-end served at "/" (empty = disabled)
	Logger      *zap.Logger
	CORSOrigins []string // Allowed CORS origins (empty = allow all)
	RateLimit   int      // Scan requests per second per IP (0 = disabled)
	TrustProxy  bool     // Key the limiter on X-Forwarded-For instead of RemoteAddr
	RateBurst   int      // Burst size for rate limiter
}

type Server struct {
	cfg      Config
	mux      *http.ServeMux
	handler  http.Handler
	limiters *rateLimiterMap
}

func NewServer(cfg Config) *Server {
	srv := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		limiters: newRateLimiterMap(),
	}
	srv.routes()
	// RequestID -> Logging -> CORS -> Handler; scan routes add RateLimit
	srv.handler = middleware.RequestID(srv.withLogging(srv.withCORS(srv.mux)))
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close releases background resources. It does not stop an http.Server.
func (s *Server) Close() {
	s.limiters.stop()
}

func (s *Server) routes() {
	scan := s.withRateLimit(http.HandlerFunc(s.handleScan))
	s.mux.Handle("/scan", scan)
	s.mux.Handle("/api/v1/scan", scan)
	s.mux.HandleFunc("/api/v1/health", s.handleHealth)

	if s.cfg.PublicDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.cfg.PublicDir)))
	}
}

// handleScan always answers 200; the body carries either a report or an error.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r, http.MethodPost)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, consts.MaxRequestBodyBytes)
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.requestLogger(r).Debug("scan_request_decode_failed", zap.Error(err))
		req = ScanRequest{}
	}

	start := time.Now()
	report, err := s.cfg.Scanner.Scan(r.Context(), req.URL)
	if err != nil {
		msg := consts.MsgScanFailed
		if errors.Is(err, serr.ErrInvalidURL) {
			msg = consts.MsgInvalidURL
		}
		s.requestLogger(r).Warn("scan_failed",
			zap.String("target", req.URL),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		writeJSON(w, http.StatusOK, ErrorResponse{Error: msg})
		return
	}

	s.requestLogger(r).Info("scan_served",
		zap.String("target", req.URL),
		zap.Int("score", report.Score),
		zap.Duration("duration", time.Since(start)),
	)
	writeJSON(w, http.StatusOK, ScanResponse{Score: report.Score, Results: report.Results})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if s.cfg.Health != nil {
		if err := s.cfg.Health.Check(r.Context()); err != nil {
			s.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r, s.cfg.TrustProxy)
		limiter := s.limiters.getLimiter(ip, s.cfg.RateLimit, s.cfg.RateBurst)
		if !limiter.Allow() {
			s.requestLogger(r).Warn("rate_limit_exceeded", zap.String("client_ip", ip))
			s.writeError(w, r, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowOrigin := "*"
		if len(s.cfg.CORSOrigins) > 0 {
			allowOrigin = ""
			for _, allowed := range s.cfg.CORSOrigins {
				if allowed == origin {
					allowOrigin = origin
					break
				}
			}
		}

		if allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		if s.cfg.Logger != nil {
			s.cfg.Logger.Info("http_request",
				zap.String("request_id", middleware.GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", lrw.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.Int64("bytes", lrw.bytesWritten),
			)
		}
	})
}

// loggingResponseWriter wraps http.ResponseWriter to capture status code and bytes written
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()

	// 5xx details stay server-side
	if status >= 500 {
		s.requestLogger(r).Error("internal_server_error",
			zap.Error(err),
			zap.Int("status", status),
		)
		msg = "internal server error"
	}

	writeJSON(w, status, ErrorResponse{Error: msg})
}

// requestLogger creates a logger with request context (request ID, method, path)
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if s.cfg.Logger == nil {
		return zap.NewNop()
	}

	return s.cfg.Logger.With(
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	w.Header().Set("Allow", allow)
	s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}
