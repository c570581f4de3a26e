package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"carrental-backend/internal/config"
	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const RequestIDHeader = "X-Request-ID"

type callerKey struct{}

// CallerFromContext returns the identity placed in ctx by the auth middleware.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(domain.Caller)
	return c, ok
}

func withCaller(ctx context.Context, c domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// RequestID tags the request with an id, reusing the client's one when sent,
// and stores a logger carrying it in the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		l := logger.Get().With("request_id", id)
		next.ServeHTTP(w, r.WithContext(logger.NewContext(r.Context(), l)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// Recover turns a handler panic into a 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "Handler panicked", "panic", rec, "stack", string(debug.Stack()))
				writeError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handler checks the bearer token against the security level of the matched
// route. Public routes still get a caller when a valid token is sent.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		level := config.GetSecurityLevel(name)

		token, present := extractToken(r)
		if level == config.SecurityPublic && !present {
			next.ServeHTTP(w, r)
			return
		}
		if !present {
			writeError(w, r, fmt.Errorf("%w: authorization token is not provided", domain.ErrUnauthorized))
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			if level == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err))
			return
		}

		if level == config.SecurityAdmin && !claims.IsAdmin {
			writeError(w, r, fmt.Errorf("%w: admin role required", domain.ErrForbidden))
			return
		}

		ctx := withCaller(r.Context(), domain.Caller{UserID: claims.UserID, IsAdmin: claims.IsAdmin})
		ctx = logger.NewContext(ctx, logger.FromContext(ctx).With("user_id", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token := header
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = token[7:]
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// requireCaller is used by handlers behind access-level routes.
func requireCaller(r *http.Request) (domain.Caller, error) {
	c, ok := CallerFromContext(r.Context())
	if !ok {
		return domain.Caller{}, domain.ErrUnauthorized
	}
	return c, nil
}
