package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	"github.com/Leopold1975/finscore/internal/pkg/ratelimit"
	"github.com/Leopold1975/finscore/pkg/logger"
	"github.com/google/uuid"
)

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

const requestIDHeader = "X-Request-ID"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))
	})
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rr := httptest.NewRecorder()
			lg := logg.With("request_id", requestIDFromContext(r.Context()))

			defer func() {
				lg.Infow("request",
					"method", r.Method,
					"proto", r.Proto,
					"uri", r.URL.RequestURI(),
					"status", rr.Code,
					"latency", time.Since(start).String(),
					"client_ip", r.RemoteAddr,
					"user_agent", r.UserAgent(),
				)
			}()

			next.ServeHTTP(rr, r)

			for k, v := range rr.Header() {
				w.Header()[k] = v
			}

			w.WriteHeader(rr.Code)

			if rr.Code >= 400 && rr.Body.Len() != 0 {
				lg.Errorw("request failed", "status", rr.Code, "body", rr.Body.String())
			}

			if _, err := rr.Body.WriteTo(w); err != nil {
				lg.Errorf("middleware write error: %s", err.Error())
			}
		})
	}
}

// authMiddleware resolves the Authorization header to a user and stores it in the
// request context. Both "Bearer <token>" and "Token <token>" are accepted.
func authMiddleware(as AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := tokenFromHeader(r.Header.Get("Authorization"))
			if !ok {
				handleError(w, errors.New("authentication credentials were not provided"), //nolint:goerr113
					http.StatusUnauthorized)

				return
			}

			u, err := as.Authenticate(r.Context(), token)
			if err != nil {
				handleServiceError(w, err)

				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
		})
	}
}

func tokenFromHeader(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}

	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

// userFromContext is only valid behind authMiddleware.
func userFromContext(ctx context.Context) models.User {
	u, _ := ctx.Value(userKey).(models.User)

	return u
}

func rateLimitMiddleware(kl *ratelimit.KeyedLimiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !kl.Allow(host) {
				w.Header().Set("Retry-After", "1")
				handleError(w, errors.New("too many requests"), http.StatusTooManyRequests) //nolint:goerr113

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
