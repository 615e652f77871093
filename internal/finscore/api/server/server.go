package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	"github.com/Leopold1975/finscore/internal/finscore/services/authservice"
	"github.com/Leopold1975/finscore/internal/finscore/services/productservice"
	"github.com/Leopold1975/finscore/internal/pkg/config"
	"github.com/Leopold1975/finscore/internal/pkg/metrics"
	"github.com/Leopold1975/finscore/internal/pkg/ratelimit"
	"github.com/Leopold1975/finscore/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	serv           *http.Server
	authService    AuthService
	productService ProductService
	lg             logger.Logger
}

type AuthService interface {
	CreateUser(context.Context, authservice.CreateUserRequest) (models.User, error)
	Login(context.Context, authservice.LoginRequest) (string, error)
	Authenticate(ctx context.Context, token string) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	UpdateUser(ctx context.Context, id int64, req authservice.UpdateUserRequest, partial bool) (models.User, error)
}

type ProductService interface {
	ListTags(ctx context.Context, userID int64) ([]models.Tag, error)
	CreateTag(ctx context.Context, userID int64, req productservice.CreateTagRequest) (models.Tag, error)
	ListProducts(ctx context.Context, userID int64, tagIDs []int64) ([]models.Product, error)
	GetProduct(ctx context.Context, userID, id int64) (models.Product, error)
	CreateProduct(ctx context.Context, userID int64, req productservice.ProductRequest) (models.Product, error)
	UpdateProduct(ctx context.Context, userID, id int64, req productservice.ProductRequest) (models.Product, error)
	PatchProduct(ctx context.Context, userID, id int64, req productservice.PatchProductRequest) (models.Product, error)
	DeleteProduct(ctx context.Context, userID, id int64) error
}

func New(cfg config.Server, as AuthService, ps ProductService,
	limiter *ratelimit.KeyedLimiter, lg logger.Logger,
) *Server {
	s := &Server{ //nolint:exhaustruct
		authService:    as,
		productService: ps,
		lg:             lg,
	}

	m := metrics.NewHTTPMetrics("finscore")

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.Middleware)
	r.Use(loggingMiddleware(lg))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{ //nolint:exhaustruct
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300, //nolint:gomnd
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/users", s.CreateUser)
		r.With(rateLimitMiddleware(limiter)).Post("/users/token", s.CreateToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(as))

			r.Get("/users/me", s.GetMe)
			r.Put("/users/me", s.UpdateMe)
			r.Patch("/users/me", s.PatchMe)

			r.Get("/tags", s.ListTags)
			r.Post("/tags", s.CreateTag)

			r.Get("/products", s.ListProducts)
			r.Post("/products", s.CreateProduct)
			r.Get("/products/{id}", s.GetProduct)
			r.Put("/products/{id}", s.UpdateProduct)
			r.Patch("/products/{id}", s.PatchProduct)
			r.Delete("/products/{id}", s.DeleteProduct)
		})
	})

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.serv.Handler
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	s.lg.Infof("server started on %s", s.serv.Addr)

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json.NewEncoder(w).Encode(v) //nolint:errcheck,errchkjson
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode error: %w", err)
	}

	return nil
}
