package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/finscore/internal/finscore/api/server"
	"github.com/Leopold1975/finscore/internal/finscore/repository/productcache/redis"
	pr "github.com/Leopold1975/finscore/internal/finscore/repository/productrepo/postgres"
	ur "github.com/Leopold1975/finscore/internal/finscore/repository/userrepo/postgres"
	"github.com/Leopold1975/finscore/internal/finscore/services/authservice"
	"github.com/Leopold1975/finscore/internal/finscore/services/productservice"
	"github.com/Leopold1975/finscore/internal/pkg/config"
	"github.com/Leopold1975/finscore/internal/pkg/pgtools"
	"github.com/Leopold1975/finscore/internal/pkg/ratelimit"
	"github.com/Leopold1975/finscore/internal/pkg/redistools"
	"github.com/Leopold1975/finscore/internal/pkg/validation"
	"github.com/Leopold1975/finscore/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

const limiterSweepInterval = time.Minute

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type FinscoreApp struct {
	s       Server
	lg      logger.Logger
	cfg     config.Config
	db      *pgxpool.Pool
	rdb     *goredis.Client
	limiter *ratelimit.KeyedLimiter
}

func New(ctx context.Context, cfg config.Config) (FinscoreApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return FinscoreApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	db, err := pgtools.New(ctx, cfg.PostgresDB)
	if err != nil {
		return FinscoreApp{}, fmt.Errorf("postgres initializing error: %w", err)
	}

	rdb, err := redistools.New(ctx, cfg.RedisCache)
	if err != nil {
		db.Close()

		return FinscoreApp{}, fmt.Errorf("redis initializing error: %w", err)
	}

	v := validation.New()

	authService := authservice.New(ur.New(db), v, cfg.Auth)
	productService := productservice.New(pr.New(db), redis.New(rdb, cfg.RedisCache.ExpTime), v,
		lg.With("service", "products"))

	limiter := ratelimit.New(cfg.Auth.LoginRPS, cfg.Auth.LoginBurst, cfg.Server.IdleTimeout+time.Minute)

	s := server.New(cfg.Server, authService, productService, limiter, lg)

	return FinscoreApp{
		s:       s,
		lg:      lg,
		cfg:     cfg,
		db:      db,
		rdb:     rdb,
		limiter: limiter,
	}, nil
}

func (fa *FinscoreApp) Run(ctx context.Context) {
	go fa.limiter.Run(ctx, limiterSweepInterval)

	go func() {
		if err := fa.s.Start(ctx); err != nil {
			fa.lg.Errorf("server start error: %s", err.Error())

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := fa.Stop(ctxS); err != nil { //nolint:contextcheck
		fa.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (fa *FinscoreApp) Stop(ctx context.Context) error {
	defer fa.lg.Sync() //nolint:errcheck

	if err := fa.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := fa.rdb.Close(); err != nil {
		fa.lg.Errorf("redis close error: %s", err.Error())
	}

	fa.db.Close()

	fa.lg.Info("Shutdowned successfully")

	return nil
}
