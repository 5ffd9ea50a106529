package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-redis/redis"
	"github.com/labstack/echo"
	"gorm.io/gorm"

	"github.com/tindev/tindev-app/internal/config"
	"github.com/tindev/tindev-app/internal/datastore/postgres"
	redisClient "github.com/tindev/tindev-app/internal/datastore/redis"
	"github.com/tindev/tindev-app/internal/realtime"
	swipeRepo "github.com/tindev/tindev-app/internal/repository/swipe"
	userRepo "github.com/tindev/tindev-app/internal/repository/user"
	routesV1 "github.com/tindev/tindev-app/internal/routes/v1"
	authUseCase "github.com/tindev/tindev-app/internal/usecase/auth"
	"github.com/tindev/tindev-app/internal/usecase/match"
	"github.com/tindev/tindev-app/pkg/jwt"
	"github.com/tindev/tindev-app/pkg/logx"
)

type Server struct {
	writer     io.Writer
	httpServer *http.Server
	database   *gorm.DB
}

// Run wires the whole server together and blocks until ctx is
// cancelled or the listener fails. args[0] selects the environment
// prefix for configuration ("dev", "test", ...).
func Run(ctx context.Context, w io.Writer, args []string) error {
	env := "dev"
	if len(args) > 0 {
		env = args[0]
	}

	cfg, err := config.NewConfig(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logx.Init(cfg.Env != "PROD")
	jwt.Configure(cfg.Get("JWT_SECRET"))

	database, err := postgres.InitializeDB(
		cfg.Get("POSTGRES_USER"),
		cfg.Get("POSTGRES_PASSWORD"),
		cfg.Get("POSTGRES_DB_NAME"),
		cfg.Get("POSTGRES_HOST"),
		cfg.Get("POSTGRES_PORT"),
	)
	if err != nil {
		return err
	}

	rdb, err := redisClient.InitializeRedis(cfg.Get("REDIS_HOST"), cfg.Get("REDIS_PORT"))
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	server := NewServer(ctx, w, cfg, database, rdb)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartServer()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func NewServer(ctx context.Context, w io.Writer, cfg config.IConfig, database *gorm.DB, rdb *redis.Client) *Server {
	e := echo.New()

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	users := userRepo.New(database)
	swipes := swipeRepo.NewSwipeRepo(database, rdb)
	registry := realtime.NewRegistry()

	authCase := authUseCase.New(users)
	matchCase := match.NewMatchUseCase(users, swipes, registry)

	server := &Server{
		writer: w,
		httpServer: &http.Server{
			Addr:    ":" + cfg.Get("PORT"),
			Handler: e,
		},
		database: database,
	}

	server.RegisterRoutes(e, authCase, matchCase, users, registry)
	return server
}

func (s *Server) RegisterRoutes(
	e *echo.Echo,
	authCase authUseCase.IAuthUseCase,
	matchCase match.IMatchUseCase,
	users userRepo.IUserRepo,
	registry *realtime.Registry,
) {
	e.GET("/healthz", s.handleHealthCheck)
	routesV1.InitV1Routes(e, authCase, matchCase, users, registry)
}

func (s *Server) StartServer() error {
	fmt.Fprintf(s.writer, "Server starting on %s\n", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
