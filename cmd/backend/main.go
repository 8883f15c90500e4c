// The backend binary owns the course store and serves the internal gRPC
// channel the gateway forwards to.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"gorm.io/gorm"

	"github.com/edulab/go-course-platform/internal/config"
	"github.com/edulab/go-course-platform/internal/domain"
	"github.com/edulab/go-course-platform/internal/observability"
	"github.com/edulab/go-course-platform/internal/repo"
	"github.com/edulab/go-course-platform/internal/rpc"
	"github.com/edulab/go-course-platform/internal/services"
	"github.com/edulab/go-course-platform/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// courseRepoShim adapts the repository free functions to the
// services.CourseRepo interface expected by the CourseService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type courseRepoShim struct{}

func (courseRepoShim) CreateCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error {
	return repo.CreateCourse(ctx, db, c)
}

func (courseRepoShim) ListCourses(ctx context.Context, db *gorm.DB) ([]domain.Course, error) {
	return repo.ListCourses(ctx, db)
}

func (courseRepoShim) GetCourse(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error) {
	return repo.GetCourse(ctx, db, id)
}

func (courseRepoShim) GetCourseByTitle(ctx context.Context, db *gorm.DB, title string) (*domain.Course, error) {
	return repo.GetCourseByTitle(ctx, db, title)
}

func (courseRepoShim) GetCourseWithFiles(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error) {
	return repo.GetCourseWithFiles(ctx, db, id)
}

func (courseRepoShim) SaveCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error {
	return repo.SaveCourse(ctx, db, c)
}

func (courseRepoShim) DeleteCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error {
	return repo.DeleteCourse(ctx, db, c)
}

func (courseRepoShim) ListFilesByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.File, error) {
	return repo.ListFilesByIDs(ctx, db, ids)
}

func (courseRepoShim) ReplaceCourseFiles(ctx context.Context, db *gorm.DB, c *domain.Course, files []domain.File) error {
	return repo.ReplaceCourseFiles(ctx, db, c, files)
}

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	shutdownOTel, err := observability.SetupOTel(context.Background(), cfg.OTEL, observability.BackendService, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Fatal().Err(err).Msg("instrument database")
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	svc := services.NewCourseService(db, courseRepoShim{})
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(rpc.RecoveryInterceptor()))
	rpc.Register(srv, rpc.NewCourseServer(svc))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("listen")
	}

	go func() {
		log.Info().Str("addr", cfg.GRPCAddr).Msg("course backend listening")
		if err := srv.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("serve grpc")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	srv.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
