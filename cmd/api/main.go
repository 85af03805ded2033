package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	scheduleService "github.com/cmlabs-hris/attendance-backend-go/internal/service/schedule"
	subjectService "github.com/cmlabs-hris/attendance-backend-go/internal/service/subject"
)

const shutdownTimeout = 15 * time.Second

type repositories struct {
	subjects    subject.SubjectRepository
	schedules   schedule.ScheduleRepository
	attendances attendance.AttendanceRepository
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal("Error opening storage: ", err)
	}
	defer repos.close()

	scheduleCache := openCache(ctx, cfg)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	scheduleSvc := scheduleService.NewScheduleService(repos.schedules, repos.subjects, scheduleCache, cfg.Redis.CacheTTL)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendances, repos.subjects, scheduleSvc, cfg.App.Timezone)
	reportSvc := reportService.NewReportService(repos.attendances, repos.subjects)
	subjectSvc := subjectService.NewSubjectService(repos.subjects)

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(repos.attendances, cfg.App.Timezone).RegisterJobs(scheduler, cfg.Jobs.StaleRecordCheckInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Schedule:   appHTTP.NewScheduleHandler(scheduleSvc, cfg.App.Timezone),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, sse.NewHub()),
		Report:     appHTTP.NewReportHandler(reportSvc, cfg.App.Timezone),
		Subject:    appHTTP.NewSubjectHandler(subjectSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "storage", cfg.App.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.App.StorageDriver {
	case config.StorageDriverMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
		return repositories{
			subjects:    memory.NewSubjectRepository(),
			schedules:   memory.NewScheduleRepository(),
			attendances: memory.NewAttendanceRepository(),
			close:       func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return repositories{}, fmt.Errorf("connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return repositories{}, fmt.Errorf("migrate database: %w", err)
		}
		return repositories{
			subjects:    postgresql.NewSubjectRepository(db),
			schedules:   postgresql.NewScheduleRepository(db),
			attendances: postgresql.NewAttendanceRepository(db),
			close:       db.Close,
		}, nil
	}
}

// openCache connects the schedule cache when Redis is configured. The
// service runs uncached when Redis is absent or unreachable.
func openCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if cfg.Redis.Host == "" {
		return cache.Noop{}
	}

	redisCache, err := cache.NewRedisCache(ctx, cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		slog.Warn("Redis unavailable, schedule cache disabled", "error", err)
		return cache.Noop{}
	}
	go func() {
		<-ctx.Done()
		if err := redisCache.Close(); err != nil {
			slog.Warn("Failed to close redis", "error", err)
		}
	}()
	return redisCache
}
