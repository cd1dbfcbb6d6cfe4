package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/redis/go-redis/v9"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/config"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/summary"
	appHTTP "github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/aisummary"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/auth"
	chatService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/chat"
	dashboardService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/dashboard"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/export"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/file"
	identityService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/identity"
	reportService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/report"
	rosterService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/roster"
)

// Set through -ldflags at build time.
var (
	version   = ""
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

type repositories struct {
	roster    roster.Repository
	employees employee.Reader
	events    attendance.EventRepository
	reports   report.Repository
	chat      chat.Repository
	tokens    auth.TokenRepository
	close     func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.App.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := buildVersion()
	if cfg.Telemetry.ServiceVersion == "dev" && info.GitVersion != "" {
		cfg.Telemetry.ServiceVersion = info.GitVersion
	}

	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown telemetry", "error", err)
		}
	}()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	locker, closeLocker, err := newLocker(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeLocker()

	fileStorage, err := newFileStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	fileSvc := file.NewFileService(fileStorage)

	jwtSvc, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	loc := cfg.Attendance.Location()
	classifier := attendanceService.Classifier{
		Policy: attendance.MissingSitePolicy(cfg.Attendance.MissingSitePolicy),
		Grace:  cfg.Attendance.GracePeriod,
	}
	if cfg.Attendance.SiteLatitude != nil && cfg.Attendance.SiteLongitude != nil {
		classifier.CompanySite = &attendance.Site{
			Position:     attendance.Position{Latitude: *cfg.Attendance.SiteLatitude, Longitude: *cfg.Attendance.SiteLongitude},
			RadiusMeters: cfg.Attendance.RadiusMeters,
		}
	}

	var summarizer summary.Summarizer
	if cfg.AI.GeminiAPIKey != "" {
		gemini, err := aisummary.NewGeminiSummarizer(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model, loc)
		if err != nil {
			return fmt.Errorf("init gemini: %w", err)
		}
		summarizer = gemini
	} else {
		slog.Warn("GEMINI_API_KEY not set, attendance summary disabled")
	}

	hub := sse.NewHub()
	ledger := attendanceService.NewLedger(repos.events)
	rosterSvc := rosterService.NewRosterService(repos.roster, locker, rosterService.BootstrapAdmin{
		Name:     cfg.Bootstrap.AdminName,
		Phone:    cfg.Bootstrap.AdminPhone,
		Password: cfg.Bootstrap.AdminPassword,
	})
	attendanceSvc := attendanceService.NewAttendanceService(ledger, classifier, repos.employees, fileSvc, cfg.Attendance.RadiusMeters, loc)

	if err := rosterSvc.EnsureAdmin(ctx); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	scheduler := cron.NewScheduler(locker)
	cron.NewAttendanceJobs(attendanceSvc, cfg.Attendance.AbsenceSweepEvery).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Version:        cfg.Telemetry.ServiceVersion,
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
		Employees:      repos.employees,
	}, jwtSvc, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(jwtSvc, authService.NewAuthService(repos.employees, repos.tokens, jwtSvc)),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, export.NewExportService(ledger, loc)),
		Employee:   appHTTP.NewEmployeeHandler(rosterSvc),
		Department: appHTTP.NewDepartmentHandler(rosterSvc),
		Chat:       appHTTP.NewChatHandler(chatService.NewChatService(repos.chat, repos.roster, hub), jwtSvc),
		Report:     appHTTP.NewReportHandler(reportService.NewReportService(repos.reports, repos.employees, fileSvc)),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardService.NewDashboardService(repos.roster, ledger, summarizer, cfg.AI.MaxEvents, loc)),
		Identity:   appHTTP.NewIdentityHandler(identityService.NewIdentityService(repos.employees)),
		File:       appHTTP.NewFileHandler(fileSvc),
		Version:    appHTTP.NewVersionHandler(info),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "store", cfg.App.StoreDriver, "version", info.GitVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.App.StoreDriver == "memory" {
		slog.Warn("using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			roster:    store.Roster(),
			employees: store.Employees(),
			events:    store.Events(),
			reports:   store.Reports(),
			chat:      store.Chat(),
			tokens:    store.Tokens(),
			close:     func() {},
		}, nil
	}

	dsn := cfg.DatabaseURL()
	if err := database.MigrateUp(dsn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &repositories{
		roster:    postgresql.NewRosterRepository(db),
		employees: postgresql.NewEmployeeRepository(db),
		events:    postgresql.NewEventRepository(db),
		reports:   postgresql.NewReportRepository(db),
		chat:      postgresql.NewChatRepository(db),
		tokens:    postgresql.NewTokenRepository(db),
		close:     db.Close,
	}, nil
}

// newLocker uses Redis when configured so roster writes and cron ticks
// serialize across replicas.
func newLocker(ctx context.Context, cfg config.RedisConfig) (lock.Locker, func(), error) {
	if cfg.Addr == "" {
		return lock.NewLocalLocker(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return lock.NewRedisLocker(client), func() { client.Close() }, nil
}

func newFileStorage(ctx context.Context, cfg config.StorageConfig) (storage.FileStorage, error) {
	switch cfg.Driver {
	case "s3":
		s3, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		return s3, nil
	default:
		local, err := storage.NewLocalStorage(cfg.LocalPath, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("init local storage: %w", err)
		}
		return local, nil
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildVersion() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("fieldforce-backend", "Field workforce attendance backend", ""),
		func(i *goversion.Info) {
			if version != "" {
				i.GitVersion = version
			}
			if commit != "" {
				i.GitCommit = commit
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
