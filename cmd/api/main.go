package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-dtr-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-dtr-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-dtr-go/internal/service/attendance"
	reportService "github.com/cmlabs-hris/hris-dtr-go/internal/service/report"
	scheduleService "github.com/cmlabs-hris/hris-dtr-go/internal/service/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	})))

	dsn := cfg.DatabaseURL()
	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(dsn); err != nil {
			slog.Error("Error running migrations", "error", err)
			return
		}
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	scheduleAssignmentRepo := postgresql.NewScheduleAssignmentRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	scanEventRepo := postgresql.NewScanEventRepository(db)
	dailyTimeRecordRepo := postgresql.NewDailyTimeRecordRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	resolver := scheduleService.NewResolver(workScheduleRepo, scheduleAssignmentRepo)
	dtrService := attendanceService.NewDTRService(
		scanEventRepo,
		dailyTimeRecordRepo,
		employeeRepo,
		holidayRepo,
		resolver,
		cfg.Policy(),
		time.Now,
	)
	reportSvc := reportService.NewReportService(dailyTimeRecordRepo, employeeRepo, time.Now)

	dtrHandler := appHTTP.NewDTRHandler(dtrService)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{Env: cfg.App.Env, AllowedOrigins: cfg.App.AllowedOrigins},
		JWTService,
		dtrHandler,
		reportHandler,
	)

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		cron.NewDTRJobs(dtrService, employeeRepo, cfg.Cron.RunHour, cfg.Cron.Workers, time.Now).RegisterJobs(scheduler)
		scheduler.Start()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	if cfg.Cron.Enabled {
		scheduler.Stop()
	}
}

func logLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
