package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/config"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	appHTTP "github.com/cmlabs-hris/attendance-engine/internal/handler/http"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/keylock"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/logger"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/messaging"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/telemetry"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	reportService "github.com/cmlabs-hris/attendance-engine/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.Setup(logger.Options{
		App:         cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Env,
		Level:       cfg.App.LogLevel,
	})

	if err := run(cfg, log); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server exiting")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to init tracer: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Warn("Failed to flush traces", "error", err)
		}
	}()

	policies, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}

	// Record store, employee directory and holiday calendar
	var (
		store     attendance.RecordStore
		directory employee.Directory
		holidays  schedule.HolidayCalendar
	)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.Options{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
			Traced:   cfg.Telemetry.Exporter != telemetry.ExporterNone,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		log.Info("Connected to the database", "host", cfg.Database.Host, "name", cfg.Database.Name)

		store = postgresql.NewRecordRepository(db, loc)
		directory = postgresql.NewEmployeeRepository(db, policies.DefaultSchedule)

		holidayRepo := postgresql.NewHolidayRepository(db)
		// The holidays table follows the policy file only when the file lists
		// holidays; otherwise it is managed directly in the database.
		syncHolidays := func(ctx context.Context, list []schedule.Holiday) {
			if len(list) == 0 {
				return
			}
			if err := holidayRepo.Replace(ctx, list); err != nil {
				log.Error("Failed to sync holidays", "error", err)
			}
		}
		syncHolidays(ctx, policies.Holidays())
		policies.OnChange(func(snap config.PolicySnapshot) {
			syncHolidays(context.Background(), snap.Holidays)
		})
		holidays = holidayRepo

	default:
		store = memory.NewRecordStore()
		fallback := policies.DefaultSchedule()
		directory = memory.NewDirectory(nil, &fallback)

		calendar, err := memory.NewHolidayCalendar(policies.Holidays())
		if err != nil {
			return err
		}
		policies.OnChange(func(snap config.PolicySnapshot) {
			if err := calendar.Replace(snap.Holidays); err != nil {
				log.Error("Failed to reload holidays", "error", err)
			}
		})
		holidays = calendar
		log.Warn("Using the in-memory store, records are lost on restart")
		log.Warn("Every employee id is accepted and clocked on the default schedule",
			"start", fallback.StartTime.String(),
			"end", fallback.EndTime.String(),
		)
	}
	policies.Watch()

	// Per-record lock
	var locker keylock.Locker
	switch cfg.Lock.Driver {
	case config.LockRedis:
		client, err := keylock.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		locker = keylock.NewRedisLocker(client, keylock.RedisOptions{
			Wait:   cfg.Lock.Wait,
			TTL:    cfg.Lock.TTL,
			Prefix: cfg.App.Name + ":lock:",
		})
	default:
		locker = keylock.NewKeyedMutex(cfg.Lock.Wait)
	}

	// Event publishers
	hub := sse.NewHub()
	publishers := messaging.Fanout{sse.NewPublisher(hub)}
	if cfg.Messaging.Enabled {
		sqsClient, err := messaging.NewSQSClient(ctx, messaging.AWSOptions{
			Region:   cfg.Messaging.Region,
			Endpoint: cfg.Messaging.Endpoint,
		})
		if err != nil {
			return err
		}
		sender := messaging.NewBreakerSender("sqs", messaging.NewSQSSender(sqsClient))
		publishers = append(publishers, messaging.NewProducer(sender, cfg.Messaging.RecordQueueURL, cfg.Messaging.ViolationsQueueURL))
	}

	attendanceSvc := attendanceService.NewAttendanceService(
		store,
		directory,
		policies,
		policies,
		locker,
		attendanceService.WithLocation(loc),
		attendanceService.WithHolidayCalendar(holidays),
		attendanceService.WithPublisher(publishers),
	)
	reportSvc := reportService.NewReportService(store, policies, loc)

	scheduler := cron.NewScheduler()
	if cfg.Jobs.Enabled {
		jobs := cron.NewAttendanceJobs(attendanceSvc, loc, cfg.Jobs.AbsenceHour)
		jobs.RegisterJobs(scheduler, cfg.Jobs.Interval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         log,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			ServiceName:    cfg.App.Name,
		},
		appHTTP.NewAttendanceHandler(attendanceSvc, hub),
		appHTTP.NewReportHandler(reportSvc),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Cancelled on shutdown so open SSE streams end.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server running", "addr", srv.Addr, "store", cfg.Store.Driver, "lock", cfg.Lock.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
