package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/cmlabs-hris/attendance-engine/internal/config"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/keylock"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/messaging"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	reportService "github.com/cmlabs-hris/attendance-engine/internal/service/report"
)

// app holds the services a command needs. Commands share the server's
// configuration so locks and events line up with a running API.
type app struct {
	out        io.Writer
	loc        *time.Location
	attendance attendance.AttendanceService
	reports    report.ReportService

	db    *database.DB
	redis *redis.Client
}

func newApp(ctx context.Context, out io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Store.Driver != config.StorePostgres {
		return nil, fmt.Errorf("attendancectl needs STORE_DRIVER=%s, got %q", config.StorePostgres, cfg.Store.Driver)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	policies, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.Options{MaxConns: 4, MinConns: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a := &app{out: out, loc: loc, db: db}
	log.Debug().Str("host", cfg.Database.Host).Str("name", cfg.Database.Name).Msg("Connected to the database")

	var locker keylock.Locker = keylock.NewKeyedMutex(cfg.Lock.Wait)
	if cfg.Lock.Driver == config.LockRedis {
		client, err := keylock.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		locker = keylock.NewRedisLocker(client, keylock.RedisOptions{
			Wait:   cfg.Lock.Wait,
			TTL:    cfg.Lock.TTL,
			Prefix: cfg.App.Name + ":lock:",
		})
	}

	var publisher attendance.EventPublisher = attendance.NopPublisher{}
	if cfg.Messaging.Enabled {
		sqsClient, err := messaging.NewSQSClient(ctx, messaging.AWSOptions{
			Region:   cfg.Messaging.Region,
			Endpoint: cfg.Messaging.Endpoint,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		publisher = messaging.NewProducer(messaging.NewSQSSender(sqsClient), cfg.Messaging.RecordQueueURL, cfg.Messaging.ViolationsQueueURL)
	}

	store := postgresql.NewRecordRepository(db, loc)
	a.attendance = attendanceService.NewAttendanceService(
		store,
		postgresql.NewEmployeeRepository(db, policies.DefaultSchedule),
		policies,
		policies,
		locker,
		attendanceService.WithLocation(loc),
		attendanceService.WithHolidayCalendar(postgresql.NewHolidayRepository(db)),
		attendanceService.WithPublisher(publisher),
	)
	a.reports = reportService.NewReportService(store, policies, loc)
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.db.Close()
}
