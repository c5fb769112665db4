package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pontonfc/ponto-system/internal/api"
	"github.com/pontonfc/ponto-system/internal/api/handler"
	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/ports"
	"github.com/pontonfc/ponto-system/internal/core/service"
	"github.com/pontonfc/ponto-system/internal/core/state"
	"github.com/pontonfc/ponto-system/internal/infrastructure/db/jsonfile"
	mongostore "github.com/pontonfc/ponto-system/internal/infrastructure/db/mongo"
	"github.com/pontonfc/ponto-system/internal/infrastructure/excel"
	"github.com/pontonfc/ponto-system/internal/infrastructure/queue"
	serialdev "github.com/pontonfc/ponto-system/internal/infrastructure/serial"
	"github.com/pontonfc/ponto-system/internal/pkg/config"
	"github.com/pontonfc/ponto-system/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	var (
		employeeRepo ports.EmployeeRepository
		recordRepo   ports.AttendanceRepository
		storage      handler.Pinger
	)
	switch cfg.Storage.Driver {
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Storage.Mongo.URI,
			Database: cfg.Storage.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()

		attendanceRepo := mongostore.NewAttendanceRepository(db)
		if err := attendanceRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo index creation failed")
		}
		employeeRepo = mongostore.NewEmployeeRepository(db)
		recordRepo = attendanceRepo
		storage = mongostore.NewClientPinger(client)
	case "jsonfile":
		employeeRepo = jsonfile.NewEmployeeStore(cfg.Storage.EmployeesFile)
		recordRepo = jsonfile.NewAttendanceStore(cfg.Storage.RecordsFile)
	default:
		log.Fatal().Str("driver", cfg.Storage.Driver).Msg("unknown storage driver")
	}

	employees, err := employeeRepo.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load employee registry")
	}
	records, err := recordRepo.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load attendance records")
	}
	st := state.New(employees, records)
	log.Info().
		Int("employees", len(employees)).
		Str("driver", cfg.Storage.Driver).
		Msg("attendance state loaded")

	// --- Services ---
	notifier := queue.NewNotifier(cfg.Notify.Capacity, log)
	punchService := service.NewPunchService(st, recordRepo, cfg.Punch.MinGap, log)
	employeeService := service.NewEmployeeService(st, employeeRepo, recordRepo, log)
	reportService := service.NewReportService(st, excel.NewRenderer(), log)
	authService := service.NewAuthService(
		cfg.Operator.Username, cfg.Operator.PasswordHash, cfg.JWTSecret, 24*time.Hour)

	// --- Serial worker ---
	device := serialdev.NewManager(serialdev.ManagerConfig{
		Opener: serialdev.Opener(cfg.Serial.BaudRate, cfg.Serial.ReadTimeout),
		Timings: serialdev.Timings{
			BootDelay:        cfg.Sync.BootDelay,
			DrainWindow:      cfg.Sync.DrainWindow,
			RetryDrainWindow: cfg.Sync.RetryDrainWindow,
			RetryDelay:       cfg.Sync.RetryDelay,
			DumpTimeout:      cfg.Sync.DumpTimeout,
		},
	}, st, punchService, recordRepo, notifier, log)

	if cfg.Serial.Port != "" {
		if err := device.Connect(cfg.Serial.Port); err != nil {
			log.Warn().Err(err).Str("port", cfg.Serial.Port).Msg("startup connect failed")
		}
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Log:           log,
		JWTSecret:     cfg.JWTSecret,
		Auth:          authService,
		Employees:     employeeService,
		Reports:       reportService,
		Device:        device,
		Source:        notifier,
		State:         st,
		Storage:       storage,
		StorageDriver: cfg.Storage.Driver,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if err := device.Disconnect(); err != nil && !errors.Is(err, domain.ErrDeviceNotConnected) {
		log.Warn().Err(err).Msg("device disconnect on shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
