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

	"github.com/cmlabs-hris/hris-backoffice-go/internal/config"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/audit"
	appHTTP "github.com/cmlabs-hris/hris-backoffice-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/messaging/kafka"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-backoffice-go/internal/service/attendance"
	auditService "github.com/cmlabs-hris/hris-backoffice-go/internal/service/audit"
	serviceAuth "github.com/cmlabs-hris/hris-backoffice-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hris-backoffice-go/internal/service/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-backoffice-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/hris-backoffice-go/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-backoffice"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	clock := clockwork.NewRealClock()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	sinks := []audit.Sink{postgresql.NewAuditLogRepository(db)}
	if len(cfg.Kafka.Brokers) > 0 {
		writer := kafka.NewWriter(cfg.Kafka.Brokers)
		defer func() {
			if err := writer.Close(); err != nil {
				slog.Error("failed to close kafka writer", "error", err)
			}
		}()
		sinks = append(sinks, kafka.NewAuditPublisher(writer, cfg.Kafka.AuditTopic))
		slog.Info("audit events mirrored to kafka", "topic", cfg.Kafka.AuditTopic)
	}
	recorder := auditService.NewRecorder(clock, sinks...)

	hub := sse.NewHub()
	notifSvc := notificationService.NewNotificationService(notificationRepo, employeeRepo, hub, clock, notificationService.Config{})
	notifSvc.Start(ctx)
	defer notifSvc.Stop()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, clock)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	authSvc := serviceAuth.NewAuthService(employeeRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, recorder, clock)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, recorder, clock, attendanceService.Config{
		DefaultCheckout: cfg.Attendance.DefaultCheckout,
		Location:        cfg.Attendance.Location,
	})
	leaveSvc := leave.NewLeaveService(leaveRequestRepo, employeeRepo, notifSvc, recorder, clock)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, leaveRequestRepo, attendanceSvc, notifSvc, recorder, clock)

	idempotency := middleware.Idempotency(nil, cfg.Redis.IdempotencyTTL)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Requests still go through; the middleware fails open.
			slog.Warn("redis unreachable at startup", "addr", cfg.Redis.Addr, "error", err)
		}
		idempotency = middleware.Idempotency(rdb, cfg.Redis.IdempotencyTTL)
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Idempotency:    idempotency,
		RateLimiter:    middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	}, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, JWTService),
	})

	scheduler := cron.NewScheduler(clock)
	cron.NewAttendanceJobs(
		attendanceSvc,
		clock,
		cfg.Attendance.Location,
		cfg.Attendance.DefaultCheckout,
		cfg.Attendance.SweepInterval,
	).RegisterJobs(scheduler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			// Open SSE streams never go idle; cut them once the grace period is over.
			slog.Warn("graceful shutdown timed out, closing connections", "error", err)
			return server.Close()
		}
		return nil
	})

	return g.Wait()
}
