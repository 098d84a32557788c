package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moscovig/hthCourseReg/config"
	"github.com/moscovig/hthCourseReg/internal/auth"
	hthgrpc "github.com/moscovig/hthCourseReg/internal/grpc"
	"github.com/moscovig/hthCourseReg/internal/logger"
	"github.com/moscovig/hthCourseReg/internal/model"
	"github.com/moscovig/hthCourseReg/internal/registration"
	"github.com/moscovig/hthCourseReg/internal/route"
	"github.com/moscovig/hthCourseReg/internal/scheduler"
	"github.com/moscovig/hthCourseReg/internal/user"
	"github.com/moscovig/hthCourseReg/packages/database"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const serviceName = "hth-course-registration"

// @title HTH course registration API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. config and logger
	cfg := config.MustLoad("config.yaml")

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// 2. storage
	db, err := database.InitPostgres(&database.PostgresConfig{
		ServiceName:     serviceName,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		LogLevel:        cfg.Database.LogLevel,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: time.Duration(cfg.Database.MaxLifetime) * time.Second,
		Logger:          zapLogger,
	})
	if err != nil {
		zapLogger.Fatal("init postgres", zap.Error(err))
	}
	defer func() { _ = database.ClosePostgres(db) }()

	if err := model.InitTable(db); err != nil {
		zapLogger.Error("auto migrate", zap.Error(err))
	}

	redisClient, err := database.InitRedis(&database.RedisConfig{
		ServiceName: serviceName,
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		Logger:      zapLogger,
	})
	if err != nil {
		zapLogger.Fatal("init redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. services shared by the router and the background tasks
	sessions := auth.NewRedisSessionStore(redisClient.Client)
	userService := user.NewService(user.NewRepository(db), user.AccessLists{
		Teachers: cfg.Access.Teachers,
		Students: cfg.Access.Students,
	}, sessions, zapLogger)
	if err := userService.Bootstrap(ctx); err != nil {
		zapLogger.Error("bootstrap roles", zap.Error(err))
	}

	registrationService := registration.NewService(registration.NewRepository(db), registration.Options{
		Hold:            cfg.Registration.Hold(),
		SweepGrace:      cfg.Registration.SweepGrace(),
		DefaultCapacity: cfg.Registration.DefaultCapacity,
	}, zapLogger)

	// 4. gRPC health
	grpcServer, err := hthgrpc.NewServer(cfg.Server.GRPCPort, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("init grpc", zap.Error(err))
	}

	// 5. background tasks
	tasks := scheduler.New(zapLogger, scheduler.Task{
		Name:     "expire-enrollments",
		Interval: cfg.Registration.SweepInterval(),
		Jitter:   cfg.Registration.SweepJitter(),
		Run: func(ctx context.Context) error {
			_, err := registrationService.Sweep(ctx)
			return err
		},
	})
	tasks.Add(scheduler.Task{
		Name:       "health-check",
		Interval:   10 * time.Second,
		RunOnStart: true,
		Run:        grpcServer.CheckHealth,
	})

	// 6. HTTP
	r, err := route.SetupRouter(route.Dependencies{
		Config:       cfg,
		DB:           db,
		Sessions:     sessions,
		Registration: registrationService,
		Users:        userService,
		Logger:       zapLogger,
	})
	if err != nil {
		zapLogger.Fatal("init router", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	if err := tasks.Start(ctx); err != nil {
		zapLogger.Fatal("start scheduler", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(grpcServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("shutting down")

		tasks.Stop()
		grpcServer.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Error("server stopped with error", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
