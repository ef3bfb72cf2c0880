package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-reconciler/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-reconciler/internal/handler/http"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/hrisapi"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/jwt"
	leaveService "github.com/cmlabs-hris/attendance-reconciler/internal/service/leave"
	"github.com/cmlabs-hris/attendance-reconciler/internal/service/reconciler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	hrisClient := hrisapi.NewClient(cfg.HRIS)
	snapshots := cache.New()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	reconcilerSvc := reconciler.NewService(
		hrisClient,
		hrisClient,
		hrisClient,
		hrisClient,
		snapshots,
		cfg.Poll.StatusInterval,
	)
	leaveSvc := leaveService.NewService(hrisClient)

	attendanceHandler := appHTTP.NewAttendanceHandler(reconcilerSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		leaveHandler,
		cfg.App.Env,
		cfg.App.AllowedOrigins,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler()
	scheduler.AddJob("snapshot-sweep", cfg.Poll.StatusInterval, reconcilerSvc.SweepSnapshots)
	scheduler.Start(ctx)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Wait()
}
