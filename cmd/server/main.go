package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"taskboard/internal/api"
	"taskboard/internal/app/service"
	"taskboard/internal/common"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/repository"
	"taskboard/internal/platform/config"
	"taskboard/internal/platform/database"
	"taskboard/internal/platform/limiter"
	"taskboard/internal/platform/logger"
	"time"
)

func main() {
	config.Load()
	logger.Init(config.AppConfig.Env)
	common.Development = config.AppConfig.IsDevelopment()

	security.InitJWT(config.AppConfig.JWTKey, config.AppConfig.JWTExp)
	security.SetHashCost(config.AppConfig.BcryptCost)

	database.Connect()
	defer database.Close()

	limiter.ConnectRedis()
	defer limiter.CloseRedis()

	userRepo := repository.NewPgUserRepository(database.DB)
	taskRepo := repository.NewPgTaskRepository(database.DB)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	taskService := service.NewTaskService(taskRepo)

	router := api.NewRouter(authService, userService, taskService, userRepo, limiter.RDB)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.L.Info().Str("port", config.AppConfig.APIPort).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Fatal().Err(err).Msg("Could not start server")
		}
	}()

	<-stop

	logger.L.Info().Msg("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Fatal().Err(err).Msg("Server shutdown failed")
	}
	logger.L.Info().Msg("Server stopped gracefully")
}
