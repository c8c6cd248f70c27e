package api

import (
	"net/http"
	"taskboard/internal/api/handler"
	"taskboard/internal/api/middleware"
	"taskboard/internal/app/service"
	"taskboard/internal/common"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/repository"
	"taskboard/internal/platform/config"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	taskService *service.TaskService,
	userRepo repository.UserRepository,
	rdb *redis.Client,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses "Authorization: Bearer <token>" and leaves the verified token
	// (or the verification error) in the request context; the Authenticator
	// middleware on protected routes decides what to do with it.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	authenticator := middleware.NewAuthenticator(userRepo)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithMessage(w, http.StatusOK, "Service is healthy", nil)
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", func(auth chi.Router) {
			auth.Use(middleware.RateLimit(rdb, config.AppConfig.AuthRateLimit, config.AppConfig.AuthRateWindow))
			authHandler.RegisterRoutes(auth)
		})

		userHandler := handler.NewUserHandler(userService, authenticator)
		v1.Route("/users", userHandler.RegisterRoutes)

		taskHandler := handler.NewTaskHandler(taskService, authenticator)
		v1.Route("/tasks", taskHandler.RegisterRoutes)
	})

	return r
}
