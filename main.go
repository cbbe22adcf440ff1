// @title Employee Management API
// @version 1.0
// @description JWT-secured API for managing employees, departments, and projects.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/empman-go/apperror"
	"github.com/user/empman-go/auth"
	"github.com/user/empman-go/config"
	"github.com/user/empman-go/db"
	"github.com/user/empman-go/departments"
	_ "github.com/user/empman-go/docs" // Generated Swagger docs
	"github.com/user/empman-go/employees"
	"github.com/user/empman-go/projects"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.EnableExtensions(pool); err != nil {
		log.Fatalf("Failed to enable extensions: %v", err)
	}

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// A short secret or non-positive token lifetime is a deployment
	// mistake; refuse to start rather than issue weak tokens.
	codec, err := auth.NewCodec(*cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize token codec: %v", err)
	}

	userStore := auth.NewPostgresUserStore(pool)
	authService := auth.NewService(userStore, codec)
	authHandlers := auth.NewHandlers(authService)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.SeedDefaultUsers(seedCtx); err != nil {
		cancelSeed()
		log.Fatalf("Failed to seed default users: %v", err)
	}
	cancelSeed()

	employeeHandlers := employees.NewHandlers(employees.NewService(pool))
	departmentHandlers := departments.NewHandlers(departments.NewService(pool))
	projectHandlers := projects.NewHandlers(projects.NewService(pool))

	// Mirrors the access policy of the API: reads are open to any
	// authenticated user, writes require the admin role.
	policy := auth.NewPolicy(
		auth.Rule{Method: http.MethodGet, Prefix: "/api/v1/", AnyOf: []string{auth.RoleUser, auth.RoleAdmin}},
		auth.Rule{Prefix: "/api/v1/", AnyOf: []string{auth.RoleAdmin}},
	)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that reports through the apperror envelope instead
	// of a bare 500.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", authHandlers.HandleLogin())
		r.Post("/register", authHandlers.HandleRegister())
	})

	protect := func(r chi.Router) {
		r.Use(auth.RequireToken(codec))
		r.Use(policy.Middleware)
	}

	r.Route("/api/v1/employees", func(r chi.Router) {
		protect(r)
		employeeHandlers.RegisterRoutes(r)
	})
	r.Route("/api/v1/departments", func(r chi.Router) {
		protect(r)
		departmentHandlers.RegisterRoutes(r)
	})
	r.Route("/api/v1/projects", func(r chi.Router) {
		protect(r)
		projectHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError formats panic errors with the same envelope the handlers use.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
