package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hrbot/internal/config"
	"hrbot/internal/github"
	"hrbot/internal/handler"
	"hrbot/internal/i18n"
	"hrbot/internal/service"
	"hrbot/internal/store"
)

func main() {
	cfg := config.Load()

	i18n.Init(cfg.DefaultLocale)

	// Connect to MongoDB
	db, err := store.NewMongoDB(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stores
	identityStore, err := store.NewIdentityStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init identity store: %v", err)
	}
	employeeStore, err := store.NewEmployeeStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init employee store: %v", err)
	}
	leaveStore, err := store.NewLeaveStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init leave store: %v", err)
	}

	// Services
	roleSvc := service.NewRoleService(identityStore)
	contextSvc := service.NewContextService(identityStore, employeeStore, roleSvc)
	chatbotSvc := service.NewChatbotService(contextSvc, employeeStore, leaveStore)
	llmSvc := service.NewLLMService(cfg.AnthropicAPIKey, cfg.AnthropicModel, employeeStore, leaveStore)

	// Routes
	mux := http.NewServeMux()
	handler.NewChatbotHandler(chatbotSvc, contextSvc, llmSvc).RegisterRoutes(mux)
	if cfg.GitHubOwner != "" && cfg.GitHubRepo != "" {
		gh := github.NewClient(cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubToken)
		handler.NewGitHubHandler(gh).RegisterRoutes(mux)
	}

	// Health checks
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "mongodb unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.LoggingMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HR chatbot started on :%s (env: %s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
}
