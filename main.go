package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"transitbook/internal/cache"
	"transitbook/internal/client"
	intconfig "transitbook/internal/config"
	router "transitbook/internal/http"
	"transitbook/internal/http/handlers"
	"transitbook/internal/payment"
	"transitbook/internal/repositories"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env.DBDSN)
	defer intconfig.CloseDB()

	if err := (repositories.SessionRepo{}).EnsureTable(); err != nil {
		log.Fatalf("failed to prepare wizard_sessions table: %v", err)
	}

	rdb := intconfig.ConnectRedis(env.RedisURL)
	defer intconfig.CloseRedis()

	upstream := client.NewClient(
		client.WithBaseURL(env.UpstreamBaseURL),
		client.WithHTTPClient(&http.Client{Timeout: env.UpstreamTimeout}),
	)
	orchestrator := payment.New(upstream, env.PaymentTimeout)
	seatCache := cache.SeatCache{RDB: rdb, TTL: env.SeatCacheTTL}

	handlers.Configure(env, upstream, orchestrator, seatCache)

	// Router (Gin engine)
	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		// Must outlive the payment long-poll on /payment/result.
		WriteTimeout: env.PaymentTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}
