// Package server provides the HTTP and websocket surface over a running
// session engine.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/engine"
	"github.com/scoutline/scoutline/pkg/types"
)

// Start initializes and starts the HTTP server. It returns the actual
// address being listened on (useful for testing with port 0). The server
// shuts down gracefully when ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config, eng *engine.Engine) (string, error) {
	mux := http.NewServeMux()
	handlers := newAPIHandlers(eng)

	// Health endpoint, used by integrations and monitoring.
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","version":"0.1.0"}`))
	})

	mux.HandleFunc("/api/score", requireMethod(http.MethodPost, handlers.Score))
	mux.HandleFunc("/api/rank", requireMethod(http.MethodPost, handlers.Rank))
	mux.HandleFunc("/api/feedback", requireMethod(http.MethodPost, handlers.Feedback))
	mux.HandleFunc("/api/stats", requireMethod(http.MethodGet, handlers.Stats))
	mux.HandleFunc("/api/preferences", requireMethod(http.MethodGet, handlers.Preferences))
	mux.HandleFunc("/api/export", requireMethod(http.MethodGet, handlers.Export))

	// Live event feed: every ledger append is broadcast as it happens.
	var hub *Hub
	if cfg.Server.EnableEvents {
		hub = NewHub()
		go hub.Run()
		eng.SetOnEvent(func(ev types.InteractionEvent) {
			hub.Broadcast(EventMessage{Type: "interaction", Event: ev})
		})
		mux.Handle("/ws", hub)
	}

	// Wrap everything with rate limiting (10 req/sec, burst of 20), then
	// security headers.
	rl := newRateLimiter(10.0, 20)
	handler := rateLimitMiddleware(mux, rl)
	handler = securityHeadersMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("server: failed to listen on %s: %w", addr, err)
	}
	actualAddr := listener.Addr().String()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("server: serve error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server: shutdown error: %v", err)
		}
		if hub != nil {
			hub.Stop()
		}
	}()

	log.Printf("server: listening on %s", actualAddr)
	return actualAddr, nil
}

// requireMethod rejects requests that arrive with the wrong HTTP verb.
func requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}
