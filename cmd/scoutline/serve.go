package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutline/scoutline/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Local HTTP API + websocket activity feed",
	Long: `Start the local Scoutline server: a JSON API over the session engine
plus a websocket feed that broadcasts every recorded interaction.

Examples:
  scoutline serve
  scoutline serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address HOST:PORT (overrides SCOUTLINE_HOST/SCOUTLINE_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	if serveAddr != "" {
		host, portStr, err := net.SplitHostPort(serveAddr)
		if err != nil {
			return fmt.Errorf("invalid --addr %q: %w", serveAddr, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid --addr port %q: %w", portStr, err)
		}
		cfg.Server.Host = host
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	eng, err := startEngine(ctx, cfg)
	if err != nil {
		return err
	}

	addr, err := server.Start(ctx, cfg, eng)
	if err != nil {
		shutdownEngine(eng)
		return err
	}
	log.Printf("Scoutline API running at http://%s", addr)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	// Stop the server first so in-flight requests drain against a live
	// engine, then flush the final snapshot.
	cancel()
	time.Sleep(1 * time.Second)
	shutdownEngine(eng)
	return nil
}
