package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-capture/internal/config"
	"github.com/kozaktomas/face-capture/internal/database"
	"github.com/kozaktomas/face-capture/internal/database/postgres"
	"github.com/kozaktomas/face-capture/internal/dataset"
	"github.com/kozaktomas/face-capture/internal/detector"
	"github.com/kozaktomas/face-capture/internal/photoprism"
	"github.com/kozaktomas/face-capture/internal/pose"
	"github.com/kozaktomas/face-capture/internal/session"
	"github.com/kozaktomas/face-capture/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the capture web server",
	Long: `Start the Face Capture web server.
The server exposes the capture workflow over HTTP: identify a person,
submit webcam frames and track progress toward the photo quota.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	port, host := resolveServeHostPort(cmd)

	eval := pose.NewEvaluator(cfg.Capture.MaxOffset)
	store := dataset.NewStore(cfg.Capture.DatasetDir, cfg.Capture.MaxImageSize)
	faces := detector.NewClient(cfg.Landmarks.URL)

	var mirror session.Mirror
	if cfg.PhotoPrism.Enabled() {
		fmt.Printf("Connecting to PhotoPrism at %s...\n", cfg.PhotoPrism.URL)
		pp, err := photoprism.NewPhotoPrism(cmd.Context(), cfg.PhotoPrism.URL, cfg.PhotoPrism.Username, cfg.PhotoPrism.Password)
		if err != nil {
			return fmt.Errorf("failed to connect to PhotoPrism: %w", err)
		}
		mirror = photoprism.NewMirror(pp)
		fmt.Println("Photo mirroring enabled (PhotoPrism)")
	}

	var recorder session.Recorder
	var history database.HistoryReader
	if cfg.Database.URL != "" {
		fmt.Printf("Connecting to PostgreSQL database...\n")
		if err := postgres.Initialize(&cfg.Database); err != nil {
			return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		repo := postgres.NewCaptureRepository(postgres.GetGlobalPool())
		recorder = repo
		history = repo
		fmt.Println("Capture history enabled (PostgreSQL)")
	}

	sess := session.New(faces, store, eval, cfg.Capture.Quota, mirror, recorder)
	server := web.NewServer(cfg, port, host, sess, history)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
		if pool := postgres.GetGlobalPool(); pool != nil {
			pool.Close()
		}
	}()

	fmt.Printf("Dataset folder: %s (quota %d, max offset %.2f)\n", cfg.Capture.DatasetDir, cfg.Capture.Quota, eval.MaxOffset())
	fmt.Printf("Starting Face Capture on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
