package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/dolater/internal/api"
	"github.com/kalambet/dolater/internal/assistant"
	"github.com/kalambet/dolater/internal/chat"
	"github.com/kalambet/dolater/internal/classify"
	"github.com/kalambet/dolater/internal/config"
	"github.com/kalambet/dolater/internal/ingest"
	"github.com/kalambet/dolater/internal/llm"
	"github.com/kalambet/dolater/internal/storage"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the MCP server and the classification worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, withMCP)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show DoLater server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", true, "serve MCP over stdio")
}

func setupLogging(level string) {
	logLevel := slog.LevelInfo
	if strings.EqualFold(level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func runServer(ctx context.Context, withMCP bool) error {
	fmt.Fprintf(os.Stderr, "dolater version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level)

	token, err := config.GetAPIToken()
	if err != nil {
		return fmt.Errorf("initializing API token: %w", err)
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("closing storage", "error", err)
		}
	}()

	analyzer := classify.NewAnalyzer(classify.NewHTTPFetcher(cfg.FetchTimeout()))

	var backend chat.Backend
	switch {
	case cfg.LLMReady():
		backend = llm.NewClientWithBaseURL(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
		slog.Info("assistant using completion backend", "model", cfg.LLM.Model)
	case cfg.LLM.Enabled:
		slog.Warn("llm.enabled is set but no API key is configured; assistant will use rules only")
	}

	svc := api.NewService(api.ServiceDeps{
		Store:    store,
		Analyzer: analyzer,
		Backend:  backend,
		Engine:   assistant.NewDefault(),
		UserID:   cfg.User.ID,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewAppHandler(svc, token),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
	worker := ingest.NewWorker(store, analyzer, 500*time.Millisecond)
	worker.OnClassified(func(string) { svc.ItemsChanged() })

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})

	g.Go(func() error {
		slog.Info("dolater listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if withMCP {
		stdio := server.NewStdioServer(api.NewMCPServer(svc))
		g.Go(func() error {
			slog.Info("MCP server started (stdio transport)")
			if err := stdio.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}
	client.httpClient.Timeout = 2 * time.Second

	resp, err := client.get(ctx, "/health")
	switch {
	case err != nil:
		printStatus("Server", "stopped")
	case resp.StatusCode == http.StatusOK:
		resp.Body.Close()
		printStatus("Server", "running on port %d", cfg.Server.Port)
		if items, err := client.listItems(ctx); err == nil {
			printStatus("Saved items", "%d", len(items))
		}
	default:
		resp.Body.Close()
		printStatus("Server", "error (HTTP %d)", resp.StatusCode)
	}

	if cfg.LLMReady() {
		printStatus("Assistant", "completion backend (%s)", cfg.LLM.Model)
	} else {
		printStatus("Assistant", "rules only")
	}
	printStatus("User", "%s", cfg.User.ID)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
