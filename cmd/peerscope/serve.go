package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fintelligo/peerscope/internal"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Serve the comparison, company-store and RAG chat endpoints.`,
		RunE:  runServe,
	}

	cmd.Flags().String("context", "", "JSON file with an initial comparison context")
	cmd.Flags().Bool("watch", false, "Reload the context file on change")
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for context reloads")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	index, err := cfg.NewIndex(log)
	if err != nil {
		return err
	}
	embedder := cfg.NewEmbedder(log)
	session := internal.NewSession(embedder, index, log)

	store := internal.NewSeededCompanyStore()
	market := internal.NewFMPClient(os.Getenv(cfg.MarketData.APIKeyEnv), log)
	analyzer := internal.NewAnalyzer(newProvider(cmd, cfg, log), store, market, log)

	contextPath, _ := cmd.Flags().GetString("context")
	if contextPath != "" {
		cc, err := internal.LoadContextFile(contextPath)
		if err != nil {
			return err
		}
		session.SetContext(cmd.Context(), *cc)
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch && contextPath != "" {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		go func() {
			err := internal.WatchContextFile(cmd.Context(), contextPath, debounce, log, func(cc internal.ComparisonContext) {
				session.SetContext(context.Background(), cc)
			})
			if err != nil {
				log.Warn("context watcher stopped", zap.Error(err))
			}
		}()
	}

	server := internal.NewServer(session, store, analyzer, market, log)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}

	go func() {
		<-cmd.Context().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("listening", zap.String("addr", cfg.Server.Addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
