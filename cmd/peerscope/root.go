package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fintelligo/peerscope/internal"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "peerscope",
		Short:         "Comparable-company analysis with a retrieval-backed chat engine",
		Long:          `Find comparable public companies for a target, enrich them with market data, and ask free-form questions about the comparison.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("config", "peerscope.yaml", "Path to config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(
		NewServeCmd(),
		NewAskCmd(),
		NewComparablesCmd(),
	)

	return rootCmd
}

// setup loads config and builds the logger shared by all commands.
func setup(cmd *cobra.Command) (*internal.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	var log *zap.Logger
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

// newProvider builds the configured default LLM provider, or nil when
// none is usable; analysis endpoints then report provider unavailable.
func newProvider(cmd *cobra.Command, cfg *internal.Config, log *zap.Logger) internal.Provider {
	name := cfg.DefaultProvider
	pc, ok := cfg.Providers[name]
	if !ok {
		return nil
	}

	key := pc.ResolveAPIKey()
	if key == "" {
		log.Warn("provider API key not set, analysis disabled", zap.String("provider", name))
		return nil
	}

	provider, err := internal.NewFantasyProvider(cmd.Context(), internal.FantasyConfig{
		Provider: name,
		APIKey:   key,
		BaseURL:  pc.BaseURL,
		Model:    pc.Model,
	})
	if err != nil {
		log.Warn("provider unavailable, analysis disabled", zap.String("provider", name), zap.Error(err))
		return nil
	}
	return provider
}
