package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fintelligo/peerscope/internal"
)

func NewComparablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comparables",
		Short: "Find comparable public companies for a target",
		Long:  `Describe the target with the configured LLM provider, find public peers, and optionally attach market data. Prints the resulting comparison context as JSON.`,
		RunE:  runComparables,
	}

	cmd.Flags().String("name", "", "Target company name")
	cmd.Flags().String("website", "", "Target company website")
	cmd.Flags().String("ticker", "", "Target company ticker")
	cmd.Flags().Int("count", 10, "Number of comparable companies (1-20)")
	cmd.Flags().Bool("financials", true, "Attach financial metrics per comparable")
	return cmd
}

func runComparables(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	provider := newProvider(cmd, cfg, log)
	if provider == nil {
		return internal.ErrNoProvider
	}

	market := internal.NewFMPClient(os.Getenv(cfg.MarketData.APIKeyEnv), log)
	analyzer := internal.NewAnalyzer(provider, nil, market, log)

	name, _ := cmd.Flags().GetString("name")
	website, _ := cmd.Flags().GetString("website")
	ticker, _ := cmd.Flags().GetString("ticker")
	count, _ := cmd.Flags().GetInt("count")
	financials, _ := cmd.Flags().GetBool("financials")

	cc, err := analyzer.BuildComparisonContext(cmd.Context(), internal.ComparableSearch{
		CompanyName:       name,
		CompanyWebsite:    website,
		Ticker:            ticker,
		Count:             count,
		IncludeFinancials: financials,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(cc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
