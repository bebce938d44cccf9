package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fintelligo/peerscope/internal"
)

func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a one-shot question about a comparison context",
		Long:  `Load a comparison context from a JSON file, index it, and answer a single question.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}

	cmd.Flags().String("context", "", "JSON file with the comparison context")
	_ = cmd.MarkFlagRequired("context")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	contextPath, _ := cmd.Flags().GetString("context")
	cc, err := internal.LoadContextFile(contextPath)
	if err != nil {
		return err
	}

	index, err := cfg.NewIndex(log)
	if err != nil {
		return err
	}
	session := internal.NewSession(cfg.NewEmbedder(log), index, log)
	session.SetContext(cmd.Context(), *cc)

	response := session.Query(cmd.Context(), strings.Join(args, " "))
	fmt.Fprintln(cmd.OutOrStdout(), response)
	return nil
}
