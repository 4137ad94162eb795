package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raykavin/signalscope/pkg/timekey"
)

// Focus command flags
var (
	focusAnchor  string
	focusHorizon int
)

func buildFocusCmd() *cobra.Command {
	focusCmd := &cobra.Command{
		Use:   "focus",
		Short: "Print the viewport that brings a signal and its horizon into view",
		RunE:  runFocus,
	}

	focusCmd.Flags().StringVarP(&focusAnchor, "anchor", "a", "", "Anchor date (e.g. 2024-03-15) or epoch seconds")
	focusCmd.Flags().IntVarP(&focusHorizon, "horizon", "d", 0, "Forward horizon in days (default 30)")
	focusCmd.MarkFlagRequired("anchor")

	return focusCmd
}

func runFocus(_ *cobra.Command, _ []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	focuser, err := cfg.Focuser()
	if err != nil {
		return err
	}

	anchor, err := timekey.Parse(focusAnchor)
	if err != nil {
		return err
	}

	view := focuser.Range(anchor, focusHorizon)
	fmt.Printf("from %s (%d)\nto   %s (%d)\n",
		timekey.Format(view.From), view.From,
		timekey.Format(view.To), view.To)
	return nil
}
