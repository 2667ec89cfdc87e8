package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fitledger",
	Short: "FitLedger — fitness tracking service",
	Long:  "FitLedger tracks users, teams, logged activities, and a workout catalog, and keeps team aggregates and a ranked leaderboard consistent with the underlying records.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); defaults apply when omitted")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
