package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/nyxmaps/mercator/internal/config"
	"github.com/nyxmaps/mercator/internal/provider"
)

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listProvidersCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the map viewer window",
	RunE:  runRun,
}

var listProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the built-in tile providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range provider.Registry() {
			fmt.Println(p.String())
		}
		return nil
	},
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Load(v)

	p, ok := provider.Find(cfg.ProviderName)
	if !ok {
		log.Printf("mercator: unknown provider %q, falling back to default", cfg.ProviderName)
		p = provider.DefaultProvider()
	}

	game := NewGame(cfg, p)
	return game.Run()
}
