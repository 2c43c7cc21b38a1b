// Package main is the mercator desktop viewer's entrypoint: a cobra
// command tree wiring viper-resolved configuration into an ebiten.Game
// loop. Grounded on MeKo-Christian-WaterColorMap's internal/cmd
// (root.go's cobra.OnInitialize + viper.BindPFlag pattern) and the
// teacher's main() (window setup, ebiten.RunGame), fused into one "run"
// subcommand since this program has one mode, not a pipeline of them,
// plus a "providers" subcommand that lists the built-in tile providers.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nyxmaps/mercator/internal/config"
)

var cfgFile string
var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "mercator",
	Short: "An interactive Web Mercator slippy-map viewer",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./mercator.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", "", "tile disk-cache directory (default: ./tilecache)")
	rootCmd.PersistentFlags().String("provider", "", "initial tile provider name")
	rootCmd.PersistentFlags().Float64("lat", 0, "initial center latitude")
	rootCmd.PersistentFlags().Float64("lon", 0, "initial center longitude")
	rootCmd.PersistentFlags().Int("zoom", 0, "initial zoom level")

	bind := func(key, flag string) {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			log.Fatalf("mercator: failed to bind --%s: %v", flag, err)
		}
	}
	bind("cache_dir", "cache-dir")
	bind("provider", "provider")
	bind("initial_lat", "lat")
	bind("initial_lon", "lon")
	bind("initial_zoom", "zoom")

	config.Bind(v)
}

func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("mercator")
	}
	v.SetEnvPrefix("MERCATOR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		log.Printf("mercator: using config file %s", v.ConfigFileUsed())
	}
}
