package main

import (
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lewtec/revisor/review"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reviewer UI and API",
	Long:  `Start the review session server. Without a config file the built-in defaults are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg := review.DefaultConfig()
		if configFile != "" {
			cfg, err = review.LoadConfig(configFile)
			if err != nil {
				return err
			}
		}
		if addr, err := cmd.Flags().GetString("addr"); err == nil && addr != "" {
			cfg.Listen = addr
		}

		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().
			Timestamp().
			Logger()

		app := review.NewApp(cfg, log)
		log.Info().Str("addr", cfg.Listen).Msg("starting server")
		return http.ListenAndServe(cfg.Listen, app.GetHTTPHandler())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "Config file for the review session")
	serveCmd.MarkFlagFilename("config")
	serveCmd.Flags().String("addr", "", "Listen address (overrides the config file)")
}
