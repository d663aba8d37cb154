package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dkeye/Relay/internal/config"
	"github.com/dkeye/Relay/internal/lang"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Relay translates short utterances between people in a room.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		setupLogging(cfg)
		return runServer(cmd.Context(), cfg)
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Print the language directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		dir := newDirectory(cfg)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, l := range dir.List() {
			mark := ""
			switch l.Code {
			case dir.Reply():
				mark = "reply"
			case dir.Fallback():
				mark = "fallback"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", l.Code, l.Name, mark)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default config/config.$CONFIG_ENV.yaml)")
	rootCmd.AddCommand(serveCmd, languagesCmd)
}

func newDirectory(cfg *config.Config) *lang.Directory {
	return lang.NewDirectory(
		lang.WithDefault(cfg.Languages.Default),
		lang.WithReply(cfg.Languages.Reply),
		lang.WithFallback(cfg.Languages.Fallback),
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("relay")
		os.Exit(1)
	}
}
