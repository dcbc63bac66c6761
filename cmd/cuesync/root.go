package main

import (
	"github.com/spf13/cobra"

	"github.com/depeter/cuesync/internal/config"
	"github.com/depeter/cuesync/internal/logging"
)

// options holds the persistent flags and the config they resolve to.
type options struct {
	configPath string
	logLevel   string

	cfg *config.Config
}

func (o *options) load() error {
	if o.configPath == "" {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		o.configPath = path
	}
	cfg, err := config.LoadFrom(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	logging.Apply(cfg.Log)
	o.cfg = cfg
	return nil
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "cuesync",
		Short:         "Play streamed video with incrementally delivered subtitles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn)")

	play := newPlayCommand(opts)
	rootCmd.RunE = play.RunE
	rootCmd.Flags().AddFlagSet(play.Flags())

	rootCmd.AddCommand(play)
	rootCmd.AddCommand(newTracksCommand(opts))

	return rootCmd
}
