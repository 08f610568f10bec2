package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/perfy/internal/config"
	"github.com/psantana5/perfy/pkg/logging"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "dev"

// app carries what every subcommand needs once config is loaded
type app struct {
	cfgFile string
	viper   *viper.Viper
	cfg     *config.Config
	log     *logging.Logger
}

// NewRootCmd builds the perfy command tree
func NewRootCmd() *cobra.Command {
	a := &app{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "perfy",
		Short: "High-resolution timing of commands",
		Long: `perfy runs commands under named high-resolution timers and reports the
elapsed time in seconds, milliseconds and nanoseconds.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.log != nil {
				return a.log.Close()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.perfy/config.yaml)")
	flags.StringP("output", "o", "", "output format: table, json or yaml")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Bool("log-json", false, "write logs as JSON lines")

	a.viper.BindPFlag("output", flags.Lookup("output"))
	a.viper.BindPFlag("log_level", flags.Lookup("log-level"))
	a.viper.BindPFlag("log_json", flags.Lookup("log-json"))

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) init() error {
	cfg, err := config.Load(a.viper, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		a.log, err = logging.NewFileLogger(cfg.LogFile, level, cfg.LogJSON)
		return err
	}
	a.log = logging.NewLogger(level, cfg.LogJSON)
	return nil
}
