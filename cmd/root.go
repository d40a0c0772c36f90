package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfg "github.com/maastricht-university/moodtrack/config"
)

type options struct {
	v          *viper.Viper
	configPath string
}

// NewRootCommand builds the moodtrack command tree.
func NewRootCommand() *cobra.Command {
	o := &options{v: viper.New()}

	root := &cobra.Command{
		Use:           "moodtrack",
		Short:         "Track a smoothed mood from camera frames",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "path to YAML config (default: config/$CONFIG_ENV/config.yaml)")
	pf.String("log-level", "", "log level (trace, debug, info, warn, error)")
	pf.String("camera-url", "", "camera snapshot URL")
	pf.String("emotion-url", "", "emotion service base URL")
	pf.String("viz-url", "", "visualization service base URL")
	pf.String("addr", "", "status server listen address")
	for key, flag := range map[string]string{
		"pipeline.log_level":         "log-level",
		"services.camera.url":        "camera-url",
		"services.emotion.url":       "emotion-url",
		"services.visualization.url": "viz-url",
		"server.addr":                "addr",
	} {
		if err := o.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(newRunCommand(o), newConfigCommand(o))
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "moodtrack:", err)
		os.Exit(1)
	}
}

func (o *options) load() (*cfg.Root, error) {
	return cfg.Load(o.v, o.configPath)
}

func newLogger(c *cfg.Root, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)
	lvl, err := logrus.ParseLevel(c.Pipeline.LogLvl)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	switch c.Pipeline.LogFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Pipeline.LogFormat)
	}
	return log, nil
}

func newConfigCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := o.load()
			if err != nil {
				return err
			}
			out, err := c.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
