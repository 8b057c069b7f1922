package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/exvulsec/rugscope/config"
	"github.com/exvulsec/rugscope/log"
)

var root = &cobra.Command{
	Use:          "rugscope",
	Short:        "rugscope scores tokens for rug-pull and insider coordination risk",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() {
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rugscope: %v\n", err)
		os.Exit(1)
	}
}

// setupRuntime loads config.<env>.yaml from the --config dir and initialises
// logging from it.
func setupRuntime() error {
	config.SetupConfig()
	logConf := config.Conf.LogConfig
	if err := log.InitLog(logConf.Path, logConf.Level, logConf.Format); err != nil {
		return err
	}
	logrus.Infof("rugscope config loaded, env %s", config.Env)
	return nil
}

func init() {
	root.PersistentFlags().StringVarP(&config.CfgPath, "config", "c", "", "set config file path")
	root.PersistentFlags().StringVarP(&config.Env,
		"env",
		"e",
		"dev",
		"server environment type, available: dev, prod")
	root.AddCommand(httpCmd, analyzeCmd)
}
