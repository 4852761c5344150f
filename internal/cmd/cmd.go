package cmd

import (
	"github.com/spf13/cobra"
	"github.td.teradata.com/sandbox/logic-rom/internal/config"
	"github.td.teradata.com/sandbox/logic-rom/internal/driver"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/logging"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/serial"
	"log"
)

var cfgFile string
var outputDir string

var rootCmd = &cobra.Command{
	Use:   "logicrom",
	Short: "logicrom compiles the logic 1 breadboard cpu decoder and ALU ROM images",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := driver.New()
		return d.Run()
	},
}

var burnCmd = &cobra.Command{
	Use:   "burn romFile",
	Short: "Streams a compiled ROM image to the EPROM programmer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := serial.New(logging.New())
		return b.Send(args[0])
	},
}

// Execute bootstraps the viper
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "configuration file for logicrom")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "directory for the generated ROM images")
	rootCmd.AddCommand(burnCmd)
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {

	if err := initConfigE(); err != nil {
		log.Fatalf("Failed to load configuration: %s", err)
		return
	}
}

func initConfigE() error {
	defer func() {
		if outputDir != "" {
			config.CLIConfig.Output.Directory = outputDir
		}
	}()
	return config.NewConfig(cfgFile)
}
