package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := newViper()

	root := &cobra.Command{
		Use:   "csfs",
		Short: "csfs - GRASP CSF list to columnar converter",
		Long: `csfs converts GRASP configuration state function lists into Parquet,
Arrow or Avro files, optionally with parsed and normalized descriptors.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "Log format (console, json)")
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))

	root.AddCommand(
		newConvertCmd(v),
		newReadCmd(),
		newInfoCmd(),
		newNormalizeCmd(),
		newBenchCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "csfs v%s\n", version)
				fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
				fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			},
		},
	)
	return root
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CSFS")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	return v
}
