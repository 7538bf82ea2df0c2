package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/defectlink/defectlink/cmd/version"
	"github.com/defectlink/defectlink/pkg/shared/config"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "defectlink [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Defectlink normalizes and cross-links static analysis reports.",
		Long: `Defectlink ingests defect reports produced by heterogeneous static analyzers
	(native JSON, Coverity JSON, SARIF, GCC diagnostics JSON, ShellCheck JSON),
	normalizes them into one canonical model and re-associates terse external
	references with the full defect records.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the selected command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load the config file: %v\n", err)
		os.Exit(1)
	}
}
