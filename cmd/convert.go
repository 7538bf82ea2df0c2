package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/defectlink/defectlink/internal/writer"
	"github.com/defectlink/defectlink/pkg/shared/files"
	"github.com/defectlink/defectlink/pkg/shared/logger"
)

type ConvertOptions struct {
	OutputFormat string
	OutputFile   string
	Silent       bool
}

var allConvertOptions ConvertOptions

var execExampleConvert = `  # Normalize a ShellCheck report into the native JSON format
  defectlink convert shellcheck-output.json

  # Merge several reports into one SARIF document
  defectlink convert --output-format sarif -o merged.sarif gcc.json coverity.json`

var convertCmd = &cobra.Command{
	Use:     "convert [flags] file...",
	Short:   "Normalize defect reports into a single output format",
	Example: execExampleConvert,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logger.NewLogger(AppConfig, "core")

		out := os.Stdout
		if allConvertOptions.OutputFile != "" {
			file, err := os.Create(allConvertOptions.OutputFile)
			if err != nil {
				return err
			}
			defer file.Close()
			out = file
		}

		w, err := writer.NewWriter(writer.Format(allConvertOptions.OutputFormat), out, logger)
		if err != nil {
			return err
		}

		ok := true
		for _, fileName := range args {
			path, err := files.ExpandPath(fileName)
			if err != nil {
				return err
			}
			if !writer.HandleFile(w, path, allConvertOptions.Silent, logger) {
				ok = false
			}
		}

		if err := w.Flush(); err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("one or more input files failed to convert cleanly")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&allConvertOptions.OutputFormat, "output-format", "json", "output format: json or sarif")
	convertCmd.Flags().StringVarP(&allConvertOptions.OutputFile, "output", "o", "", "output file (default is stdout)")
	convertCmd.Flags().BoolVar(&allConvertOptions.Silent, "silent", false, "suppress per-defect decode warnings")
}
