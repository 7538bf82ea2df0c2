package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/defectlink/defectlink/internal/defect"
	"github.com/defectlink/defectlink/internal/defqueue"
	"github.com/defectlink/defectlink/internal/htmlreport"
	"github.com/defectlink/defectlink/internal/parser"
	"github.com/defectlink/defectlink/internal/refstream"
	"github.com/defectlink/defectlink/pkg/shared/files"
	"github.com/defectlink/defectlink/pkg/shared/logger"
)

type LinkOptions struct {
	DefectsFile    string
	RefsFile       string
	OutputFile     string
	Title          string
	DefectURLBase  string
	CheckerURLBase string
	Silent         bool
}

var allLinkOptions LinkOptions

var execExampleLink = `  # Link tracker rows (id,checker,file per line, from stdin) against a report
  defectlink link --defects scan-results.json < tracker-rows.csv > report.html

  # Same with clickable tracker and documentation links
  defectlink link --defects scan-results.json --refs tracker-rows.csv \
      --defect-url-base 'https://tracker.example.com/defect/' \
      --checker-url-base 'https://docs.example.com/checkers/' -o report.html`

var linkCmd = &cobra.Command{
	Use:     "link --defects /path/to/report.json [flags]",
	Short:   "Cross-link external defect references with a decoded report",
	Example: execExampleLink,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logger.NewLogger(AppConfig, "core")
		opts := allLinkOptions
		if AppConfig != nil {
			if opts.Title == "" {
				opts.Title = AppConfig.Link.Title
			}
			if opts.DefectURLBase == "" {
				opts.DefectURLBase = AppConfig.Link.DefectURLBase
			}
			if opts.CheckerURLBase == "" {
				opts.CheckerURLBase = AppConfig.Link.CheckerURLBase
			}
		}
		if opts.Title == "" {
			opts.Title = "A List of Defects"
		}

		defectsPath, err := files.ExpandPath(opts.DefectsFile)
		if err != nil {
			return err
		}
		if err := files.ValidatePath(defectsPath); err != nil {
			return err
		}

		// hash all defects from the report
		src, err := parser.FromFile(defectsPath, opts.Silent, logger)
		if err != nil {
			return err
		}
		defParser := parser.New(src)
		queue := defqueue.New(nil)
		var def defect.Defect
		for defParser.Next(&def) {
			queue.Insert(def)
		}

		var refs io.Reader = os.Stdin
		if opts.RefsFile != "" {
			file, err := os.Open(opts.RefsFile)
			if err != nil {
				return err
			}
			defer file.Close()
			refs = file
		}

		out := os.Stdout
		if opts.OutputFile != "" {
			file, err := os.Create(opts.OutputFile)
			if err != nil {
				return err
			}
			defer file.Close()
			out = file
		}

		html := htmlreport.NewWriter(out)
		if err := html.DocOpen(opts.Title); err != nil {
			return err
		}

		// resolve reference rows against the hashed defects; rows that match
		// nothing are collected and rendered in a trailing section in input
		// order
		refParser := refstream.New(refs, logger)
		var unmatched []refstream.Row
		var row refstream.Row
		for refParser.Next(&row) {
			matched, ok := queue.Lookup(row.Checker, row.FileName)
			if !ok {
				logger.Warn("defect lookup failed", "file", defectsPath, "cid", row.ID)
				unmatched = append(unmatched, row)
				continue
			}
			if err := html.WriteLinkedDefect(&matched, row.ID, opts.DefectURLBase, opts.CheckerURLBase); err != nil {
				return err
			}
		}

		if len(unmatched) != 0 {
			if err := html.InitSection("Defects Available Only in the Defect Tracker"); err != nil {
				return err
			}
			for _, row := range unmatched {
				if err := html.WriteBareRef(row, opts.DefectURLBase, opts.CheckerURLBase); err != nil {
					return err
				}
			}
		}

		// defects that no reference row ever claimed mean the report and the
		// reference stream disagree; the report has already been emitted, the
		// run still fails
		offset := false
		if !queue.Empty() {
			logger.Error("offset detected", "file", opts.DefectsFile, "leftover", queue.Len())
			offset = true
		}

		if err := html.DocClose(); err != nil {
			return err
		}

		if offset || refParser.HasError() || defParser.HasError() {
			return fmt.Errorf("defect linking finished with errors")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)

	linkCmd.Flags().StringVar(&allLinkOptions.DefectsFile, "defects", "", "input file with the defect report")
	linkCmd.Flags().StringVar(&allLinkOptions.RefsFile, "refs", "", "file with reference rows (default is stdin)")
	linkCmd.Flags().StringVarP(&allLinkOptions.OutputFile, "output", "o", "", "output HTML file (default is stdout)")
	linkCmd.Flags().StringVar(&allLinkOptions.Title, "title", "", "title for the generated HTML report")
	linkCmd.Flags().StringVar(&allLinkOptions.DefectURLBase, "defect-url-base", "", "URL base for per-defect tracker links")
	linkCmd.Flags().StringVar(&allLinkOptions.CheckerURLBase, "checker-url-base", "", "URL base for checker documentation links")
	linkCmd.Flags().BoolVar(&allLinkOptions.Silent, "silent", false, "suppress per-defect decode warnings")
	_ = linkCmd.MarkFlagRequired("defects")
}
