// Package parse provides the parse command, which runs the OFX parser over
// local files without touching the broker or the core service.
package parse

import (
	"fmt"

	"poupeai/statement-ingestion/cmd/common"
	"poupeai/statement-ingestion/cmd/root"
	"poupeai/statement-ingestion/internal/fileutils"
	"poupeai/statement-ingestion/internal/ofxparser"

	"github.com/spf13/cobra"
)

var (
	input  string
	output string
)

// Cmd is the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse local OFX files",
	Long: `Parse an OFX statement, or every .ofx file of a directory, and print a
summary of the transactions found. With --output the transactions are also
written as CSV (a file for a single input, a directory for a directory input).`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Input OFX file or directory")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file or directory")
	_ = Cmd.MarkFlagRequired("input")
}

func run(cmd *cobra.Command, args []string) error {
	p := ofxparser.New(root.Log)
	if root.AppConfig != nil {
		p = ofxparser.New(root.Log, ofxparser.WithCharsetDetection(root.AppConfig.Parsers.OFX.CharsetDetection))
	}

	var summaries []common.Summary
	var err error
	switch {
	case fileutils.DirectoryExists(input):
		summaries, err = common.ProcessDirectory(p, input, output, root.Log)
	case fileutils.FileExists(input):
		var s common.Summary
		s, err = common.ProcessFile(p, input, output, root.Log)
		if err == nil {
			summaries = append(summaries, s)
		}
	default:
		return fmt.Errorf("input %s does not exist", input)
	}

	out := cmd.OutOrStdout()
	for _, s := range summaries {
		fmt.Fprintf(out, "%s: %d transactions, income %s, expense %s\n",
			s.File, s.Count, s.Income.StringFixed(2), s.Expense.StringFixed(2))
		if s.Output != "" {
			fmt.Fprintf(out, "  written to %s\n", s.Output)
		}
	}
	return err
}
