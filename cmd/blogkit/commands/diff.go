package commands

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bfv/blogkit/internal/policy"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewDiffCmd builds and returns the 'diff' cobra command.
func NewDiffCmd() *cobra.Command {
	var (
		outputFile string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "diff <source.yaml> <target.yaml>",
		Short: "Show RLS and policy differences between two policy configs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("policy.format", cmd.Flags().Lookup("format")); err != nil {
				return err
			}
			return runDiff(args[0], args[1], viper.GetString("policy.format"), outputFile, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write output to file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "subset", "Config parser: subset or yaml")
	return cmd
}

// runDiff is the entry point for the diff command.
func runDiff(sourcePath, targetPath, format, outputPath string, stdin io.Reader, stdout io.Writer) error {
	log.Debug().Str("source", sourcePath).Str("target", targetPath).Str("output", outputPath).Msg("diff started")

	if sourcePath == stdinPath && targetPath == stdinPath {
		return fmt.Errorf("only one of source and target can be read from stdin")
	}
	source, err := loadConfig(sourcePath, format, stdin)
	if err != nil {
		return err
	}
	target, err := loadConfig(targetPath, format, stdin)
	if err != nil {
		return err
	}

	rows := policy.Diff(source, target)
	if len(rows) == 0 {
		fmt.Fprintln(stdout, "No policy differences found.")
		return nil
	}

	var buf bytes.Buffer
	printDiffTable(&buf, rows)
	if err := writeOutput(outputPath, stdout, buf.Bytes()); err != nil {
		return err
	}
	log.Debug().Int("differences", len(rows)).Msg("diff complete")
	return nil
}

// printDiffTable renders the diff as a fixed-column table.
func printDiffTable(w io.Writer, rows []policy.DiffRow) {
	const (
		hConstruct = "CONSTRUCT"
		hName      = "NAME"
		hSource    = "SOURCE"
		hTarget    = "TARGET"
	)

	wConstruct := len(hConstruct)
	wName := len(hName)
	wSource := len(hSource)

	for _, r := range rows {
		wConstruct = max(wConstruct, len(r.Construct))
		wName = max(wName, len(r.Name))
		wSource = max(wSource, len(r.Source))
	}

	// Two spaces between columns.
	wConstruct += 2
	wName += 2
	wSource += 2

	fmtRow := func(c, n, s, t string) {
		fmt.Fprintf(w, "%-*s%-*s%-*s%s\n", wConstruct, c, wName, n, wSource, s, t)
	}

	fmtRow(hConstruct, hName, hSource, hTarget)
	fmtRow(strings.Repeat("-", wConstruct-2), strings.Repeat("-", wName-2), strings.Repeat("-", wSource-2), strings.Repeat("-", len(hTarget)))

	for _, r := range rows {
		fmtRow(r.Construct, r.Name, r.Source, r.Target)
	}
}
