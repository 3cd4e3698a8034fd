package commands

import (
	"io"

	"github.com/bfv/blogkit/internal/policy"
	"github.com/spf13/cobra"
)

// NewExampleCmd builds and returns the 'example' cobra command.
func NewExampleCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example policy config for the blog tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExample(outputFile, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write output to file instead of stdout")
	return cmd
}

func runExample(outputPath string, stdout io.Writer) error {
	return writeOutput(outputPath, stdout, []byte(policy.Example))
}
