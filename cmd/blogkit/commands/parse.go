package commands

import (
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewParseCmd builds and returns the 'parse' cobra command.
func NewParseCmd() *cobra.Command {
	var (
		outputFile string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "parse <policies.yaml|->",
		Short: "Print the config as the generator understands it",
		Long: `Parse reads a policy config and prints the structured result as YAML.
Use it to check how the indentation parser placed each line; entries it
could not place are missing from the output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("policy.format", cmd.Flags().Lookup("format")); err != nil {
				return err
			}
			return runParse(args[0], viper.GetString("policy.format"), outputFile, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write output to file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "subset", "Config parser: subset or yaml")
	return cmd
}

// runParse is the entry point for the parse command.
func runParse(configPath, format, outputPath string, stdin io.Reader, stdout io.Writer) error {
	log.Debug().Str("config", configPath).Str("format", format).Str("output", outputPath).Msg("parse started")

	cfg, err := loadConfig(configPath, format, stdin)
	if err != nil {
		return err
	}

	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	if err := writeOutput(outputPath, stdout, data); err != nil {
		return err
	}

	log.Debug().Int("tables", len(cfg.Tables)).Msg("parse complete")
	return nil
}
