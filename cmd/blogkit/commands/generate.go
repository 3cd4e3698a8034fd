package commands

import (
	"fmt"
	"io"

	"github.com/bfv/blogkit/internal/policy"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// generateOptions carries the resolved flags of the generate command.
type generateOptions struct {
	configPath string
	outputPath string // "" skips the file
	format     string
	quiet      bool // do not echo the SQL to stdout
}

// NewGenerateCmd builds and returns the 'generate' cobra command.
func NewGenerateCmd() *cobra.Command {
	var (
		outputFile string
		format     string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "generate <policies.yaml|->",
		Short: "Generate idempotent row-level security SQL from a policy config",
		Long: `Generate reads a policy config and writes a transaction that enables and
forces row-level security and creates each policy unless it already exists.

The SQL is printed to stdout and written to the output file. Run it with a
role that bypasses row-level security.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bind the cobra flags into viper so settings files and the
			// environment can supply them too.
			if err := viper.BindPFlag("policy.output", cmd.Flags().Lookup("output")); err != nil {
				return err
			}
			if err := viper.BindPFlag("policy.format", cmd.Flags().Lookup("format")); err != nil {
				return err
			}
			return runGenerate(generateOptions{
				configPath: args[0],
				outputPath: viper.GetString("policy.output"),
				format:     viper.GetString("policy.format"),
				quiet:      quiet,
			}, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "policies.sql", "SQL file to write (empty to skip)")
	cmd.Flags().StringVar(&format, "format", "subset", "Config parser: subset or yaml")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the SQL to stdout")
	return cmd
}

// runGenerate is the entry point for the generate command.
func runGenerate(opts generateOptions, stdin io.Reader, stdout io.Writer) error {
	log.Debug().Str("config", opts.configPath).Str("output", opts.outputPath).Str("format", opts.format).Msg("generate started")

	cfg, err := loadConfig(opts.configPath, opts.format, stdin)
	if err != nil {
		return err
	}

	sql := policy.Generate(cfg)
	stats := policy.Count(cfg)
	log.Debug().
		Int("tables", len(cfg.Tables)).
		Int("enable", stats.Enable).
		Int("force", stats.Force).
		Int("policyBlocks", stats.Policies).
		Msg("sql generated")

	if !opts.quiet {
		if _, err := io.WriteString(stdout, sql); err != nil {
			return fmt.Errorf("writing sql: %w", err)
		}
	}

	if opts.outputPath != "" {
		if err := writeOutput(opts.outputPath, nil, []byte(sql)); err != nil {
			return err
		}
		log.Info().Str("file", opts.outputPath).Int("policyBlocks", stats.Policies).Msg("policies generated")
	}
	return nil
}
