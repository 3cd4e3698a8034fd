package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bfv/blogkit/internal/policy"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrMissingDSN is returned by apply when no database connection is configured.
var ErrMissingDSN = errors.New("database url is required (use --dsn, database.url or DATABASE_URL)")

// NewApplyCmd builds and returns the 'apply' cobra command.
func NewApplyCmd() *cobra.Command {
	var (
		dsn    string
		format string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "apply <policies.yaml|->",
		Short: "Generate the policy SQL and run it against a Postgres database",
		Long: `Apply generates the same script as 'generate' and executes it in one
transaction. The connection must use a role that bypasses row-level security,
such as the database owner or a service role. Running it again is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("database.url", cmd.Flags().Lookup("dsn")); err != nil {
				return err
			}
			if err := viper.BindPFlag("policy.format", cmd.Flags().Lookup("format")); err != nil {
				return err
			}
			return runApply(cmd.Context(), args[0], viper.GetString("database.url"), viper.GetString("policy.format"), dryRun, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string")
	cmd.Flags().StringVar(&format, "format", "subset", "Config parser: subset or yaml")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the SQL instead of executing it")
	return cmd
}

// runApply is the entry point for the apply command.
func runApply(ctx context.Context, configPath, dsn, format string, dryRun bool, stdin io.Reader, stdout io.Writer) error {
	log.Debug().Str("config", configPath).Bool("dryRun", dryRun).Msg("apply started")

	cfg, err := loadConfig(configPath, format, stdin)
	if err != nil {
		return err
	}
	sql := policy.Generate(cfg)

	if dryRun {
		_, err := io.WriteString(stdout, sql)
		return err
	}
	if dsn == "" {
		return ErrMissingDSN
	}

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer conn.Close(context.Background())

	// No arguments, so pgx sends the script over the simple protocol and
	// the BEGIN/COMMIT inside it frame the transaction.
	if _, err := conn.Exec(ctx, sql); err != nil {
		return fmt.Errorf("executing policy sql: %w", err)
	}

	stats := policy.Count(cfg)
	log.Info().
		Int("tables", len(cfg.Tables)).
		Int("policyBlocks", stats.Policies).
		Msg("policies applied")
	return nil
}
