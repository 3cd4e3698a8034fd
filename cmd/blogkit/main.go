package main

import (
	"os"
	"runtime/debug"

	"github.com/bfv/blogkit/cmd/blogkit/commands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// If not set (e.g., via go install), it will be determined from build info.
var version = "dev"

func init() {
	// If version is still "dev", try to get it from build info (for go install)
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
}

func main() {
	var (
		verbose    bool
		logFormat  string
		configFile string
	)

	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "blogkit",
		Short:         "Blog reader and row-level security policy generator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := commands.InitLogging(verbose, logFormat); err != nil {
				return err
			}
			return commands.InitSettings(configFile)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log output format: console or json")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Settings file (default: blogkit.yaml in the working directory, if present)")
	rootCmd.AddCommand(commands.NewGenerateCmd())
	rootCmd.AddCommand(commands.NewParseCmd())
	rootCmd.AddCommand(commands.NewDiffCmd())
	rootCmd.AddCommand(commands.NewApplyCmd())
	rootCmd.AddCommand(commands.NewExampleCmd())
	rootCmd.AddCommand(commands.NewPostsCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("fatal error")
		os.Exit(1)
	}
}
