package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// envBindings lists the environment variables read for each settings key, in
// order of preference. The VITE_ names match the web front end's .env file.
var envBindings = map[string][]string{
	"supabase.url":      {"SUPABASE_URL", "VITE_SUPABASE_URL", "VITE_SUPABASE_DATABASE_URL", "VITE_PUBLIC_SUPABASE_URL"},
	"supabase.anon_key": {"SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY", "VITE_PUBLIC_SUPABASE_ANON_KEY"},
	"database.url":      {"BLOGKIT_DATABASE_URL", "DATABASE_URL"},
	"database.snapshot": {"BLOGKIT_SNAPSHOT"},
	"policy.format":     {"BLOGKIT_POLICY_FORMAT"},
	"policy.output":     {"BLOGKIT_POLICY_OUTPUT"},
}

// InitSettings registers defaults and environment bindings and reads the
// settings file. With an empty configFile, blogkit.yaml in the working
// directory is read if it exists.
func InitSettings(configFile string) error {
	viper.SetDefault("policy.format", "subset")
	viper.SetDefault("policy.output", "policies.sql")

	for key, names := range envBindings {
		if err := viper.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("binding environment for %s: %w", key, err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("blogkit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			log.Debug().Msg("no settings file")
			return nil
		}
		return fmt.Errorf("reading settings: %w", err)
	}
	log.Debug().Str("file", viper.ConfigFileUsed()).Msg("settings loaded")
	return nil
}

// loadSettings returns the merged view of file, environment and bound flags.
func loadSettings() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decoding settings: %w", err)
	}
	return s, nil
}
