package commands

// Settings is the structure of the optional blogkit.yaml settings file. Every
// value can also come from flags or the environment.
type Settings struct {
	Supabase SupabaseSettings `mapstructure:"supabase"`
	Database DatabaseSettings `mapstructure:"database"`
	Policy   PolicySettings   `mapstructure:"policy"`
}

// SupabaseSettings locate the hosted backend used by the posts command.
type SupabaseSettings struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
}

// DatabaseSettings hold direct database connections.
type DatabaseSettings struct {
	// URL is a Postgres connection string. apply needs a role that bypasses
	// row-level security.
	URL string `mapstructure:"url"`
	// Snapshot is a local SQLite copy of the blog tables.
	Snapshot string `mapstructure:"snapshot"`
}

// PolicySettings are defaults for the policy commands.
type PolicySettings struct {
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
