package config

// Config represents the full application configuration.
type Config struct {
	Lint  LintConfig  `yaml:"lint"`
	Git   GitConfig   `yaml:"git"`
	Log   LogConfig   `yaml:"log"`
	Store StoreConfig `yaml:"store"`
}

// LintConfig configures the external linter invocation.
type LintConfig struct {
	// Command is a whitespace-separated argv template; "{file}" expands to
	// the file under lint and "{config}" to ConfigDir.
	Command string `yaml:"command"`
	// Format of the linter output: "text" or "json".
	Format string `yaml:"format"`
	// ConfigDir is passed to the linter via the {config} placeholder.
	ConfigDir string `yaml:"configDir"`
	// Include/Exclude are doublestar globs applied to changed file paths.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// GitConfig holds repository settings.
type GitConfig struct {
	// RepositoryDir is the default repository root, overridden by the
	// positional CLI argument.
	RepositoryDir string `yaml:"repositoryDir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, error
	Format string `yaml:"format"` // human, json
}

// StoreConfig configures the optional run history store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
