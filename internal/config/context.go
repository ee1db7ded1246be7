package config

import "context"

type (
	configKey  struct{}
	workDirKey struct{}
)

// WithConfig stores cfg in the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored in ctx, or the defaults.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok && cfg != nil {
		return cfg
	}
	d := Default()
	return &d
}

// WithWorkDir stores the directory curator was started from.
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// WorkDirFromContext returns the stored working directory, or "".
func WorkDirFromContext(ctx context.Context) string {
	dir, _ := ctx.Value(workDirKey{}).(string)
	return dir
}

// ForRepo loads .curator.toml from root and merges it over ctx's config.
// Environment overrides beat both files.
func ForRepo(ctx context.Context, root string) (*Config, error) {
	local, err := LoadLocal(root)
	if err != nil {
		return nil, err
	}
	merged := applyEnv(*MergeLocal(FromContext(ctx), local))
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
