// Package cli wires configuration, logging and the store together behind
// the contas command line.
package cli

import (
	"fmt"
	"io"

	"contas/internal/config"
	applog "contas/internal/log"
	"contas/internal/store/memory"
)

// SetupLogger builds the process logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config, out io.Writer) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
		Output:    out,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadConfig loads .env, reads the environment and applies overrides
// before validating the result.
func LoadConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	if err := config.LoadEnvFile(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenStore creates the in-memory store, seeded from cfg.SeedFile when set.
func OpenStore(cfg *config.Config, logger *applog.Logger) (*memory.Store, error) {
	if cfg.SeedFile == "" {
		return memory.New(), nil
	}
	st, err := memory.NewFromFile(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}
	logger.WithComponent(applog.ComponentStore).Info("Store seeded",
		applog.FieldOperation, applog.OpSeed,
		"path", cfg.SeedFile,
		applog.FieldCount, st.Len())
	return st, nil
}
