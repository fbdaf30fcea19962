package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contas/internal/config"
	applog "contas/internal/log"
	"contas/internal/store/memory"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd("1.2.3")
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "contas 1.2.3\n", out.String())
}

func TestServeOptionsOverrideConfig(t *testing.T) {
	cfg := &config.Config{Port: "8081", SeedFile: "a.csv"}

	serveOptions{}.apply(cfg)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "a.csv", cfg.SeedFile)

	serveOptions{port: "9000", seed: "b.csv"}.apply(cfg)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "b.csv", cfg.SeedFile)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)

	cfg, err = LoadConfig(serveOptions{port: "9200"}.apply)
	require.NoError(t, err)
	assert.Equal(t, "9200", cfg.Port)

	_, err = LoadConfig(serveOptions{port: "http"}.apply)
	assert.ErrorContains(t, err, "invalid port")
}

func TestOpenStore(t *testing.T) {
	logger := applog.Discard()

	st, err := OpenStore(&config.Config{}, logger)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Len())

	path := filepath.Join(t.TempDir(), "seed.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"date,description,amount,type,paid\n"+
			"2024-03-01,Rent,1200,EXPENSE,true\n"+
			"2024-03-05,Salary,3500,INCOME,true\n"), 0o600))

	st, err = OpenStore(&config.Config{SeedFile: path}, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Len())

	require.NoError(t, os.WriteFile(path, []byte("2024-03-01,Rent,oops,EXPENSE,true\n"), 0o600))
	_, err = OpenStore(&config.Config{SeedFile: path}, logger)
	assert.ErrorContains(t, err, "seed store")
}

func TestSetupLogger(t *testing.T) {
	var out bytes.Buffer
	logger := SetupLogger(&config.Config{LogLevel: "warn", LogFormat: "json"}, &out)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"msg":"shown"`)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := &config.Config{
		Port:            "0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}
	st := memory.New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg, st, applog.Discard()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
	assert.Equal(t, 0, st.ObserverCount())
}

func TestServeLogsLifecycleAsCLI(t *testing.T) {
	var out bytes.Buffer
	logger := applog.New(applog.Config{Format: "json", Output: &out})
	cfg := &config.Config{
		Port:            "0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, Serve(ctx, cfg, memory.New(), logger))

	assert.Contains(t, out.String(), `"component":"cli"`)
	assert.Contains(t, out.String(), `"msg":"Server stopped gracefully"`)
}
