package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MarvinJWendt/testza"
	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	testza.AssertNoError(t, flags.Parse(args))
	return flags
}

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	testza.AssertNoError(t, os.WriteFile(path, []byte(contents), 0o644))
	t.Setenv(configEnv, path)
	return path
}

func load(t *testing.T, flags *pflag.FlagSet) Config {
	loader, err := NewLoader(flags)
	testza.AssertNoError(t, err)
	cfg, err := loader.Load()
	testza.AssertNoError(t, err)
	return cfg
}

func isolate(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv(configEnv, "")
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg := load(t, newFlags(t))
	testza.AssertEqual(t, 10*time.Millisecond, cfg.Interval)
	testza.AssertFalse(t, cfg.AltScreen)
	testza.AssertEqual(t, "info", cfg.Log.Level)
	testza.AssertEqual(t, "", cfg.Log.File)
}

func TestFlagsOverride(t *testing.T) {
	isolate(t)
	cfg := load(t, newFlags(t, "--interval", "25ms", "--alt-screen", "--log-level", "debug", "--log-file", "/tmp/sw.log"))
	testza.AssertEqual(t, 25*time.Millisecond, cfg.Interval)
	testza.AssertTrue(t, cfg.AltScreen)
	testza.AssertEqual(t, "debug", cfg.Log.Level)
	testza.AssertEqual(t, "/tmp/sw.log", cfg.Log.File)
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("STOPWATCH_INTERVAL", "100ms")
	t.Setenv("STOPWATCH_LOG_LEVEL", "warn")
	cfg := load(t, newFlags(t))
	testza.AssertEqual(t, 100*time.Millisecond, cfg.Interval)
	testza.AssertEqual(t, "warn", cfg.Log.Level)
}

func TestConfigFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "interval = \"40ms\"\nalt_screen = true\n\n[log]\nlevel = \"error\"\n")
	loader, err := NewLoader(newFlags(t))
	testza.AssertNoError(t, err)
	testza.AssertEqual(t, path, loader.ConfigFile())

	cfg, err := loader.Load()
	testza.AssertNoError(t, err)
	testza.AssertEqual(t, 40*time.Millisecond, cfg.Interval)
	testza.AssertTrue(t, cfg.AltScreen)
	testza.AssertEqual(t, "error", cfg.Log.Level)
}

func TestFlagBeatsConfigFile(t *testing.T) {
	isolate(t)
	writeConfig(t, "interval = \"40ms\"\n")
	cfg := load(t, newFlags(t, "--interval", "15ms"))
	testza.AssertEqual(t, 15*time.Millisecond, cfg.Interval)
}

func TestMissingExplicitConfigFile(t *testing.T) {
	isolate(t)
	t.Setenv(configEnv, filepath.Join(t.TempDir(), "missing.toml"))
	_, err := NewLoader(newFlags(t))
	testza.AssertNotNil(t, err)
}

func TestInvalidInterval(t *testing.T) {
	isolate(t)
	loader, err := NewLoader(newFlags(t, "--interval", "0s"))
	testza.AssertNoError(t, err)
	_, err = loader.Load()
	testza.AssertErrorIs(t, err, ErrInvalidConfig)
}

func TestNilFlags(t *testing.T) {
	isolate(t)
	cfg := load(t, nil)
	testza.AssertEqual(t, 10*time.Millisecond, cfg.Interval)
}

func TestWatch(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "interval = \"40ms\"\n")
	loader, err := NewLoader(newFlags(t))
	testza.AssertNoError(t, err)

	changed := make(chan Config, 4)
	loader.Watch(func(cfg Config, err error) {
		if err == nil {
			changed <- cfg
		}
	})
	testza.AssertNoError(t, os.WriteFile(path, []byte("interval = \"80ms\"\n"), 0o644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Interval == 80*time.Millisecond {
				return
			}
		case <-timeout:
			t.Fatal("config change not observed")
		}
	}
}

func TestWatchWithoutFile(t *testing.T) {
	isolate(t)
	loader, err := NewLoader(newFlags(t))
	testza.AssertNoError(t, err)
	called := false
	loader.Watch(func(Config, error) { called = true })
	testza.AssertFalse(t, called)
}
