package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "STOPWATCH"
	configEnv       = "STOPWATCH_CONFIG"
	defaultInterval = 10 * time.Millisecond
	defaultLevel    = "info"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Interval  time.Duration `mapstructure:"interval"`
	AltScreen bool          `mapstructure:"alt_screen"`
	Log       Log           `mapstructure:"log"`
}

type Log struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"interval":   "interval",
	"alt-screen": "alt_screen",
	"log-file":   "log.file",
	"log-level":  "log.level",
}

func RegisterFlags(flags *pflag.FlagSet) {
	flags.Duration("interval", defaultInterval, "Clock sampling interval while running")
	flags.Bool("alt-screen", false, "Draw the stopwatch on the alternate screen")
	flags.String("log-file", "", "Log file path (defaults to stopwatch.log next to the executable)")
	flags.String("log-level", defaultLevel, "Log level")
}

type Loader struct {
	v *viper.Viper
}

// NewLoader layers flags over STOPWATCH_ env vars over an optional TOML
// config file over defaults. STOPWATCH_CONFIG overrides the config file path.
func NewLoader(flags *pflag.FlagSet) (*Loader, error) {
	v := viper.New()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("alt_screen", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", defaultLevel)

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if path := os.Getenv(configEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "stopwatch"))
		}
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return &Loader{v: v}, nil
}

func (l *Loader) Load() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Interval <= 0 {
		return Config{}, fmt.Errorf("interval %s must be positive: %w", c.Interval, ErrInvalidConfig)
	}
	return c, nil
}

func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Watch calls onChange with the reloaded config whenever the config file is
// written. It does nothing when no config file was found.
func (l *Loader) Watch(onChange func(Config, error)) {
	if l.ConfigFile() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(l.Load())
	})
	l.v.WatchConfig()
}
