package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "MOODTRACK"

type Service struct {
	URL string `yaml:"url" mapstructure:"url"`
}
type Services struct {
	Camera        Service `yaml:"camera" mapstructure:"camera"`
	Emotion       Service `yaml:"emotion" mapstructure:"emotion"`
	Visualization Service `yaml:"visualization" mapstructure:"visualization"`
}
type Capture struct {
	Interval  time.Duration `yaml:"interval" mapstructure:"interval"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxMisses int           `yaml:"max_misses" mapstructure:"max_misses"`
}
type Inference struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}
type Mood struct {
	Window int `yaml:"window" mapstructure:"window"`
	Cap    int `yaml:"cap" mapstructure:"cap"`
}
type Server struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}
type Root struct {
	Pipeline struct {
		Name      string `yaml:"name" mapstructure:"name"`
		Version   string `yaml:"version" mapstructure:"version"`
		LogLvl    string `yaml:"log_level" mapstructure:"log_level"`
		LogFormat string `yaml:"log_format" mapstructure:"log_format"`
	} `yaml:"pipeline" mapstructure:"pipeline"`
	Services  Services  `yaml:"services" mapstructure:"services"`
	Capture   Capture   `yaml:"capture" mapstructure:"capture"`
	Inference Inference `yaml:"inference" mapstructure:"inference"`
	Mood      Mood      `yaml:"mood" mapstructure:"mood"`
	Server    Server    `yaml:"server" mapstructure:"server"`
}

// SetDefaults registers every key so env overrides work without a file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.name", "moodtrack")
	v.SetDefault("pipeline.version", "dev")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("pipeline.log_format", "text")
	v.SetDefault("services.camera.url", "http://127.0.0.1:8081/snapshot.jpg")
	v.SetDefault("services.emotion.url", "http://127.0.0.1:8000")
	v.SetDefault("services.visualization.url", "")
	v.SetDefault("capture.interval", 200*time.Millisecond)
	v.SetDefault("capture.timeout", 2*time.Second)
	v.SetDefault("capture.max_misses", 10)
	v.SetDefault("inference.timeout", 5*time.Second)
	v.SetDefault("mood.window", 15)
	v.SetDefault("mood.cap", 30)
	v.SetDefault("server.addr", "127.0.0.1:8090")
}

// Load resolves the config from defaults, the YAML file at path (or the
// first of the CONFIG_ENV guesses that exists), MOODTRACK_* environment
// variables and any flags already bound on v, in increasing priority.
func Load(v *viper.Viper, path string) (*Root, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = guess()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func guess() string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	for _, p := range []string{
		filepath.Join("config", env, "config.yaml"),
		"config.yaml",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Root) Validate() error {
	var errs []error
	if c.Mood.Window <= 0 {
		errs = append(errs, fmt.Errorf("mood.window must be > 0, got %d", c.Mood.Window))
	}
	if c.Mood.Cap <= 0 {
		errs = append(errs, fmt.Errorf("mood.cap must be > 0, got %d", c.Mood.Cap))
	}
	if c.Capture.Interval <= 0 {
		errs = append(errs, fmt.Errorf("capture.interval must be > 0, got %s", c.Capture.Interval))
	}
	if c.Capture.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("capture.timeout must be > 0, got %s", c.Capture.Timeout))
	}
	if c.Capture.MaxMisses <= 0 {
		errs = append(errs, fmt.Errorf("capture.max_misses must be > 0, got %d", c.Capture.MaxMisses))
	}
	if c.Inference.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("inference.timeout must be > 0, got %s", c.Inference.Timeout))
	}
	if c.Services.Camera.URL == "" {
		errs = append(errs, errors.New("services.camera.url must be set"))
	}
	if c.Services.Emotion.URL == "" {
		errs = append(errs, errors.New("services.emotion.url must be set"))
	}
	return errors.Join(errs...)
}

// YAML renders the effective config.
func (c *Root) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
