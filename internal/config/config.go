package config

import (
	"errors"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SessionDriverFile  = "file"
	SessionDriverRedis = "redis"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	API         APIConfig         `yaml:"api"`
	Session     SessionConfig     `yaml:"session"`
	Redis       RedisConf         `yaml:"redis"`
	HTTP        HTTPConfig        `yaml:"http"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Export      ExportConfig      `yaml:"export"`
}

type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8000/api"`
	Timeout   time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"0s"`
	UserAgent string        `yaml:"user_agent" env-default:"tour_admin"`
}

type SessionConfig struct {
	Driver string        `yaml:"driver" env:"SESSION_DRIVER" env-default:"file"`
	Path   string        `yaml:"path" env:"SESSION_PATH"`
	Key    string        `yaml:"key" env-default:"tour_admin:session"`
	TTL    time.Duration `yaml:"ttl" env-default:"168h"`
}

// HTTPConfig is the diagnostics server started by the builder shell. An empty
// port disables it.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env:"HTTP_PORT"`
}

type FileStorageConfig struct {
	MaxSize      int64    `yaml:"max_size" env-default:"5242880"`
	AllowedTypes []string `yaml:"allowed_types" env-default:"image/jpeg,image/png,image/webp,image/gif"`
}

type ExportConfig struct {
	Dir string `yaml:"dir" env-default:"."`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redispassword" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

// Load reads the config file at path, or the environment alone when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	// check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New("config file does not exist: " + path)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, errors.New("cannot read config: " + err.Error())
	}

	return &cfg, nil
}

func MustLoadPath(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}

	return cfg
}
