package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var ErrMissingAPIKey = errors.New("gemini api key is not set")

// --config="path/to/config.yaml"
var configFlag = flag.String("config", "", "path to config file")

type Config struct {
	Env    string       `yaml:"env" env:"ENV" env-default:"local"`
	HTTP   HTTPConfig   `yaml:"http"`
	Gemini GeminiConfig `yaml:"gemini"`
	Seed   SeedConfig   `yaml:"seed"`
	Flow   FlowConfig   `yaml:"flow"`
}

type HTTPConfig struct {
	Host          string `yaml:"host" env:"HTTP_HOST"`
	Port          string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	SessionSecret string `yaml:"session_secret" env:"SESSION_SECRET" env-default:"pixelnow-dev-secret"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.5-flash-image"`
	// Timeout ограничивает один запрос генерации; 0 без ограничения
	Timeout time.Duration `yaml:"timeout" env:"GEMINI_TIMEOUT" env-default:"60s"`
}

type SeedConfig struct {
	Count int `yaml:"count" env:"SEED_COUNT" env-default:"30"`
}

type FlowConfig struct {
	TTL time.Duration `yaml:"ttl" env:"FLOW_TTL" env-default:"30m"`
}

// MustLoad подхватывает .env до выбора пути, так что CONFIG_PATH можно задать там
func MustLoad() *Config {
	loadDotEnv()

	cfg, err := Load(fetchConfigPath())
	if err != nil {
		panic(err)
	}

	return cfg
}

func MustLoadPath(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load читает YAML файл (если путь задан) и переменные окружения.
// Файл .env в рабочей директории подхватывается, если он есть.
func Load(configPath string) (*Config, error) {
	loadDotEnv()

	var cfg Config

	if configPath != "" {
		// проверяем, что файл существует
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return ErrMissingAPIKey
	}

	if c.Seed.Count < 0 {
		return fmt.Errorf("seed count must not be negative: %d", c.Seed.Count)
	}

	if c.Gemini.Timeout < 0 {
		return fmt.Errorf("gemini timeout must not be negative: %s", c.Gemini.Timeout)
	}

	return nil
}

// loadDotEnv не перезаписывает уже заданные переменные окружения
func loadDotEnv() {
	_ = godotenv.Load()
}

func fetchConfigPath() string {
	if !flag.Parsed() {
		flag.Parse()
	}

	res := *configFlag
	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
