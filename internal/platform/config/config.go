package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"

	DefaultDataDir = ".storefront"
	fileName       = "config.yaml"
	envPrefix      = "STOREFRONT_"
)

type Config struct {
	DataDir     string         `yaml:"-"`
	DBPath      string         `yaml:"-"`
	ReceiptsDir string         `yaml:"receipts_dir"`
	Profile     string         `yaml:"profile"`
	Storage     StorageConfig  `yaml:"storage"`
	Catalog     CatalogConfig  `yaml:"catalog"`
	Currency    CurrencyConfig `yaml:"currency"`
	Auth        AuthConfig     `yaml:"auth"`
	Log         LogConfig      `yaml:"log"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type CatalogConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// CurrencyConfig converts catalog (USD) prices into the display currency.
type CurrencyConfig struct {
	Code   string  `yaml:"code"`
	Symbol string  `yaml:"symbol"`
	Rate   float64 `yaml:"rate"`
}

// AuthConfig holds the credentials accepted by the mock login.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Options carries command-line overrides; empty fields keep file/env values.
type Options struct {
	DataDir    string
	ConfigPath string
	Profile    string
	Driver     string
	LogLevel   string
	Ephemeral  bool
}

func Default(dataDir string) Config {
	return Config{
		DataDir:     dataDir,
		DBPath:      filepath.Join(dataDir, "storefront.db"),
		ReceiptsDir: filepath.Join(dataDir, "receipts"),
		Profile:     "default",
		Storage:     StorageConfig{Driver: DriverSQLite},
		Catalog: CatalogConfig{
			BaseURL:   "https://dummyjson.com",
			Timeout:   15 * time.Second,
			CacheSize: 256,
			CacheTTL:  5 * time.Minute,
		},
		Currency: CurrencyConfig{Code: "IDR", Symbol: "Rp", Rate: 16000},
		Auth:     AuthConfig{Username: "admin", Password: "admin"},
		Log:      LogConfig{Level: "info"},
	}
}

// New loads defaults, then config.yaml, then .env and STOREFRONT_* variables,
// then opts, and validates the result.
func New(opts Options) (Config, error) {
	dataDir := strings.TrimSpace(opts.DataDir)
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	cfg := Default(dataDir)

	path := opts.ConfigPath
	if path == "" {
		path = filepath.Join(dataDir, fileName)
	}
	if err := cfg.loadFile(path, opts.ConfigPath != ""); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyOptions(opts)

	if !filepath.IsAbs(cfg.ReceiptsDir) && !strings.HasPrefix(cfg.ReceiptsDir, dataDir) {
		cfg.ReceiptsDir = filepath.Join(dataDir, cfg.ReceiptsDir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("PROFILE"); ok {
		c.Profile = v
	}
	if v, ok := lookup("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := lookup("CATALOG_URL"); ok {
		c.Catalog.BaseURL = v
	}
	if v, ok := lookup("CATALOG_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sCATALOG_TIMEOUT: %w", envPrefix, err)
		}
		c.Catalog.Timeout = d
	}
	if v, ok := lookup("CURRENCY_RATE"); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse %sCURRENCY_RATE: %w", envPrefix, err)
		}
		c.Currency.Rate = rate
	}
	if v, ok := lookup("AUTH_USERNAME"); ok {
		c.Auth.Username = v
	}
	if v, ok := lookup("AUTH_PASSWORD"); ok {
		c.Auth.Password = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) applyOptions(opts Options) {
	if strings.TrimSpace(opts.Profile) != "" {
		c.Profile = strings.TrimSpace(opts.Profile)
	}
	if strings.TrimSpace(opts.Driver) != "" {
		c.Storage.Driver = strings.TrimSpace(opts.Driver)
	}
	if opts.Ephemeral {
		c.Storage.Driver = DriverMemory
	}
	if strings.TrimSpace(opts.LogLevel) != "" {
		c.Log.Level = strings.TrimSpace(opts.LogLevel)
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data dir is required")
	}
	if strings.TrimSpace(c.Profile) == "" {
		return fmt.Errorf("profile is required")
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile, DriverMemory:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Catalog.BaseURL) == "" {
		return fmt.Errorf("catalog base url is required")
	}
	if c.Currency.Rate <= 0 {
		return fmt.Errorf("currency rate must be positive, got %v", c.Currency.Rate)
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
