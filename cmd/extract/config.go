package extract

import (
	"errors"
	"os"
	"time"

	"github.com/dreamerjackson/confextract/limiter"
	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
)

type Config struct {
	LogLevel string
	LogFile  string
	Fetcher  FetcherConfig
	Storage  StorageConfig
	Batch    BatchConfig
	Families FamiliesConfig
}

type FetcherConfig struct {
	Timeout  int64 // milliseconds
	WaitTime int64 // milliseconds
	Cookie   string
	Proxy    []string
	Limits   []LimitConfig
}

type LimitConfig struct {
	EventCount int
	EventDur   int // seconds
	Bucket     int
}

type StorageConfig struct {
	Type       string // "", "mysql" or "sqlite"
	SQLURL     string
	BatchCount int
}

type BatchConfig struct {
	WorkCount int
	NodeID    int64 // run id node; 0 derives it from the host address
}

type FamiliesConfig struct {
	Dir string
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "INFO",
		Fetcher:  FetcherConfig{Timeout: 10000},
		Storage:  StorageConfig{BatchCount: 100},
		Batch:    BatchConfig{WorkCount: 4},
	}
}

// LoadConfig reads a toml file over DefaultConfig. A missing file is not an
// error when optional is set.
func LoadConfig(path string, optional bool) (Config, error) {
	c := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}

	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return c, err
	}
	err = cfg.Load(file.NewSource(
		file.WithPath(path),
		source.WithEncoder(enc),
	))
	if err != nil {
		return c, err
	}

	c.LogLevel = cfg.Get("logLevel").String(c.LogLevel)
	c.LogFile = cfg.Get("logFile").String(c.LogFile)
	if err := cfg.Get("fetcher").Scan(&c.Fetcher); err != nil {
		return c, err
	}
	if err := cfg.Get("storage").Scan(&c.Storage); err != nil {
		return c, err
	}
	if err := cfg.Get("batch").Scan(&c.Batch); err != nil {
		return c, err
	}
	if err := cfg.Get("families").Scan(&c.Families); err != nil {
		return c, err
	}

	return c, nil
}

func (f FetcherConfig) Rules() []limiter.Rule {
	rules := make([]limiter.Rule, 0, len(f.Limits))
	for _, l := range f.Limits {
		rules = append(rules, limiter.Rule{
			Count:  l.EventCount,
			Period: time.Duration(l.EventDur) * time.Second,
			Burst:  l.Bucket,
		})
	}

	return rules
}
