package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"pointledger/internal/logger"
	"pointledger/internal/service/point"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the pointledger service will be run
	ListenAddr string

	// Database to connect to
	// Empty value means the service keeps everything in process memory
	DatabaseDSN string

	// Optional redis address for the balance read cache
	RedisAddr string

	// Optional NATS url for publishing committed transactions
	NatsURL string

	// Business limits with well known defaults
	MaxBalance   int64
	MinUseAmount int64

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:     defaultLoggingLevel,
		ListenAddr:   defaultListenAddr,
		Environment:  defaultEnvironment,
		MaxBalance:   point.DefaultMaxBalance,
		MinUseAmount: point.DefaultMinUseAmount,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	// Set option to value if it parses as positive integer
	setInt64 := func(o *int64) func(value string) {
		return func(value string) {
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err == nil && parsed > 0 {
				*o = parsed
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":    setString(&c.ListenAddr),
		"DATABASE_URI":   setString(&c.DatabaseDSN),
		"REDIS_ADDR":     setString(&c.RedisAddr),
		"NATS_URL":       setString(&c.NatsURL),
		"LOG_LEVEL":      setString(&c.LogLevel),
		"ENVIRONMENT":    setString(&c.Environment),
		"MAX_BALANCE":    setInt64(&c.MaxBalance),
		"MIN_USE_AMOUNT": setInt64(&c.MinUseAmount),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("pointledger", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string (empty runs in-memory)")
	fs.StringVar(&c.RedisAddr, "redis", c.RedisAddr, "Redis address for the balance cache")
	fs.StringVar(&c.NatsURL, "nats", c.NatsURL, "NATS url for transaction events")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.Int64Var(&c.MaxBalance, "max-balance", c.MaxBalance, "Hard cap a balance may never exceed")
	fs.Int64Var(&c.MinUseAmount, "min-use-amount", c.MinUseAmount, "Smallest amount a single use may spend")

	return fs.Parse(args)
}
