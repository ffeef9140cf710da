package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/coneno/logger"
	"github.com/pglab/traffic-sandbox/pkg/types"
)

const (
	ENV_GIN_DEBUG_MODE = "GIN_DEBUG_MODE"
	ENV_LOG_LEVEL      = "LOG_LEVEL"

	ENV_TRAFFIC_SANDBOX_LISTEN_PORT = "TRAFFIC_SANDBOX_LISTEN_PORT"
	ENV_CORS_ALLOW_ORIGINS          = "CORS_ALLOW_ORIGINS"

	ENV_PG_HOST          = "PG_HOST"
	ENV_PG_PORT          = "PG_PORT"
	ENV_PG_DATABASE      = "PG_DATABASE"
	ENV_PG_USER          = "PG_USER"
	ENV_PG_PASSWORD      = "PG_PASSWORD"
	ENV_PG_TIMEOUT       = "PG_TIMEOUT"
	ENV_PG_MAX_POOL_SIZE = "PG_MAX_POOL_SIZE"

	ENV_TRAFFIC_GENERATOR_ENABLED = "TRAFFIC_GENERATOR_ENABLED"
	ENV_TRAFFIC_BATCH_INTERVAL    = "TRAFFIC_BATCH_INTERVAL"
	ENV_TRAFFIC_QUERIES_PER_BATCH = "TRAFFIC_QUERIES_PER_BATCH"
	ENV_TRAFFIC_QUERY_POOL_FILE   = "TRAFFIC_QUERY_POOL_FILE"

	defaultListenPort      = "8080"
	defaultPGHost          = "localhost"
	defaultPGPort          = "5432"
	defaultPGDatabase      = "sandbox"
	defaultPGUser          = "postgres"
	defaultPGPassword      = "postgres"
	defaultPGTimeout       = 30
	defaultPGMaxPoolSize   = 10
	defaultBatchInterval   = 5
	defaultQueriesPerBatch = 10
)

// Config is the structure that holds all global configuration data
type Config struct {
	GinDebugMode    bool
	Port            string
	AllowOrigins    []string
	LogLevel        logger.LogLevel
	DBConfig        types.DBConfig
	GeneratorConfig types.GeneratorConfig
	QueryPoolFile   string
}

// initConfig resolves every value to a hard-coded default when the env var
// is absent, so the service is runnable with no configuration present.
func initConfig() Config {
	conf := Config{}
	conf.GinDebugMode = os.Getenv(ENV_GIN_DEBUG_MODE) == "true"
	conf.Port = envOrDefault(ENV_TRAFFIC_SANDBOX_LISTEN_PORT, defaultListenPort)
	conf.AllowOrigins = strings.Split(os.Getenv(ENV_CORS_ALLOW_ORIGINS), ",")
	conf.QueryPoolFile = os.Getenv(ENV_TRAFFIC_QUERY_POOL_FILE)

	conf.LogLevel = getLogLevel()
	conf.DBConfig = getDBConfig()
	conf.GeneratorConfig = getGeneratorConfig()

	return conf
}

func getLogLevel() logger.LogLevel {
	switch os.Getenv(ENV_LOG_LEVEL) {
	case "debug":
		return logger.LEVEL_DEBUG
	case "info":
		return logger.LEVEL_INFO
	case "error":
		return logger.LEVEL_ERROR
	case "warning":
		return logger.LEVEL_WARNING
	default:
		return logger.LEVEL_INFO
	}
}

func getDBConfig() types.DBConfig {
	return types.DBConfig{
		Host:        envOrDefault(ENV_PG_HOST, defaultPGHost),
		Port:        envOrDefault(ENV_PG_PORT, defaultPGPort),
		Database:    envOrDefault(ENV_PG_DATABASE, defaultPGDatabase),
		User:        envOrDefault(ENV_PG_USER, defaultPGUser),
		Password:    envOrDefault(ENV_PG_PASSWORD, defaultPGPassword),
		Timeout:     envIntOrDefault(ENV_PG_TIMEOUT, defaultPGTimeout),
		MaxPoolSize: int32(envIntOrDefault(ENV_PG_MAX_POOL_SIZE, defaultPGMaxPoolSize)),
	}
}

func getGeneratorConfig() types.GeneratorConfig {
	return types.GeneratorConfig{
		Enabled:         os.Getenv(ENV_TRAFFIC_GENERATOR_ENABLED) != "false",
		Interval:        envIntOrDefault(ENV_TRAFFIC_BATCH_INTERVAL, defaultBatchInterval),
		QueriesPerBatch: envIntOrDefault(ENV_TRAFFIC_QUERIES_PER_BATCH, defaultQueriesPerBatch),
	}
}

func envOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func envIntOrDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		logger.Error.Printf("%s: invalid value %q, using default %d", key, value, fallback)
		return fallback
	}
	return parsed
}
