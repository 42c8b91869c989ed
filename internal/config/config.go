package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string

	ClickHouseDSN          string
	ClickHouseDatabase     string
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration

	NATSURL         string
	NATSConnTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string
	JoobleAPIKey  string

	SearchKeywords string
	SearchLocation string

	SyncIntervalHours int
	SyncWorkers       int
	DispatchTimeout   time.Duration
	SnapshotCacheTTL  time.Duration
	OTLPCollectorURL  string
	FetchTimeout      time.Duration
}

func LoadConfig() (*Config, error) {
	config := &Config{
		DatabaseURL: getEnvString("DATABASE_URL", "postgres://localhost:5432/talenthub?sslmode=disable"),

		ClickHouseDSN:          getEnvString("CLICKHOUSE_DSN", "127.0.0.1:9000"),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "talenthub"),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 5),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 2),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFETIME", time.Hour),

		NATSURL:         getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", time.Hour),

		AdzunaAppID:   getEnvString("ADZUNA_APP_ID", ""),
		AdzunaAppKey:  getEnvString("ADZUNA_APP_KEY", ""),
		AdzunaCountry: getEnvString("ADZUNA_COUNTRY", "us"),
		JoobleAPIKey:  getEnvString("JOOBLE_API_KEY", ""),

		SearchKeywords: getEnvString("SEARCH_KEYWORDS", "mortgage underwriter"),
		SearchLocation: getEnvString("SEARCH_LOCATION", "Dallas, TX"),

		SyncIntervalHours: getEnvInt("SYNC_INTERVAL_HOURS", 6),
		SyncWorkers:       getEnvInt("SYNC_WORKERS", 3),
		DispatchTimeout:   getEnvDuration("DISPATCH_TIMEOUT", 5*time.Second),
		SnapshotCacheTTL:  getEnvDuration("SNAPSHOT_CACHE_TTL", 5*time.Minute),
		OTLPCollectorURL:  getEnvString("OTLP_COLLECTOR_URL", ""),
		FetchTimeout:      getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
