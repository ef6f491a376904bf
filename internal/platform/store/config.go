package store

import (
	"time"

	"pfascheck/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG    PGConfig
	Mongo MongoConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot guard: pings with backoff; an unreachable server is logged and the adapter kept
	ConnectRetries int           // default 6
	PingTimeout    time.Duration // default 3s
}

// MongoConfig configures the document store holding contamination records
type MongoConfig struct {
	Enabled        bool
	URI            string
	Database       string
	ConnectTimeout time.Duration
	LogCommands    bool
}

// PGFromEnv reads SERVICE_PGSQL_* style keys from a scoped config; URL is required
func PGFromEnv(c config.Conf) PGConfig {
	return PGConfig{
		Enabled:        true,
		URL:            c.MustString("DBURL"),
		MaxConns:       int32(c.MayInt("MAX_CONNS", 4)),
		LogSQL:         c.MayBool("LOG_SQL", false),
		SlowQueryMs:    c.MayInt("SLOW_MS", 500),
		ConnectRetries: c.MayInt("CONNECT_RETRIES", 6),
		PingTimeout:    c.MayDuration("PING_TIMEOUT", 3*time.Second),
	}
}

// MongoFromEnv reads SERVICE_MONGO_* style keys from a scoped config; URI and DB are required
func MongoFromEnv(c config.Conf) MongoConfig {
	return MongoConfig{
		Enabled:        true,
		URI:            c.MustString("URI"),
		Database:       c.MustString("DB"),
		ConnectTimeout: c.MayDuration("CONNECT_TIMEOUT", 10*time.Second),
		LogCommands:    c.MayBool("LOG_COMMANDS", false),
	}
}

// Backend names accepted by FromEnv
const (
	BackendPG    = "pg"
	BackendMongo = "mongo"
)

// FromEnv enables only the named backends, reading SERVICE_PGSQL_* and SERVICE_MONGO_*
// from root; required keys of an enabled backend panic when missing
func FromEnv(root config.Conf, appName string, backends ...string) Config {
	cfg := Config{AppName: appName}
	for _, b := range backends {
		switch b {
		case BackendPG:
			cfg.PG = PGFromEnv(root.Prefix("SERVICE_PGSQL_"))
		case BackendMongo:
			cfg.Mongo = MongoFromEnv(root.Prefix("SERVICE_MONGO_"))
		}
	}
	return cfg
}
