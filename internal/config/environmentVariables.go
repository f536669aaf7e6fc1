package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/c2h5oh/datasize"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"
	EXPORT_ID_KEY  = "exportId"

	RATE_LIMIT_PER_SECOND       = 5
	BURST_RATE_LIMIT_PER_SECOND = 10
	RateLimiterIdleTTL          = 10 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//export run requests buffer limit
	BufferLimit = 16

	// the caller waits at most this long for the worker to reach a group boundary
	CancelWaitTimeout = 5 * time.Second

	//image cache
	DefaultCacheBudget = "512MB"

	//scanner defaults
	DefaultScanResolution = 300
	DefaultScanBackend    = "files"

	//state persistence
	StateBackendFile   = "file"
	StateBackendRedis  = "redis"
	StateBackendMemory = "memory"
	stateDirName       = "scanflow_exports"
	TemplateDir        = "export_templates"

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisStateStore = 2

	//redis timeouts
	RedisStateStoreTTL = 7 * 24 * time.Hour
	RedisPingTimeout   = 3 * time.Second
	RedisReadTimeout   = 30 * time.Second
	RedisWriteTimeout  = 30 * time.Second
	RedisStateIndexKey = "scanflow:exports"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// LogLevel reads SCANFLOW_LOG_LEVEL (debug, info, warn, error).
func LogLevel() slog.Level {
	level := LOG_LEVEL_PROD
	if !IS_PROD {
		level = slog.LevelDebug
	}
	if raw, ok := os.LookupEnv("SCANFLOW_LOG_LEVEL"); ok {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			slog.Warn("invalid log level, using default", "value", raw, "error", err)
		}
	}
	return level
}

// JSONLogs is on in production or when SCANFLOW_LOG_FORMAT=json.
func JSONLogs() bool {
	return IS_PROD || GetEnv("SCANFLOW_LOG_FORMAT", "text") == "json"
}

func ListenAddr() string {
	return GetEnv("SCANFLOW_LISTEN_ADDR", ServerListenAddr)
}

func StateBackend() string {
	return GetEnv("SCANFLOW_STATE_BACKEND", StateBackendFile)
}

// StateDir is the well-known scratch location for resumable export state.
func StateDir() string {
	return GetEnv("SCANFLOW_STATE_DIR", filepath.Join(os.TempDir(), stateDirName))
}

func TemplateDirectory() string {
	return GetEnv("SCANFLOW_TEMPLATE_DIR", TemplateDir)
}

func AuthToken() string {
	return GetEnv("SCANFLOW_AUTH_TOKEN", "")
}

// NoAuthBypass skips bearer checks when no token is configured.
func NoAuthBypass() bool {
	return AuthToken() == ""
}

// CacheBudget returns the image cache budget in bytes.
func CacheBudget() int64 {
	raw := GetEnv("SCANFLOW_CACHE_BUDGET", DefaultCacheBudget)
	size, err := datasize.ParseString(raw)
	if err != nil {
		slog.Warn("invalid cache budget, using default", "value", raw, "error", err)
		size = datasize.MustParseString(DefaultCacheBudget)
	}
	return int64(size.Bytes())
}
