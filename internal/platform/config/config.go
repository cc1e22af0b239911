// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/hello-metrics/internal/platform/logging"
	"github.com/janisto/hello-metrics/internal/platform/metrics"
	"github.com/janisto/hello-metrics/internal/platform/timeutil"
)

const defaultPort = "8080"

// Config is the complete runtime configuration.
type Config struct {
	Port        string
	ProjectID   string
	CORSOrigins []string
	Log         logging.Options
	Metrics     metrics.Options
}

// Addr returns the listen address for http.Server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Port:        defaultPort,
		CORSOrigins: []string{"*"},
		Log:         logging.DefaultOptions(),
		Metrics:     metrics.DefaultOptions(),
	}
}

// Load reads the given .env files (".env" when none are named) without
// overriding variables already present, then builds a Config from the
// environment. Missing .env files are ignored. All invalid values are
// reported together.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config using lookup to read variables.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	boolVar := func(key string, dst *bool) {
		v, ok := get(key)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}

	if v, ok := get("PORT"); ok {
		if n, err := strconv.Atoi(v); err != nil || n < 0 || n > 65535 {
			errs = append(errs, fmt.Errorf("PORT: invalid port %q", v))
		} else {
			cfg.Port = v
		}
	}
	cfg.ProjectID = firstSet(get, "GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT", "PROJECT_ID")
	cfg.Log.ProjectID = cfg.ProjectID
	if v, ok := get("CORS_ALLOWED_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}

	if v, ok := get("LOG_LEVEL"); ok {
		level, err := zapcore.ParseLevel(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		} else {
			cfg.Log.Level = level
		}
	}
	if v, ok := get("LOG_OUTPUT"); ok {
		cfg.Log.OutputPaths = splitList(v)
	}
	if v, ok := get("LOG_ENCODING"); ok {
		switch v {
		case "json", "console":
			cfg.Log.Encoding = v
		default:
			errs = append(errs, fmt.Errorf("LOG_ENCODING: unsupported encoding %q", v))
		}
	}
	if v, ok := get("LOG_TIME_FORMAT"); ok {
		layout, err := timeutil.ResolveLayout(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOG_TIME_FORMAT: %w", err))
		} else {
			cfg.Log.TimeLayout = layout
		}
	}

	if v, ok := get("METRICS_PATH"); ok {
		if !strings.HasPrefix(v, "/") || v == "/" {
			errs = append(errs, fmt.Errorf("METRICS_PATH: %q must be an absolute path other than /", v))
		} else {
			cfg.Metrics.MetricsPath = v
		}
	}
	boolVar("METRICS_INCLUDE_METHOD", &cfg.Metrics.IncludeMethod)
	boolVar("METRICS_INCLUDE_PATH", &cfg.Metrics.IncludePath)
	boolVar("METRICS_INCLUDE_STATUS_CODE", &cfg.Metrics.IncludeStatusCode)
	boolVar("METRICS_DEFAULT_COLLECTORS", &cfg.Metrics.CollectDefaultMetrics)
	if v, ok := get("METRICS_NAMESPACE"); ok {
		cfg.Metrics.Namespace = v
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func firstSet(get func(string) (string, bool), keys ...string) string {
	for _, key := range keys {
		if v, ok := get(key); ok {
			return v
		}
	}
	return ""
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
