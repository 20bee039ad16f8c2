// Package config reads recipecost settings from RECIPECOST_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"recipecost/internal/blob"
	"recipecost/internal/logger"
	"recipecost/internal/recordstore"
	"recipecost/pkg/domain"
)

// Prefix is prepended to every variable name.
const Prefix = "RECIPECOST_"

// Metrics exporters.
const (
	MetricsNone       = "none"
	MetricsExpvar     = "expvar"
	MetricsPrometheus = "prometheus"
)

// Files names the object holding each record type.
type Files struct {
	Ingredients string
	Recipes     string
	Meals       string
	Credentials string
}

// Config is the full runtime configuration.
type Config struct {
	Blob        blob.Config
	Codec       string
	Files       Files
	LogLevel    logger.Level
	Metrics     string
	MetricsAddr string
	TraceFile   string
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Blob:  blob.Config{Driver: blob.DriverFilesystem, FSRoot: "./kitchendata", SQLitePath: "recipecost.db"},
		Codec: recordstore.CodecGob,
		Files: Files{
			Ingredients: domain.IngredientsFile,
			Recipes:     domain.RecipesFile,
			Meals:       domain.MealsFile,
			Credentials: domain.CredentialsFile,
		},
		LogLevel:    logger.LevelNormal,
		Metrics:     MetricsNone,
		MetricsAddr: ":9464",
	}
}

// FromEnv overlays RECIPECOST_* variables on Default. A nil getenv reads
// the process environment.
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	get := func(key string) string { return strings.TrimSpace(getenv(Prefix + key)) }
	set := func(dst *string, key string) {
		if v := get(key); v != "" {
			*dst = v
		}
	}

	cfg := Default()
	if v := get("BLOB_DRIVER"); v != "" {
		cfg.Blob.Driver = blob.Driver(strings.ToLower(v))
	}
	set(&cfg.Blob.FSRoot, "BLOB_FS_ROOT")
	set(&cfg.Blob.S3.Bucket, "BLOB_S3_BUCKET")
	set(&cfg.Blob.S3.Region, "BLOB_S3_REGION")
	set(&cfg.Blob.S3.Endpoint, "BLOB_S3_ENDPOINT")
	cfg.Blob.S3.PathStyle = strings.EqualFold(get("BLOB_S3_PATH_STYLE"), "true")
	set(&cfg.Blob.SQLitePath, "SQLITE_PATH")
	set(&cfg.Blob.PostgresDSN, "POSTGRES_DSN")
	set(&cfg.Codec, "CODEC")
	set(&cfg.Files.Ingredients, "INGREDIENTS_FILE")
	set(&cfg.Files.Recipes, "RECIPES_FILE")
	set(&cfg.Files.Meals, "MEALS_FILE")
	set(&cfg.Files.Credentials, "CREDENTIALS_FILE")
	set(&cfg.Metrics, "METRICS")
	set(&cfg.MetricsAddr, "METRICS_ADDR")
	set(&cfg.TraceFile, "TRACE_FILE")
	if v := get("LOG_LEVEL"); v != "" {
		lvl, err := logger.ParseLevel(v)
		if err != nil {
			return cfg, err
		}
		cfg.LogLevel = lvl
	}
	cfg.Codec = strings.ToLower(cfg.Codec)
	cfg.Metrics = strings.ToLower(cfg.Metrics)
	return cfg, cfg.Validate()
}

// Validate rejects unknown drivers, codecs and exporters and missing backend settings.
func (c Config) Validate() error {
	var errs []error
	switch c.Blob.Driver {
	case blob.DriverFilesystem, blob.DriverMemory, blob.DriverSQLite, blob.DriverPostgres:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, fmt.Errorf("%sBLOB_S3_BUCKET is required for the s3 driver", Prefix))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob driver %q", c.Blob.Driver))
	}
	if c.Blob.Driver == blob.DriverPostgres && c.Blob.PostgresDSN == "" {
		errs = append(errs, fmt.Errorf("%sPOSTGRES_DSN is required for the postgres driver", Prefix))
	}
	if _, err := recordstore.CodecByName(c.Codec); err != nil {
		errs = append(errs, err)
	}
	switch c.Metrics {
	case MetricsNone, MetricsExpvar, MetricsPrometheus:
	default:
		errs = append(errs, fmt.Errorf("unknown metrics exporter %q", c.Metrics))
	}
	for name, v := range map[string]string{"ingredients": c.Files.Ingredients, "recipes": c.Files.Recipes, "meals": c.Files.Meals, "credentials": c.Files.Credentials} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s file name is empty", name))
		}
	}
	return errors.Join(errs...)
}
