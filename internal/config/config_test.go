package config

import (
	"strings"
	"testing"

	"recipecost/internal/blob"
	"recipecost/internal/logger"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Blob.Driver != blob.DriverFilesystem || cfg.Blob.FSRoot != "./kitchendata" || cfg.Codec != "gob" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Files.Ingredients != "ingredients.bin" || cfg.Files.Credentials != "register.bin" {
		t.Fatalf("unexpected file names %+v", cfg.Files)
	}
	if cfg.LogLevel != logger.LevelNormal || cfg.Metrics != MetricsNone {
		t.Fatalf("unexpected ambient defaults %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"RECIPECOST_BLOB_DRIVER":        "S3",
		"RECIPECOST_BLOB_S3_BUCKET":     "pantry",
		"RECIPECOST_BLOB_S3_ENDPOINT":   "http://minio:9000",
		"RECIPECOST_BLOB_S3_PATH_STYLE": "true",
		"RECIPECOST_CODEC":              "JSON",
		"RECIPECOST_MEALS_FILE":         "dinners.ndjson",
		"RECIPECOST_LOG_LEVEL":          "verbose",
		"RECIPECOST_METRICS":            "prometheus",
		"RECIPECOST_METRICS_ADDR":       "127.0.0.1:9100",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Blob.Driver != blob.DriverS3 || cfg.Blob.S3.Bucket != "pantry" || !cfg.Blob.S3.PathStyle || cfg.Blob.S3.Endpoint != "http://minio:9000" {
		t.Fatalf("unexpected blob config %+v", cfg.Blob)
	}
	if cfg.Codec != "json" || cfg.Files.Meals != "dinners.ndjson" || cfg.Files.Recipes != "recipes.bin" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel != logger.LevelVerbose || cfg.Metrics != MetricsPrometheus || cfg.MetricsAddr != "127.0.0.1:9100" {
		t.Fatalf("unexpected ambient config %+v", cfg)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown blob driver":        {"RECIPECOST_BLOB_DRIVER": "tape"},
		"BLOB_S3_BUCKET is required": {"RECIPECOST_BLOB_DRIVER": "s3"},
		"POSTGRES_DSN is required":   {"RECIPECOST_BLOB_DRIVER": "postgres"},
		"unknown codec":              {"RECIPECOST_CODEC": "xml"},
		"unknown metrics exporter":   {"RECIPECOST_METRICS": "statsd"},
		"unknown log level":          {"RECIPECOST_LOG_LEVEL": "shout"},
	}
	for want, env := range cases {
		_, err := FromEnv(envMap(env))
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("env %v: expected %q, got %v", env, want, err)
		}
	}
	cfg := Default()
	cfg.Files.Meals = " "
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "meals file name is empty") {
		t.Fatalf("expected empty file name error, got %v", err)
	}
}

func TestFromEnvProcessEnvironment(t *testing.T) {
	t.Setenv("RECIPECOST_BLOB_DRIVER", "memory")
	cfg, err := FromEnv(nil)
	if err != nil || cfg.Blob.Driver != blob.DriverMemory {
		t.Fatalf("expected memory driver from process env: %+v %v", cfg, err)
	}
}
