// Recipecost is a console bookkeeper for ingredient prices, recipe costs and
// meal plans.
//
// Usage:
//
//	recipecost [-verbose] [-quiet] [-driver fs|memory|s3|sqlite|postgres] [-codec gob|json]
//
// Settings are read from RECIPECOST_* environment variables (a .env file in
// the working directory is loaded first) and may be overridden by flags.
package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipecost/internal/blob"
	"recipecost/internal/config"
	"recipecost/internal/console"
	"recipecost/internal/core"
	"recipecost/internal/logger"
	"recipecost/internal/observability"
	"recipecost/internal/recordstore"
)

const defaultLogFile = ".recipecost-logs/recipecost.log"

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

// run wires the application and blocks until the console exits.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	cfg, err := config.FromEnv(getenv)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("recipecost", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("verbose", false, "enable verbose/debug logging")
	quiet := fs.Bool("quiet", false, "disable all logging")
	logFile := fs.String("log-file", defaultLogFile, "file to write logs to (use \"stderr\" to log to console)")
	driver := fs.String("driver", string(cfg.Blob.Driver), "blob driver: fs, memory, s3, sqlite or postgres")
	fs.StringVar(&cfg.Blob.FSRoot, "fs-root", cfg.Blob.FSRoot, "data directory for the fs driver")
	fs.StringVar(&cfg.Blob.SQLitePath, "sqlite-path", cfg.Blob.SQLitePath, "database file for the sqlite driver")
	fs.StringVar(&cfg.Codec, "codec", cfg.Codec, "record codec: gob or json")
	fs.StringVar(&cfg.Metrics, "metrics", cfg.Metrics, "metrics exporter: none, expvar or prometheus")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "listen address for the metrics endpoint")
	fs.StringVar(&cfg.TraceFile, "trace-file", cfg.TraceFile, "append store operation traces as JSON lines to this file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	cfg.Blob.Driver = blob.Driver(*driver)
	if *verbose {
		cfg.LogLevel = logger.LevelVerbose
	}
	if *quiet {
		cfg.LogLevel = logger.LevelOff
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}

	// Logs go to a file by default so the menus stay readable.
	var logOut io.Writer = stderr
	if *logFile != "" && *logFile != "stderr" {
		f, err := openAppend(*logFile)
		if err != nil {
			fmt.Fprintf(stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)
	log := logger.New(cfg.LogLevel, logOut)

	store, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		log.Error("open %s store: %v", cfg.Blob.Driver, err)
		fmt.Fprintf(stderr, "open store: %v\n", err)
		return 1
	}
	defer func() {
		if err := blob.Close(store); err != nil {
			log.Error("close store: %v", err)
		}
	}()

	codec, _ := recordstore.CodecByName(cfg.Codec)
	opts := []recordstore.Option{recordstore.WithCodec(codec), recordstore.WithLogger(log)}

	metrics, path, handler, err := newMetrics(cfg.Metrics)
	if err != nil {
		fmt.Fprintf(stderr, "metrics: %v\n", err)
		return 1
	}
	opts = append(opts, recordstore.WithMetrics(metrics))
	if handler != nil {
		shutdown, err := serveMetrics(cfg.MetricsAddr, path, handler, log)
		if err != nil {
			fmt.Fprintf(stderr, "metrics: %v\n", err)
			return 1
		}
		defer shutdown()
	}

	if cfg.TraceFile != "" {
		f, err := openAppend(cfg.TraceFile)
		if err != nil {
			fmt.Fprintf(stderr, "trace: %v\n", err)
			return 1
		}
		defer f.Close()
		opts = append(opts, recordstore.WithTracer(observability.NewJSONTracer(f)))
	}

	rs := recordstore.New(store, opts...)
	log.Info("recipecost started (driver=%s codec=%s metrics=%s)", store.Driver(), codec.Name(), cfg.Metrics)

	colOpts := []core.Option{core.WithOutput(stdout), core.WithLogger(log)}
	cols := console.Collections{
		Ingredients: core.NewIngredients(rs, colOpts...),
		Recipes:     core.NewRecipes(rs, colOpts...),
		Meals:       core.NewMeals(rs, colOpts...),
		Credentials: core.NewCredentials(rs, colOpts...),
	}
	if err := console.New(stdin, stdout, cols, cfg.Files, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("console: %v", err)
		return 1
	}
	return 0
}

func openAppend(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// newMetrics returns the recorder for exporter and the path and handler
// exposing it. The handler is nil when nothing is exported.
func newMetrics(exporter string) (observability.MetricsRecorder, string, http.Handler, error) {
	switch exporter {
	case config.MetricsExpvar:
		return observability.NewExpvarMetricsRecorder(""), "/debug/vars", expvar.Handler(), nil
	case config.MetricsPrometheus:
		reg := prometheus.NewRegistry()
		rec, err := observability.NewPrometheusRecorder(reg)
		if err != nil {
			return nil, "", nil, err
		}
		return rec, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), nil
	}
	return observability.NoopMetrics{}, "", nil, nil
}

func serveMetrics(addr, path string, handler http.Handler, log *logger.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server: %v", err)
		}
	}()
	log.Info("metrics listening on %s%s", ln.Addr(), path)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
