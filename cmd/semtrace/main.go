// Copyright 2025 Certen Protocol
//
// semtrace: run an op list into a chained transcript, or replay a
// transcript against an independent verifier.
//
// Flag-based subcommands in the validator's own idiom (main.go parses
// flags directly with the standard library's flag package; the teacher
// never imports cobra, so neither does this).
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/certen/semtrace/internal/executor"
	"github.com/certen/semtrace/internal/trace"
	"github.com/certen/semtrace/internal/universe"
	"github.com/certen/semtrace/internal/verifier"
	"github.com/certen/semtrace/pkg/config"
	"github.com/certen/semtrace/pkg/metrics"
	"github.com/certen/semtrace/pkg/runid"
	"github.com/certen/semtrace/pkg/semlog"
	"github.com/certen/semtrace/pkg/universecfg"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := semlog.New(semlog.ParseLevel(cfg.LogLevel))

	switch os.Args[1] {
	case "run":
		runCmd(os.Args[2:], cfg, log)
	case "verify":
		verifyCmd(os.Args[2:], cfg, log)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: semtrace run [flags] | semtrace verify [flags]")
}

func bounds(cfg *config.Config) (universe.Bounds, error) {
	if cfg.UniverseConfigPath == "" {
		return universe.DefaultBounds(), nil
	}
	return universecfg.Load(cfg.UniverseConfigPath)
}

func runCmd(args []string, cfg *config.Config, log *semlog.Logger) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	inPath := fs.String("in", "-", "op list input path ('-' for stdin)")
	outPath := fs.String("out", "-", "transcript output path ('-' for stdout)")
	serveMetrics := fs.Bool("serve-metrics", false, "serve Prometheus metrics at the configured address while running")
	fs.Parse(args)

	var reg *metrics.Registry
	if *serveMetrics {
		reg = startMetricsServer(cfg, log)
	}

	b, err := bounds(cfg)
	if err != nil {
		log.Errorf("loading universe bounds: %v", err)
		os.Exit(1)
	}

	in, err := openInput(*inPath)
	if err != nil {
		log.Errorf("opening input: %v", err)
		os.Exit(1)
	}
	defer in.Close()

	input, err := trace.ReadInput(in)
	if err != nil {
		log.Errorf("reading op list: %v", err)
		if reg != nil {
			reg.RunsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		}
		os.Exit(1)
	}

	run := runid.New()
	log.Infof("run %s: executing %d ops", run, len(input.Ops))

	start := time.Now()
	ex := executor.New(b)
	records, summary, err := ex.Run(input.Ops)
	elapsed := time.Since(start)

	if reg != nil {
		reg.RunDuration.Observe(elapsed.Seconds())
		for _, rec := range records {
			reg.StepsTotal.WithLabelValues(rec.Op).Inc()
		}
		reg.ElidedStepsTotal.Add(float64(summary.ElidedSteps))
	}

	out, openErr := openOutput(*outPath)
	if openErr != nil {
		log.Errorf("opening output: %v", openErr)
		os.Exit(1)
	}
	defer out.Close()

	if writeErr := trace.WriteRecords(out, records); writeErr != nil {
		log.Errorf("writing transcript: %v", writeErr)
		os.Exit(1)
	}

	if err != nil {
		log.Errorf("run %s aborted after %d steps: %v", run, len(records), err)
		if reg != nil {
			reg.RunsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		}
		os.Exit(1)
	}

	log.Infof("run %s: committed %d steps (%d elided), final chain %s", run, len(records), summary.ElidedSteps, summary.FinalChainHex)
	if reg != nil {
		reg.RunsTotal.WithLabelValues("ok").Inc()
	}
}

func verifyCmd(args []string, cfg *config.Config, log *semlog.Logger) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	inPath := fs.String("in", "-", "transcript input path ('-' for stdin)")
	serveMetrics := fs.Bool("serve-metrics", false, "serve Prometheus metrics at the configured address while verifying")
	fs.Parse(args)

	var reg *metrics.Registry
	if *serveMetrics {
		reg = startMetricsServer(cfg, log)
	}

	b, err := bounds(cfg)
	if err != nil {
		log.Errorf("loading universe bounds: %v", err)
		os.Exit(1)
	}

	in, err := openInput(*inPath)
	if err != nil {
		log.Errorf("opening input: %v", err)
		os.Exit(1)
	}
	defer in.Close()

	records, err := trace.ReadRecords(in)
	if err != nil {
		log.Errorf("reading transcript: %v", err)
		os.Exit(1)
	}

	result, err := verifier.Verify(records, b)
	if err != nil {
		log.Errorf("replay error: %v", err)
		os.Exit(1)
	}

	if reg != nil {
		if result.Valid {
			reg.VerifyTotal.WithLabelValues("valid").Inc()
		} else {
			reg.VerifyTotal.WithLabelValues("invalid").Inc()
		}
	}

	if result.Valid {
		fmt.Println("VALID")
		return
	}
	fmt.Printf("INVALID at step %d: field %q want %s got %s\n", result.FailedStep, result.Field, result.Want, result.Got)
	os.Exit(1)
}

func startMetricsServer(cfg *config.Config, log *semlog.Logger) *metrics.Registry {
	reg := prometheus.NewRegistry()
	m := metrics.NewRegistry(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		log.Infof("serving metrics on %s", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Errorf("metrics server: %v", err)
		}
	}()
	return m
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, trace.ErrEmptySet):
		return "empty_set"
	case errors.Is(err, trace.ErrParse):
		return "parse_error"
	case errors.Is(err, trace.ErrSchema):
		return "schema_error"
	default:
		return "error"
	}
}

func openInput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

func openOutput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdout, nil
	}
	return os.Create(path)
}
