// Command mrtdump decodes MRT files and dumps their records as text or
// JSON, optionally filtering by prefix or AS path and forwarding decoded
// records to a postgres or kafka sink. Grounded on
// CSUNetSec-protoparse/cmd/gobgpdump's worker-per-file main loop,
// rebuilt on top of protocol/mrt.Reader and the DOMAIN STACK sinks.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/csunetsec/mrtdecode/filter"
	"github.com/csunetsec/mrtdecode/internal/config"
	"github.com/csunetsec/mrtdecode/internal/metrics"
	"github.com/csunetsec/mrtdecode/internal/sink"
	"github.com/csunetsec/mrtdecode/protocol/mrt"
)

func main() {
	cfgPath := flag.String("config", "", "path to a YAML config file (optional; all settings may be set via MRTDUMP_ env vars)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mrtdump: building logger: %s\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("mrtdump failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	metrics.Register()
	if cfg.Metrics.ListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.ListenAddr, mux); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()
	var sinks []recordSink
	if cfg.Postgres.DSN != "" {
		pool, err := sink.NewPostgresPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return fmt.Errorf("mrtdump: postgres sink: %w", err)
		}
		defer pool.Close()
		sinks = append(sinks, sink.NewPostgresSink(pool))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		ks, err := sink.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			return fmt.Errorf("mrtdump: kafka sink: %w", err)
		}
		defer ks.Close()
		sinks = append(sinks, ks)
	}

	filters, err := buildFilters(cfg.Filter)
	if err != nil {
		return err
	}
	fmtr, err := newFormatter(cfg.Output.Format)
	if err != nil {
		return err
	}

	out := os.Stdout
	if cfg.Output.Path != "-" && cfg.Output.Path != "" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("mrtdump: creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	files, err := inputFiles(cfg.Input.Path)
	if err != nil {
		return err
	}

	for _, path := range files {
		metrics.FilesInFlight.WithLabelValues().Inc()
		if err := dumpFile(ctx, path, filters, fmtr, sinks, out, logger); err != nil {
			logger.Error("dumping file", zap.String("path", path), zap.Error(err))
		}
		metrics.FilesInFlight.WithLabelValues().Dec()
	}
	return nil
}

// recordSink is the common surface both internal/sink implementations
// satisfy, letting run treat postgres and kafka interchangeably.
type recordSink interface {
	WriteBatch(ctx context.Context, recs []*mrt.Record) (int, error)
}

// sinkBatchSize bounds how many decoded records accumulate before being
// flushed to the configured sinks.
const sinkBatchSize = 500

// inputFiles resolves path to the list of files to decode: path itself
// if it names a file, or every regular file directly inside it if it
// names a directory.
func inputFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("mrtdump: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("mrtdump: reading dir %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	return files, nil
}

// dumpFile decodes every record in path, applies filters, writes the
// formatted survivors to out, and forwards them in batches to sinks.
func dumpFile(ctx context.Context, path string, filters []filter.Filter, fmtr Formatter, sinks []recordSink, out io.Writer, logger *zap.Logger) error {
	r, closer, err := mrt.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer closer.Close()

	var batch []*mrt.Record
	flush := func() {
		if len(batch) == 0 {
			return
		}
		for _, s := range sinks {
			if _, err := s.WriteBatch(ctx, batch); err != nil {
				logger.Error("sink write failed", zap.String("path", path), zap.Error(err))
			}
		}
		batch = batch[:0]
	}

	entryNum := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("scanning %s at entry %d: %w", path, entryNum, err)
		}
		entryNum++

		if rec.Err != nil {
			metrics.RecordsErrored.WithLabelValues(rec.Header.Type.Name).Inc()
			logger.Warn("record decode error", zap.String("path", path), zap.Int("entry", entryNum), zap.Error(rec.Err))
			continue
		}
		metrics.RecordsDecoded.WithLabelValues(rec.Header.Type.Name, rec.Header.SubtypeName).Inc()
		metrics.RecordBytes.WithLabelValues(rec.Header.Type.Name).Observe(float64(rec.Header.Length))

		if !filter.All(filters, rec) {
			metrics.RecordsSkipped.WithLabelValues(rec.Header.Type.Name).Inc()
			continue
		}

		output, err := fmtr.format(rec)
		if err != nil {
			logger.Warn("formatting record", zap.String("path", path), zap.Int("entry", entryNum), zap.Error(err))
			continue
		}
		if _, err := io.WriteString(out, output); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		if len(sinks) > 0 {
			batch = append(batch, rec)
			if len(batch) >= sinkBatchSize {
				flush()
			}
		}
	}
	flush()
	return nil
}
