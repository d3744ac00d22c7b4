// Package sink holds optional output destinations for decoded MRT
// records: postgres (this file) and kafka. Grounded on
// pobradovic08-route-beacon-ri/internal/db/pool.go and
// internal/history/writer.go's batch-insert pattern.
package sink

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csunetsec/mrtdecode/internal/metrics"
	"github.com/csunetsec/mrtdecode/protocol/mrt"
)

// NewPostgresPool opens a connection pool to dsn, pinging it before
// returning so startup fails fast on a bad connection string.
func NewPostgresPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("sink: parsing postgres dsn: %w", err)
	}
	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sink: creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("sink: pinging postgres: %w", err)
	}
	return pool, nil
}

// PostgresSink batches decoded records into the mrt_records table.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

const insertRecordSQL = `
	INSERT INTO mrt_records (record_id, ts, mrt_type, mrt_subtype, collector, body)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (record_id) DO NOTHING`

// WriteBatch inserts recs as a single pipelined batch, skipping any
// record that already failed to decode (rec.Err != nil).
func (s *PostgresSink) WriteBatch(ctx context.Context, recs []*mrt.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	queued := 0
	for _, rec := range recs {
		if rec.Err != nil {
			continue
		}
		body, err := json.Marshal(rec.Body)
		if err != nil {
			metrics.SinkWriteErrors.WithLabelValues("postgres").Inc()
			continue
		}
		id := recordID(rec, body)
		var collector any
		if c := mrt.GetCollector(rec); c != nil {
			collector = c.String()
		}
		batch.Queue(insertRecordSQL,
			id[:],
			mrt.GetTimestamp(rec),
			rec.Header.Type.Name,
			rec.Header.SubtypeName,
			collector,
			body,
		)
		queued++
	}
	if queued == 0 {
		return 0, nil
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for i := 0; i < queued; i++ {
		tag, err := results.Exec()
		if err != nil {
			metrics.SinkWriteErrors.WithLabelValues("postgres").Inc()
			return inserted, fmt.Errorf("sink: insert mrt_records[%d]: %w", i, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// recordID derives a stable dedup key from the record's header and
// encoded body, so re-ingesting the same MRT file is a no-op.
func recordID(rec *mrt.Record, body []byte) [32]byte {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%s:%s:", rec.Header.Timestamp, rec.Header.Type.Name, rec.Header.SubtypeName)
	h.Write(body)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
