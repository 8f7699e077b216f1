package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Ping verifies the database is reachable, giving up after 5s
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close releases every pooled connection. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	log.Info().Str("component", "database").Msg("closing connection pool")
	db.Pool.Close()
	db.Pool = nil
	return nil
}

// PoolStats is a snapshot of pool counters
type PoolStats struct {
	AcquireCount         int64
	AcquireDuration      time.Duration
	AcquiredConns        int32
	CanceledAcquireCount int64
	EmptyAcquireCount    int64
	IdleConns            int32
	MaxConns             int32
	TotalConns           int32
	NewConnsCount        int64
}

// Stats returns the current pool statistics
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquireCount:         raw.AcquireCount(),
		AcquireDuration:      raw.AcquireDuration(),
		AcquiredConns:        raw.AcquiredConns(),
		CanceledAcquireCount: raw.CanceledAcquireCount(),
		EmptyAcquireCount:    raw.EmptyAcquireCount(),
		IdleConns:            raw.IdleConns(),
		MaxConns:             raw.MaxConns(),
		TotalConns:           raw.TotalConns(),
		NewConnsCount:        raw.NewConnsCount(),
	}, nil
}

// Utilization is the share of MaxConns currently acquired, in percent
func (s *PoolStats) Utilization() float64 {
	if s.MaxConns == 0 {
		return 0
	}
	return float64(s.AcquiredConns) / float64(s.MaxConns) * 100
}

// AvgAcquireDuration is the mean time spent waiting for a connection
func (s *PoolStats) AvgAcquireDuration() time.Duration {
	if s.AcquireCount == 0 {
		return 0
	}
	return s.AcquireDuration / time.Duration(s.AcquireCount)
}

// MonitorPoolHealth logs a warning whenever the pool looks saturated.
// Blocks until ctx is done; run it in its own goroutine.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				log.Warn().Str("component", "database").Err(err).Msg("pool stats unavailable")
				continue
			}
			for _, w := range stats.Warnings() {
				log.Warn().Str("component", "database").Msg(w)
			}

		case <-ctx.Done():
			return
		}
	}
}

// Warnings lists the saturation symptoms present in s
func (s *PoolStats) Warnings() []string {
	var out []string
	if u := s.Utilization(); u > 80 {
		out = append(out, fmt.Sprintf("high pool utilization: %.1f%% (%d/%d)", u, s.AcquiredConns, s.MaxConns))
	}
	if avg := s.AvgAcquireDuration(); avg > 100*time.Millisecond {
		out = append(out, fmt.Sprintf("high acquire latency: %v", avg))
	}
	if s.AcquireCount > 0 {
		if rate := float64(s.CanceledAcquireCount) / float64(s.AcquireCount) * 100; rate > 5 {
			out = append(out, fmt.Sprintf("high acquire cancel rate: %.1f%%", rate))
		}
	}
	return out
}
