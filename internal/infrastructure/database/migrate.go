package database

import (
	"bufio"
	"context"
	"embed"
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const (
	// MigrationsDir is where versioned scripts live inside the embedded FS
	MigrationsDir = "migrations"

	historyTable = "schema_history"

	// advisory lock key so concurrently starting instances migrate one at a time
	migrationLockKey int64 = 7_231_905_114

	typeSQL      = "SQL"
	typeBaseline = "BASELINE"
)

var scriptName = regexp.MustCompile(`^V(\d+)__(\w+)\.sql$`)

var (
	ErrChecksumMismatch = errors.New("migration checksum mismatch")
	ErrFailedMigration  = errors.New("schema history contains a failed migration")
	ErrNonEmptySchema   = errors.New("schema is not empty and has no history table")
)

// Migration is one versioned script, V<version>__<description>.sql
type Migration struct {
	Version     int
	Description string
	Script      string
	SQL         string
	Checksum    int32
}

// AppliedMigration is a row of the history table
type AppliedMigration struct {
	InstalledRank int
	Version       int
	Description   string
	Type          string
	Script        string
	Checksum      int32
	InstalledOn   time.Time
	ExecutionTime time.Duration
	Success       bool
}

// MigrateOptions mirrors the baseline settings of the config
type MigrateOptions struct {
	BaselineOnMigrate bool
	BaselineVersion   int
}

// Migrator applies pending scripts and records them in schema_history
type Migrator struct {
	pool   *pgxpool.Pool
	source fs.FS
	opts   MigrateOptions
}

// NewMigrator uses the scripts embedded in the binary
func NewMigrator(pool *pgxpool.Pool, opts MigrateOptions) *Migrator {
	return &Migrator{pool: pool, source: embeddedMigrations, opts: opts}
}

// ParseScriptName splits "V2__seed_sample_data.sql" into 2 and "seed sample data"
func ParseScriptName(name string) (int, string, error) {
	m := scriptName.FindStringSubmatch(name)
	if m == nil {
		return 0, "", fmt.Errorf("invalid migration file name %q, want V<version>__<description>.sql", name)
	}
	version, err := strconv.Atoi(m[1])
	if err != nil || version < 1 {
		return 0, "", fmt.Errorf("invalid migration version in %q", name)
	}
	return version, strings.ReplaceAll(m[2], "_", " "), nil
}

// Checksum is a CRC32 over the script's lines without line terminators,
// so CRLF and LF copies of a file agree.
func Checksum(sql string) int32 {
	h := crc32.NewIEEE()
	sc := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(sql, "\ufeff")))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		_, _ = h.Write([]byte(strings.TrimRight(sc.Text(), "\r")))
	}
	return int32(h.Sum32())
}

// LoadMigrations reads every script in dir, sorted by version
func LoadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	seen := make(map[int]string)
	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, desc, err := ParseScriptName(e.Name())
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", version, prev, e.Name())
		}
		seen[version] = e.Name()

		body, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		out = append(out, Migration{
			Version:     version,
			Description: desc,
			Script:      e.Name(),
			SQL:         string(body),
			Checksum:    Checksum(string(body)),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Pending returns the migrations not yet applied, after checking the history
// against the local scripts.
func Pending(local []Migration, applied []AppliedMigration) ([]Migration, error) {
	byVersion := make(map[int]Migration, len(local))
	for _, m := range local {
		byVersion[m.Version] = m
	}

	current := 0
	for _, a := range applied {
		if !a.Success {
			return nil, fmt.Errorf("%w: V%d (%s)", ErrFailedMigration, a.Version, a.Script)
		}
		if a.Version > current {
			current = a.Version
		}
		if a.Type != typeSQL {
			continue
		}
		m, ok := byVersion[a.Version]
		if !ok {
			log.Warn().
				Str("component", "migrate").
				Int("version", a.Version).
				Str("script", a.Script).
				Msg("applied migration not found locally")
			continue
		}
		if m.Checksum != a.Checksum {
			return nil, fmt.Errorf("%w: V%d applied %d, local %d", ErrChecksumMismatch, a.Version, a.Checksum, m.Checksum)
		}
	}

	var pending []Migration
	for _, m := range local {
		if m.Version > current {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Migrate applies every pending script, each in its own transaction,
// and returns how many were applied. A failing script stops the run and
// leaves no history row behind.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	local, err := LoadMigrations(m.source, MigrationsDir)
	if err != nil {
		return 0, err
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrationLockKey); err != nil {
		return 0, fmt.Errorf("failed to take migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, migrationLockKey); err != nil {
			log.Warn().Str("component", "migrate").Err(err).Msg("failed to release migration lock")
		}
	}()

	if err := m.prepareHistory(ctx, conn.Conn()); err != nil {
		return 0, err
	}

	applied, err := readHistory(ctx, conn.Conn())
	if err != nil {
		return 0, err
	}
	pending, err := Pending(local, applied)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		log.Info().Str("component", "migrate").Msg("schema is up to date")
		return 0, nil
	}

	for i, mig := range pending {
		if err := apply(ctx, conn.Conn(), mig); err != nil {
			return i, err
		}
	}
	return len(pending), nil
}

// Info returns the history rows, oldest first
func (m *Migrator) Info(ctx context.Context) ([]AppliedMigration, error) {
	var exists bool
	if err := m.pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, historyTable).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check history table: %w", err)
	}
	if !exists {
		return nil, nil
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()
	return readHistory(ctx, conn.Conn())
}

// prepareHistory creates the history table, baselining a schema that
// already has tables when allowed to.
func (m *Migrator) prepareHistory(ctx context.Context, conn *pgx.Conn) error {
	var exists bool
	if err := conn.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, historyTable).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check history table: %w", err)
	}
	if exists {
		return nil
	}

	var tables int
	err := conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM information_schema.tables
        WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'`).Scan(&tables)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if tables > 0 && !m.opts.BaselineOnMigrate {
		return fmt.Errorf("%w: enable baseline-on-migrate to adopt it", ErrNonEmptySchema)
	}

	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            CREATE TABLE `+historyTable+` (
                installed_rank  SERIAL PRIMARY KEY,
                version         INTEGER     NOT NULL,
                description     TEXT        NOT NULL,
                type            TEXT        NOT NULL,
                script          TEXT        NOT NULL,
                checksum        INTEGER,
                installed_on    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
                execution_time  INTEGER     NOT NULL,
                success         BOOLEAN     NOT NULL
            )`)
		if err != nil {
			return fmt.Errorf("failed to create history table: %w", err)
		}

		if tables == 0 {
			return nil
		}

		log.Info().
			Str("component", "migrate").
			Int("version", m.opts.BaselineVersion).
			Msg("baselining existing schema")
		_, err = tx.Exec(ctx, `
            INSERT INTO `+historyTable+` (version, description, type, script, checksum, execution_time, success)
            VALUES ($1, '<< Baseline >>', $2, '<< Baseline >>', NULL, 0, TRUE)`,
			m.opts.BaselineVersion, typeBaseline)
		if err != nil {
			return fmt.Errorf("failed to record baseline: %w", err)
		}
		return nil
	})
}

func readHistory(ctx context.Context, conn *pgx.Conn) ([]AppliedMigration, error) {
	rows, err := conn.Query(ctx, `
        SELECT installed_rank, version, description, type, script,
               COALESCE(checksum, 0), installed_on, execution_time, success
        FROM `+historyTable+`
        ORDER BY installed_rank`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema history: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (AppliedMigration, error) {
		var a AppliedMigration
		var execMillis int
		err := row.Scan(&a.InstalledRank, &a.Version, &a.Description, &a.Type, &a.Script,
			&a.Checksum, &a.InstalledOn, &execMillis, &a.Success)
		a.ExecutionTime = time.Duration(execMillis) * time.Millisecond
		return a, err
	})
}

func apply(ctx context.Context, conn *pgx.Conn, mig Migration) error {
	start := time.Now()

	err := pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, mig.SQL); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
            INSERT INTO `+historyTable+` (version, description, type, script, checksum, execution_time, success)
            VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
			mig.Version, mig.Description, typeSQL, mig.Script, mig.Checksum, time.Since(start).Milliseconds())
		return err
	})
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", mig.Script, err)
	}

	log.Info().
		Str("component", "migrate").
		Int("version", mig.Version).
		Str("script", mig.Script).
		Dur("elapsed", time.Since(start)).
		Msg("migration applied")
	return nil
}
