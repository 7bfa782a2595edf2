package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS records (
		id                TEXT PRIMARY KEY,
		domain            TEXT NOT NULL,
		scale             TEXT NOT NULL,
		stakeholder_count INTEGER NOT NULL,
		constraint_count  INTEGER NOT NULL,
		option_count      INTEGER NOT NULL,
		keywords          TEXT NOT NULL,
		trade_off_types   TEXT NOT NULL,
		fingerprint_hash  TEXT NOT NULL,
		fp_created_at     TEXT NOT NULL,
		summary           TEXT NOT NULL,
		chosen_option     TEXT NOT NULL,
		outcome           TEXT NOT NULL,
		lessons           TEXT,
		decided_at        TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_domain  ON records(domain);
	CREATE INDEX IF NOT EXISTS idx_records_decided ON records(decided_at);
`

// SQLiteRepo persists corpus records in an embedded SQLite database.
// The driver is cgo-free, so the binary stays a single static artifact.
type SQLiteRepo struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and runs migrations.
func NewSQLite(path string) (*SQLiteRepo, error) {
	if path == "" {
		return nil, fmt.Errorf("corpus database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create corpus directory: %w", err)
		}
	}

	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open corpus database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := sdb.Exec(p); err != nil {
			sdb.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if _, err := sdb.Exec(sqliteSchema); err != nil {
		sdb.Close()
		return nil, fmt.Errorf("migrate corpus schema: %w", err)
	}

	return &SQLiteRepo{db: sdb}, nil
}

// Save stores a record, replacing any previous version with the same id.
func (r *SQLiteRepo) Save(ctx context.Context, rec record.Record) error {
	dto := recordToDTO(rec)

	keywords, err := json.Marshal(dto.Fingerprint.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	tradeOffs, err := json.Marshal(dto.Fingerprint.TradeOffTypes)
	if err != nil {
		return fmt.Errorf("marshal trade-offs: %w", err)
	}
	lessons, err := json.Marshal(dto.Lessons)
	if err != nil {
		return fmt.Errorf("marshal lessons: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO records (
			id, domain, scale, stakeholder_count, constraint_count, option_count,
			keywords, trade_off_types, fingerprint_hash, fp_created_at,
			summary, chosen_option, outcome, lessons, decided_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			domain            = excluded.domain,
			scale             = excluded.scale,
			stakeholder_count = excluded.stakeholder_count,
			constraint_count  = excluded.constraint_count,
			option_count      = excluded.option_count,
			keywords          = excluded.keywords,
			trade_off_types   = excluded.trade_off_types,
			fingerprint_hash  = excluded.fingerprint_hash,
			fp_created_at     = excluded.fp_created_at,
			summary           = excluded.summary,
			chosen_option     = excluded.chosen_option,
			outcome           = excluded.outcome,
			lessons           = excluded.lessons,
			decided_at        = excluded.decided_at`,
		dto.ID, dto.Fingerprint.Domain, dto.Fingerprint.Scale,
		dto.Fingerprint.StakeholderCount, dto.Fingerprint.ConstraintCount, dto.Fingerprint.OptionCount,
		string(keywords), string(tradeOffs), dto.Fingerprint.Hash,
		dto.Fingerprint.CreatedAt.UTC().Format(time.RFC3339Nano),
		dto.Summary, dto.ChosenOption, dto.Outcome, string(lessons),
		dto.DecidedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", dto.ID, err)
	}
	return nil
}

// Get retrieves a record by id.
func (r *SQLiteRepo) Get(ctx context.Context, id string) (record.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, domain, scale, stakeholder_count, constraint_count, option_count,
		       keywords, trade_off_types, fingerprint_hash, fp_created_at,
		       summary, chosen_option, outcome, lessons, decided_at
		FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record.Record{}, domain.ErrRecordNotFound
		}
		return record.Record{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return rec, nil
}

// List returns all parseable records ordered by decision time.
// Rows that fail to scan or decode are skipped.
func (r *SQLiteRepo) List(ctx context.Context) ([]record.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, domain, scale, stakeholder_count, constraint_count, option_count,
		       keywords, trade_off_types, fingerprint_hash, fp_created_at,
		       summary, chosen_option, outcome, lessons, decided_at
		FROM records ORDER BY decided_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// Ping checks the database is reachable.
func (r *SQLiteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying database.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (record.Record, error) {
	var dto recordDTO
	var keywords, tradeOffs, lessons string
	var fpCreatedAt, decidedAt string

	err := row.Scan(
		&dto.ID, &dto.Fingerprint.Domain, &dto.Fingerprint.Scale,
		&dto.Fingerprint.StakeholderCount, &dto.Fingerprint.ConstraintCount, &dto.Fingerprint.OptionCount,
		&keywords, &tradeOffs, &dto.Fingerprint.Hash, &fpCreatedAt,
		&dto.Summary, &dto.ChosenOption, &dto.Outcome, &lessons, &decidedAt,
	)
	if err != nil {
		return record.Record{}, err
	}

	if err := json.Unmarshal([]byte(keywords), &dto.Fingerprint.Keywords); err != nil {
		return record.Record{}, fmt.Errorf("parse keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(tradeOffs), &dto.Fingerprint.TradeOffTypes); err != nil {
		return record.Record{}, fmt.Errorf("parse trade-offs: %w", err)
	}
	if lessons != "" {
		if err := json.Unmarshal([]byte(lessons), &dto.Lessons); err != nil {
			return record.Record{}, fmt.Errorf("parse lessons: %w", err)
		}
	}
	if dto.Fingerprint.CreatedAt, err = time.Parse(time.RFC3339Nano, fpCreatedAt); err != nil {
		return record.Record{}, fmt.Errorf("parse fingerprint timestamp: %w", err)
	}
	if dto.DecidedAt, err = time.Parse(time.RFC3339Nano, decidedAt); err != nil {
		return record.Record{}, fmt.Errorf("parse decision timestamp: %w", err)
	}

	return dtoToRecord(dto)
}
