package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres stores forms in a single table with the schema as jsonb.
type Postgres struct {
	db  *sql.DB
	ddl execer
	now func() time.Time

	schemaMu    sync.Mutex
	schemaReady bool
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// schemaTimeout bounds table setup, which runs detached from the caller's
// cancellation.
const schemaTimeout = 10 * time.Second

const schemaDDL = `
CREATE TABLE IF NOT EXISTS fieldbuilder_forms (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  fields JSONB NOT NULL DEFAULT '[]'::jsonb,
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_fieldbuilder_forms_updated_at ON fieldbuilder_forms (updated_at DESC);
`

var _ Store = (*Postgres)(nil)

// OpenPostgres opens dsn through the pgx driver and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	return NewPostgres(db), nil
}

// NewPostgres wraps an open database.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, ddl: db, now: time.Now}
}

// ensureSchema creates the table on first use. A failed attempt is not
// remembered, so the next call retries.
func (p *Postgres) ensureSchema(ctx context.Context) error {
	p.schemaMu.Lock()
	defer p.schemaMu.Unlock()
	if p.schemaReady {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), schemaTimeout)
	defer cancel()
	if _, err := p.ddl.ExecContext(ctx, schemaDDL); err != nil {
		return err
	}
	p.schemaReady = true
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (Form, error) {
	var (
		form   Form
		fields []byte
	)
	if err := row.Scan(&form.ID, &form.Title, &fields, &form.UpdatedAt); err != nil {
		return Form{}, err
	}
	if err := json.Unmarshal(fields, &form.Schema); err != nil {
		return Form{}, fmt.Errorf("store: decode fields: %w", err)
	}
	form.UpdatedAt = form.UpdatedAt.UTC()
	return form, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (Form, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return Form{}, fmt.Errorf("store: ensure schema: %w", err)
	}
	row := p.db.QueryRowContext(ctx, `SELECT id, title, fields, updated_at
FROM fieldbuilder_forms WHERE id = $1`, strings.TrimSpace(id))
	form, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Form{}, ErrNotFound
	}
	if err != nil {
		return Form{}, fmt.Errorf("store: postgres get: %w", err)
	}
	return form, nil
}

func (p *Postgres) Put(ctx context.Context, form Form) (Form, error) {
	prepared, err := prepare(form, p.now())
	if err != nil {
		return Form{}, err
	}
	if err := p.ensureSchema(ctx); err != nil {
		return Form{}, fmt.Errorf("store: ensure schema: %w", err)
	}
	fields, err := json.Marshal(prepared.Schema)
	if err != nil {
		return Form{}, fmt.Errorf("store: encode fields: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
INSERT INTO fieldbuilder_forms (id, title, fields, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id)
DO UPDATE SET title=EXCLUDED.title,
  fields=EXCLUDED.fields,
  updated_at=EXCLUDED.updated_at`,
		prepared.ID, prepared.Title, string(fields), prepared.UpdatedAt)
	if err != nil {
		return Form{}, fmt.Errorf("store: postgres put: %w", err)
	}
	return prepared, nil
}

func (p *Postgres) List(ctx context.Context) ([]Form, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	rows, err := p.db.QueryContext(ctx, `SELECT id, title, fields, updated_at
FROM fieldbuilder_forms ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("store: postgres list: %w", err)
	}
	defer rows.Close()

	out := []Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("store: postgres list: %w", err)
		}
		out = append(out, form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: postgres list: %w", err)
	}
	return out, nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	if err := p.ensureSchema(ctx); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	res, err := p.db.ExecContext(ctx, `DELETE FROM fieldbuilder_forms WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("store: postgres delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: postgres delete: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
