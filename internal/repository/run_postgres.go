package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/qagen/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ RunRepository = &RunPostgres{}

// RunPostgres implements RunRepository using PostgreSQL
type RunPostgres struct {
	db *pgxpool.Pool
}

func NewRunPostgres(db *pgxpool.Pool) *RunPostgres {
	return &RunPostgres{db: db}
}

const runColumns = `id::text, filename, session, status, message, stats, artifacts, digest, created_at, updated_at`

func scanRun(row pgx.Row) (*entity.Run, error) {
	var r runRow
	if err := row.Scan(
		&r.ID, &r.Filename, &r.Session, &r.Status, &r.Message,
		&r.Stats, &r.Artifacts, &r.Digest, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return toEntityRun(&r)
}

func (r *RunPostgres) Create(ctx context.Context, run entity.Run) (*entity.Run, error) {
	if _, err := uuid.Parse(run.ID); err != nil {
		return nil, fmt.Errorf("parse run ID: %w", err)
	}

	row, err := toRunRow(&run)
	if err != nil {
		return nil, err
	}

	created, err := scanRun(r.db.QueryRow(ctx, `
		INSERT INTO runs (id, filename, session, status, message, stats, artifacts, digest, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING `+runColumns,
		row.ID, row.Filename, row.Session, row.Status, row.Message, row.Stats, row.Artifacts, row.Digest,
	))
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	return created, nil
}

func (r *RunPostgres) Update(ctx context.Context, run entity.Run) error {
	if _, err := uuid.Parse(run.ID); err != nil {
		return fmt.Errorf("parse run ID: %w", err)
	}

	row, err := toRunRow(&run)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE runs
		SET session = $2, status = $3, message = $4, stats = $5, artifacts = $6, digest = $7, updated_at = NOW()
		WHERE id = $1`,
		row.ID, row.Session, row.Status, row.Message, row.Stats, row.Artifacts, row.Digest,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrRunNotFound
	}

	return nil
}

func (r *RunPostgres) Get(ctx context.Context, id string) (*entity.Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrRunNotFound
	}

	run, err := scanRun(r.db.QueryRow(ctx, `SELECT `+runColumns+` FROM runs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrRunNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	return run, nil
}

func (r *RunPostgres) List(ctx context.Context, skip, limit int) ([]*entity.Run, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*entity.Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}
