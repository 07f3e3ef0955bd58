package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/futig/qagen/internal/telegram/state"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ state.Storage = &TelegramSettingsRepository{}

// TelegramSettingsRepository handles per-user bot settings persistence
type TelegramSettingsRepository struct {
	db *pgxpool.Pool
}

func NewTelegramSettingsRepository(db *pgxpool.Pool) *TelegramSettingsRepository {
	return &TelegramSettingsRepository{db: db}
}

// Get retrieves settings by user ID
func (r *TelegramSettingsRepository) Get(ctx context.Context, userID int64) (*state.Settings, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT settings FROM telegram_settings WHERE user_id = $1`, userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, state.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("query telegram settings: %w", err)
	}

	var s state.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshal telegram settings: %w", err)
	}
	s.UserID = userID

	return &s, nil
}

// Set upserts settings
func (r *TelegramSettingsRepository) Set(ctx context.Context, settings *state.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal telegram settings: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO telegram_settings (user_id, settings, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET settings = EXCLUDED.settings, updated_at = NOW()`,
		settings.UserID, raw,
	)
	if err != nil {
		return fmt.Errorf("upsert telegram settings: %w", err)
	}

	return nil
}

// Delete removes settings of a user
func (r *TelegramSettingsRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM telegram_settings WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete telegram settings: %w", err)
	}
	return nil
}
