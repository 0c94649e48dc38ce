package jobs

import (
	"context"
	"database/sql"
	"errors"
)

const (
	settingJobTitle       = "job_title"
	settingJobDescription = "job_description"
)

// PGRepo persists the job spec in the app_settings key/value table.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context) (Spec, error) {
	spec := DefaultSpec()

	title, err := r.getSetting(ctx, settingJobTitle)
	if err != nil {
		return Spec{}, err
	}
	description, err := r.getSetting(ctx, settingJobDescription)
	if err != nil {
		return Spec{}, err
	}

	if title != "" {
		spec.Title = title
	}
	if description != "" {
		spec.Description = description
	}
	return spec, nil
}

func (r *PGRepo) Put(ctx context.Context, spec Spec) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := putSetting(ctx, tx, settingJobTitle, spec.Title); err != nil {
		return err
	}
	if err := putSetting(ctx, tx, settingJobDescription, spec.Description); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepo) getSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.DB.QueryRowContext(ctx,
		`SELECT value FROM app_settings WHERE key = $1`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func putSetting(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO app_settings (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}
