package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ConfigStore resolves and mutates admin-tunable reward rules.
// Values are always read fresh at the moment of the triggering event so
// admin changes take effect immediately; nothing is cached.
type ConfigStore interface {
	Get(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value int) error
	List(ctx context.Context) ([]CreditConfig, error)
}

type configStore struct {
	db *sqlx.DB
}

func NewConfigStore(db *sqlx.DB) ConfigStore {
	return &configStore{db: db}
}

func (s *configStore) Get(ctx context.Context, key string) (int, error) {
	var value int
	err := s.db.GetContext(ctx, &value, `
		SELECT config_value FROM credit_configs WHERE config_key = $1
	`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrConfigNotFound, key)
	}
	if err != nil {
		return 0, fmt.Errorf("get config %s: %w", key, err)
	}
	return value, nil
}

func (s *configStore) Set(ctx context.Context, key string, value int) error {
	if value < 0 {
		return ErrInvalidConfigValue
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credit_configs (config_key, config_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (config_key) DO UPDATE
		SET config_value = EXCLUDED.config_value, updated_at = now()
	`, key, value)
	if err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}

func (s *configStore) List(ctx context.Context) ([]CreditConfig, error) {
	configs := make([]CreditConfig, 0)
	err := s.db.SelectContext(ctx, &configs, `
		SELECT config_key, config_value, updated_at
		FROM credit_configs
		ORDER BY config_key
	`)
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	return configs, nil
}
