package state

import (
	"database/sql"
	"time"

	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/persistence/database"
)

// Well-known app_state keys.
const (
	KeyActiveIdentityID = "current_user_id"
	KeyGroupID          = "group_id"
	KeyLegacyUserID     = "legacy_user_id"
	KeyLegacyUserName   = "legacy_user_name"
)

// SQLAppStateRepository is a small key-value store for the persisted
// pointers that are not roster rows: the active identity, the
// remembered group id, and the pre-roster legacy fields.
type SQLAppStateRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLAppStateRepository creates a new instance of the repository.
func NewSQLAppStateRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLAppStateRepository {
	return &SQLAppStateRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the value for a key; ok is false when the key is absent.
func (r *SQLAppStateRepository) Get(key string) (value string, ok bool, err error) {
	const query = `SELECT value FROM app_state WHERE key = ?`

	start := time.Now()
	err = r.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to load app state", "error", err.Error(), "key", key)
		return "", false, err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return value, true, nil
}

// Set upserts a key.
func (r *SQLAppStateRepository) Set(key, value string) error {
	const query = `INSERT INTO app_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	start := time.Now()
	if _, err := r.db.Exec(query, key, value); err != nil {
		r.logger.Database().Error("Failed to store app state", "error", err.Error(), "key", key)
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *SQLAppStateRepository) Delete(key string) error {
	const query = `DELETE FROM app_state WHERE key = ?`

	if _, err := r.db.Exec(query, key); err != nil {
		r.logger.Database().Error("Failed to delete app state", "error", err.Error(), "key", key)
		return err
	}
	return nil
}
