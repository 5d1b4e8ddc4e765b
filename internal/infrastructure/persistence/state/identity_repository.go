// Package state provides the concrete SQL-based implementations of the
// locally persisted slices: the identity roster, the active identity
// pointer, pre-roster legacy fields, and the remembered group id.
package state

import (
	"database/sql"
	"time"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/identity"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/persistence/database"
)

// SQLIdentityRepository is the SQL-based implementation of the identity roster.
type SQLIdentityRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLIdentityRepository creates a new instance of the repository.
func NewSQLIdentityRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLIdentityRepository {
	return &SQLIdentityRepository{
		db:     db,
		logger: logger,
	}
}

// List returns the full roster ordered by registration time.
func (r *SQLIdentityRepository) List() (identity.Roster, error) {
	const query = `SELECT id, display_name FROM identities ORDER BY created_at, id`

	start := time.Now()
	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to load identity roster", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var roster identity.Roster
	for rows.Next() {
		var ident identity.Identity
		if err := rows.Scan(&ident.ID, &ident.DisplayName); err != nil {
			r.logger.Database().Error("Failed to scan identity row", "error", err.Error())
			return nil, err
		}
		roster = append(roster, ident)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return roster, nil
}

// Store saves a new identity to the roster.
func (r *SQLIdentityRepository) Store(ident identity.Identity) error {
	const query = `INSERT INTO identities (id, display_name, created_at) VALUES (?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing identity insert", "id", ident.ID)

	_, err := r.db.Exec(query, ident.ID, ident.DisplayName, time.Now().UTC())
	if err != nil {
		r.logger.Database().Error("Identity insert failed", "error", err.Error(), "id", ident.ID)
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// Find retrieves one identity by id. A missing identity maps to
// identity.ErrNotFound.
func (r *SQLIdentityRepository) Find(id string) (*identity.Identity, error) {
	const query = `SELECT id, display_name FROM identities WHERE id = ?`

	start := time.Now()
	var ident identity.Identity
	err := r.db.QueryRow(query, id).Scan(&ident.ID, &ident.DisplayName)
	if err == sql.ErrNoRows {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		r.logger.Database().Error("Failed to load identity", "error", err.Error(), "id", id)
		return nil, err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return &ident, nil
}

// DeleteAll wipes the roster. Used only by the dev-facing full reset.
func (r *SQLIdentityRepository) DeleteAll() error {
	const query = `DELETE FROM identities`

	_, err := r.db.Exec(query)
	if err != nil {
		r.logger.Database().Error("Identity roster wipe failed", "error", err.Error())
		return err
	}
	r.logger.Database().Info("Identity roster wiped")
	return nil
}
