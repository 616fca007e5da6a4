// Package campaigns persists assembled campaigns as JSON payloads with
// queryable identity columns.
package campaigns

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/campaignforge/campaignforge-go/internal/domain/entities/campaign"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
)

// ErrNotFound is returned when a campaign ID has no row.
var ErrNotFound = fmt.Errorf("campaign not found")

// Repository stores campaigns in the campaigns table.
type Repository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

// NewRepository creates a campaign repository over an open connection.
func NewRepository(db *sql.DB, logger *logging.ChanneledLogger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Save upserts a campaign keyed by ID.
func (r *Repository) Save(ctx context.Context, c *campaign.Campaign) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign %s: %w", c.ID, err)
	}

	const query = `
	INSERT INTO campaigns (id, user_id, name, status, payload, created_at, changed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		status = excluded.status,
		payload = excluded.payload,
		changed_at = excluded.changed_at`

	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Name, string(c.Status), string(payload), c.CreatedAt, c.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to save campaign %s: %w", c.ID, err)
	}

	if r.logger != nil {
		r.logger.Database().Info("Campaign saved", "campaignId", c.ID, "userId", c.UserID, "status", string(c.Status))
	}
	return nil
}

// GetByID loads one campaign, returning ErrNotFound when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*campaign.Campaign, error) {
	const query = `SELECT payload FROM campaigns WHERE id = ?`

	var payload string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign %s: %w", id, err)
	}

	var c campaign.Campaign
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal campaign %s: %w", id, err)
	}
	return &c, nil
}

// ListByUser returns a user's campaigns, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*campaign.Campaign, error) {
	const query = `SELECT payload FROM campaigns WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns for user %s: %w", userID, err)
	}
	defer rows.Close()

	var result []*campaign.Campaign
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan campaign row: %w", err)
		}
		var c campaign.Campaign
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal campaign row: %w", err)
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}
