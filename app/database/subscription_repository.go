package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubscriptionRepository handles database operations for subscriptions.
type SubscriptionRepository struct {
	db *DB
}

func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// List returns all subscriptions.
func (r *SubscriptionRepository) List() ([]Subscription, error) {
	rows, err := r.db.Query(`
		SELECT id, name, platform, source_url, account_id, owner_id, last_synced_at, created_at
		FROM subscriptions
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subscriptions []Subscription
	for rows.Next() {
		var sub Subscription
		var lastSynced sql.NullTime
		err := rows.Scan(&sub.ID, &sub.Name, &sub.Platform, &sub.SourceURL,
			&sub.AccountID, &sub.OwnerID, &lastSynced, &sub.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		if lastSynced.Valid {
			sub.LastSyncedAt = &lastSynced.Time
		}
		subscriptions = append(subscriptions, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}

	return subscriptions, nil
}

// Upsert inserts a subscription or updates an existing one keyed by its
// source URL. Used when seeding subscriptions at startup.
func (r *SubscriptionRepository) Upsert(sub Subscription) (string, error) {
	var id string
	err := r.db.QueryRow(`SELECT id FROM subscriptions WHERE source_url = ?`, sub.SourceURL).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		id = uuid.NewString()
		_, err = r.db.Exec(`
			INSERT INTO subscriptions (id, name, platform, source_url, account_id, owner_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, sub.Name, sub.Platform, sub.SourceURL, sub.AccountID, sub.OwnerID)
		if err != nil {
			return "", fmt.Errorf("failed to insert subscription: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("failed to check existing subscription: %w", err)
	default:
		_, err = r.db.Exec(`
			UPDATE subscriptions
			SET name = ?, platform = ?, account_id = ?, owner_id = ?
			WHERE id = ?
		`, sub.Name, sub.Platform, sub.AccountID, sub.OwnerID, id)
		if err != nil {
			return "", fmt.Errorf("failed to update subscription: %w", err)
		}
	}

	return id, nil
}

// TouchLastSynced records a completed fetch attempt for a subscription.
func (r *SubscriptionRepository) TouchLastSynced(id string) error {
	_, err := r.db.Exec(`
		UPDATE subscriptions SET last_synced_at = ? WHERE id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update last synced time: %w", err)
	}

	return nil
}
