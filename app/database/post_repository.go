package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostRepository handles database operations for collected posts.
type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

// ListKnownURLs returns the URLs of every stored post. The sync run takes
// this snapshot once and filters candidates against it.
func (r *PostRepository) ListKnownURLs() (map[string]struct{}, error) {
	rows, err := r.db.Query(`SELECT url FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("failed to list known URLs: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan URL row: %w", err)
		}
		known[url] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating URL rows: %w", err)
	}

	return known, nil
}

// Save stores one post. Each save is independent: a failure here is counted
// by the caller and does not affect other posts.
func (r *PostRepository) Save(post Post) error {
	if post.Title == "" || post.URL == "" {
		return fmt.Errorf("post is missing required fields (title=%q, url=%q)", post.Title, post.URL)
	}

	var scheduleDate sql.NullString
	if post.ScheduleDate != nil {
		scheduleDate = sql.NullString{String: *post.ScheduleDate, Valid: true}
	}

	var publishedAt sql.NullTime
	if post.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *post.PublishedAt, Valid: true}
	}

	_, err := r.db.Exec(`
		INSERT INTO posts (
			id, subscription_id, platform, author_name, account_id,
			title, url, content, summary, has_schedule, schedule_date,
			thumbnail_url, published_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), post.SubscriptionID, post.Platform, post.AuthorName,
		post.AccountID, post.Title, post.URL, post.Content, post.Summary,
		post.HasSchedule, scheduleDate, post.ThumbnailURL, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}

	return nil
}

// CountPosts returns the number of stored posts.
func (r *PostRepository) CountPosts() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
