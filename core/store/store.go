// Package store persists generated infographic posts. Posts are immutable:
// an iteration produces a new post pointing at its parent, so the full
// lineage of an infographic is reconstructable.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Kesaramb/infographedia/core/dna"
)

// ErrNotFound is returned when a post ID does not exist.
var ErrNotFound = errors.New("post not found")

// Post is a stored generation result. DNA is kept as canonical JSON so the
// document round-trips exactly as validated.
type Post struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"authorId"`
	ParentID      string    `json:"parentId,omitempty"`
	DNA           *dna.DNA  `json:"dna"`
	SearchQueries []string  `json:"searchQueries,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SQLiteStore is a durable post store backed by a single SQLite file.
// Safe for concurrent use; database/sql serializes access.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the post database at path and applies the
// schema.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		parent_id TEXT,
		dna TEXT NOT NULL,
		search_queries TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id);
	CREATE INDEX IF NOT EXISTS idx_posts_parent ON posts(parent_id);
	CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// SavePost stores a generation result and returns the persisted post.
// parentID may be empty for root posts.
func (s *SQLiteStore) SavePost(ctx context.Context, doc *dna.DNA, authorID, parentID string, queries []string) (*Post, error) {
	post := &Post{
		ID:            uuid.NewString(),
		AuthorID:      authorID,
		ParentID:      parentID,
		DNA:           doc,
		SearchQueries: queries,
		CreatedAt:     time.Now().UTC(),
	}

	dnaJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dna: %w", err)
	}

	var queriesJSON []byte
	if len(queries) > 0 {
		queriesJSON, err = json.Marshal(queries)
		if err != nil {
			return nil, fmt.Errorf("failed to encode search queries: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, parent_id, dna, search_queries, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		post.ID, post.AuthorID, nullable(post.ParentID),
		string(dnaJSON), nullableBytes(queriesJSON), post.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return post, nil
}

// GetPost retrieves one post by ID. Returns ErrNotFound when absent.
func (s *SQLiteStore) GetPost(ctx context.Context, id string) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, author_id, parent_id, dna, search_queries, created_at
		FROM posts WHERE id = ?
	`, id)

	post, err := scanPost(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return post, err
}

// ListPosts returns the most recent posts, newest first. limit <= 0 selects
// a default page of 50.
func (s *SQLiteStore) ListPosts(ctx context.Context, limit int) ([]*Post, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, author_id, parent_id, dna, search_queries, created_at
		FROM posts ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanPost(scan func(dest ...any) error) (*Post, error) {
	var post Post
	var parentID, queriesJSON sql.NullString
	var dnaJSON string

	if err := scan(&post.ID, &post.AuthorID, &parentID, &dnaJSON, &queriesJSON, &post.CreatedAt); err != nil {
		return nil, err
	}

	if parentID.Valid {
		post.ParentID = parentID.String
	}

	var doc dna.DNA
	if err := json.Unmarshal([]byte(dnaJSON), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode stored dna: %w", err)
	}
	post.DNA = &doc

	if queriesJSON.Valid && queriesJSON.String != "" {
		if err := json.Unmarshal([]byte(queriesJSON.String), &post.SearchQueries); err != nil {
			return nil, fmt.Errorf("failed to decode search queries: %w", err)
		}
	}

	return &post, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
