// internal/adapter/storage/author_store.go

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"creatorpulse/internal/domain/author"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// AuthorStore implements storage for authors and their social accounts
type AuthorStore struct {
	db *pgxpool.Pool
}

// NewAuthorStore creates a new author store
func NewAuthorStore(db *pgxpool.Pool) *AuthorStore {
	return &AuthorStore{
		db: db,
	}
}

// CreateAuthor creates a new author
func (s *AuthorStore) CreateAuthor(ctx context.Context, name string) (*author.Author, error) {
	query := `
		INSERT INTO authors (name, created_at, updated_at)
		VALUES ($1, now(), now())
		RETURNING id, name, created_at, updated_at
	`

	var a author.Author
	err := s.db.QueryRow(ctx, query, name).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &a, nil
}

// ListAuthors returns all authors ordered by name
func (s *AuthorStore) ListAuthors(ctx context.Context) ([]author.Author, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM authors
		ORDER BY name
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var authors []author.Author
	for rows.Next() {
		var a author.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		authors = append(authors, a)
	}

	return authors, rows.Err()
}

// GetAuthor returns an author by ID
func (s *AuthorStore) GetAuthor(ctx context.Context, id int64) (*author.Author, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM authors
		WHERE id = $1
	`

	var a author.Author
	err := s.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &a, nil
}

// UpdateAuthor renames an author
func (s *AuthorStore) UpdateAuthor(ctx context.Context, id int64, name string) (*author.Author, error) {
	query := `
		UPDATE authors
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, created_at, updated_at
	`

	var a author.Author
	err := s.db.QueryRow(ctx, query, id, name).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &a, nil
}

// DeleteAuthor removes an author together with every account, snapshot, post
// and metrics-history row that hangs off them
func (s *AuthorStore) DeleteAuthor(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM post_metrics_history
		 WHERE post_id IN (
			SELECT p.id FROM posts p
			JOIN social_accounts sa ON sa.id = p.social_account_id
			WHERE sa.author_id = $1
		 )`,
		`DELETE FROM posts
		 WHERE social_account_id IN (SELECT id FROM social_accounts WHERE author_id = $1)`,
		`DELETE FROM profile_snapshots
		 WHERE social_account_id IN (SELECT id FROM social_accounts WHERE author_id = $1)`,
		`DELETE FROM social_accounts WHERE author_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// CreateAccount registers a social account for an author
func (s *AuthorStore) CreateAccount(ctx context.Context, account author.SocialAccount) (*author.SocialAccount, error) {
	query := `
		INSERT INTO social_accounts (
			author_id, platform, platform_user_id, username, profile_url,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRow(
		ctx,
		query,
		account.AuthorID,
		account.Platform,
		account.PlatformUserID,
		account.Username,
		account.ProfileURL,
		account.IsActive,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &account, nil
}

// ListAccounts returns accounts joined with their author's name, optionally
// filtered by platform
func (s *AuthorStore) ListAccounts(ctx context.Context, platform string) ([]author.SocialAccount, error) {
	query := `
		SELECT sa.id, sa.author_id, a.name, sa.platform, sa.platform_user_id,
		       COALESCE(sa.username, ''), COALESCE(sa.profile_url, ''),
		       sa.is_active, sa.created_at, sa.updated_at
		FROM social_accounts sa
		JOIN authors a ON a.id = sa.author_id
	`
	args := []interface{}{}
	if platform != "" {
		query += ` WHERE sa.platform = $1`
		args = append(args, platform)
	}
	query += ` ORDER BY sa.id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// GetAccount returns an account by ID
func (s *AuthorStore) GetAccount(ctx context.Context, id int64) (*author.SocialAccount, error) {
	query := `
		SELECT sa.id, sa.author_id, a.name, sa.platform, sa.platform_user_id,
		       COALESCE(sa.username, ''), COALESCE(sa.profile_url, ''),
		       sa.is_active, sa.created_at, sa.updated_at
		FROM social_accounts sa
		JOIN authors a ON a.id = sa.author_id
		WHERE sa.id = $1
	`

	var acc author.SocialAccount
	err := s.db.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.AuthorID,
		&acc.AuthorName,
		&acc.Platform,
		&acc.PlatformUserID,
		&acc.Username,
		&acc.ProfileURL,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &acc, nil
}

// UpdateAccount updates an account's mutable fields
func (s *AuthorStore) UpdateAccount(ctx context.Context, account author.SocialAccount) (*author.SocialAccount, error) {
	query := `
		UPDATE social_accounts
		SET username = $2, profile_url = $3, is_active = $4,
		    platform_user_id = $5, updated_at = now()
		WHERE id = $1
		RETURNING author_id, platform, created_at, updated_at
	`

	err := s.db.QueryRow(
		ctx,
		query,
		account.ID,
		account.Username,
		account.ProfileURL,
		account.IsActive,
		account.PlatformUserID,
	).Scan(
		&account.AuthorID,
		&account.Platform,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &account, nil
}

// DeleteAccount removes an account and all its collected data
func (s *AuthorStore) DeleteAccount(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM post_metrics_history
		 WHERE post_id IN (SELECT id FROM posts WHERE social_account_id = $1)`,
		`DELETE FROM posts WHERE social_account_id = $1`,
		`DELETE FROM profile_snapshots WHERE social_account_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM social_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanAccounts(rows pgx.Rows) ([]author.SocialAccount, error) {
	var accounts []author.SocialAccount
	for rows.Next() {
		var acc author.SocialAccount
		if err := rows.Scan(
			&acc.ID,
			&acc.AuthorID,
			&acc.AuthorName,
			&acc.Platform,
			&acc.PlatformUserID,
			&acc.Username,
			&acc.ProfileURL,
			&acc.IsActive,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		accounts = append(accounts, acc)
	}

	return accounts, rows.Err()
}
