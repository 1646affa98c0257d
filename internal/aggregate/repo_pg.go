package aggregate

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO analyses (
    id,
    request_id,
    resume_file,
    storage_key,
    github_user,
    leetcode_user,
    codechef_user,
    sources_ok,
    sources_err,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var storageKey sql.NullString
	if rec.StorageKey != "" {
		storageKey = sql.NullString{String: rec.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.RequestID,
		rec.ResumeFile,
		storageKey,
		nullable(rec.GitHubUser),
		nullable(rec.LeetCodeUser),
		nullable(rec.CodeChefUser),
		strings.Join(rec.SourcesOK, ","),
		strings.Join(rec.SourcesErr, ","),
		rec.CreatedAt,
	)
	return err
}

// GetByID returns one analysis record.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Record, error) {
	const query = `
SELECT id, request_id, resume_file, storage_key, github_user, leetcode_user, codechef_user, sources_ok, sources_err, created_at
FROM analyses
WHERE id = $1`

	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// ListRecent returns up to limit records, newest first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
SELECT id, request_id, resume_file, storage_key, github_user, leetcode_user, codechef_user, sources_ok, sources_err, created_at
FROM analyses
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var storageKey, githubUser, leetcodeUser, codechefUser sql.NullString
	var sourcesOK, sourcesErr string

	err := row.Scan(
		&rec.ID,
		&rec.RequestID,
		&rec.ResumeFile,
		&storageKey,
		&githubUser,
		&leetcodeUser,
		&codechefUser,
		&sourcesOK,
		&sourcesErr,
		&rec.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}

	rec.StorageKey = storageKey.String
	rec.GitHubUser = githubUser.String
	rec.LeetCodeUser = leetcodeUser.String
	rec.CodeChefUser = codechefUser.String
	rec.SourcesOK = splitList(sourcesOK)
	rec.SourcesErr = splitList(sourcesErr)
	return rec, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

var _ Repo = (*PGRepo)(nil)
