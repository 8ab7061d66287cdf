package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/wikibinder/internal/project"
)

// newID derives a short hex id from the project name and creation time.
func newID(name string, now time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%d", name, now.UnixNano())))
	return hex.EncodeToString(sum[:])[:16]
}

// CreateProject inserts a new project and returns it with id and
// timestamps filled in.
func (s *Store) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	if p.Name == "" {
		return nil, errors.New("project name is required")
	}
	now := time.Now()
	p.ID = newID(p.Name, now)
	p.CreatedAt = now.UnixMilli()
	p.UpdatedAt = p.CreatedAt
	if p.Articles == nil {
		p.Articles = []string{}
	}

	articles, err := json.Marshal(p.Articles)
	if err != nil {
		return nil, fmt.Errorf("marshal articles: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO projects (id, name, notes, articles, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Notes, string(articles), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// GetProject retrieves a project by id. Returns nil if absent.
func (s *Store) GetProject(ctx context.Context, id string) (*project.Project, error) {
	p := &project.Project{}
	var articles string
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, notes, articles, created_at, updated_at
		FROM projects WHERE id = ?`, id).Scan(
		&p.ID, &p.Name, &p.Notes, &articles, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select project: %w", err)
	}
	if err := json.Unmarshal([]byte(articles), &p.Articles); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	return p, nil
}

// ListProjects returns all projects, most recently updated first.
func (s *Store) ListProjects(ctx context.Context) ([]*project.Project, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, notes, articles, created_at, updated_at
		FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []*project.Project
	for rows.Next() {
		p := &project.Project{}
		var articles string
		if err := rows.Scan(&p.ID, &p.Name, &p.Notes, &articles, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if err := json.Unmarshal([]byte(articles), &p.Articles); err != nil {
			return nil, fmt.Errorf("decode articles: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProject replaces name, notes and article list. Returns false if
// the project does not exist.
func (s *Store) UpdateProject(ctx context.Context, p *project.Project) (bool, error) {
	articles, err := json.Marshal(p.Articles)
	if err != nil {
		return false, fmt.Errorf("marshal articles: %w", err)
	}
	res, err := s.DB.ExecContext(ctx, `
		UPDATE projects SET name = ?, notes = ?, articles = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Notes, string(articles), time.Now().UnixMilli(), p.ID)
	if err != nil {
		return false, fmt.Errorf("update project: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteProject removes a project. Returns false if it did not exist.
func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
