package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/wikibinder/internal/assemble"
)

// CachedArticle is one entry of the article body cache.
type CachedArticle struct {
	Title       string `json:"title"`
	HTML        string `json:"html"`
	ContentHash string `json:"content_hash"`
	FetchedAt   int64  `json:"fetched_at"` // unix millis
}

// GetCachedArticle returns the cached body for a title, or nil.
func (s *Store) GetCachedArticle(ctx context.Context, title string) (*CachedArticle, error) {
	a := &CachedArticle{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT title, html, content_hash, fetched_at
		FROM article_cache WHERE title = ?`, title).Scan(
		&a.Title, &a.HTML, &a.ContentHash, &a.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select cached article: %w", err)
	}
	return a, nil
}

// PutCachedArticle upserts an article body. Returns false when the
// content hash matches the stored entry (body unchanged).
func (s *Store) PutCachedArticle(ctx context.Context, title, html string) (bool, error) {
	sum := sha256.Sum256([]byte(html))
	hash := hex.EncodeToString(sum[:])

	existing, err := s.GetCachedArticle(ctx, title)
	if err != nil {
		return false, err
	}
	if existing != nil && existing.ContentHash == hash {
		return false, nil
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO article_cache (title, html, content_hash, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			html = excluded.html,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at`,
		title, html, hash, time.Now().UnixMilli())
	if err != nil {
		return false, fmt.Errorf("upsert cached article: %w", err)
	}
	return true, nil
}

// DeleteCachedArticle drops one cache entry.
func (s *Store) DeleteCachedArticle(ctx context.Context, title string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM article_cache WHERE title = ?`, title)
	if err != nil {
		return fmt.Errorf("delete cached article: %w", err)
	}
	return nil
}

// CachedFetcher wraps a network fetcher with the cache: hits are served
// from the database, misses are fetched, cached and returned.
func (s *Store) CachedFetcher(fetch assemble.ArticleFetcher) assemble.ArticleFetcher {
	return func(ctx context.Context, title string) (string, error) {
		if cached, err := s.GetCachedArticle(ctx, title); err == nil && cached != nil {
			return cached.HTML, nil
		}
		html, err := fetch(ctx, title)
		if err != nil {
			return "", err
		}
		// A cache write failure must not fail the fetch.
		_, _ = s.PutCachedArticle(ctx, title, html)
		return html, nil
	}
}
