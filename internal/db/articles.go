package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/clinicdesk/clinicsync/internal/models"
)

// CreateArticle inserts a locally authored article. Articles carry no dirty
// flag; every local article is a push candidate on the next cycle.
func (db *DB) CreateArticle(a *models.Article) error {
	if a.ID == "" {
		a.ID = models.NewLocalArticleID()
	}
	if a.ArticleType == "" {
		a.ArticleType = models.ArticleTypeNews
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}

	_, err := db.conn.Exec(`
		INSERT INTO articles (
			id, title_en, title_ar, content_en, content_ar, summary_en, summary_ar,
			article_type, image_url, published_at, author_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TitleEn, a.TitleAr, a.ContentEn, a.ContentAr, a.SummaryEn, a.SummaryAr,
		a.ArticleType, a.ImageURL, formatTime(a.PublishedAt), a.AuthorID,
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// UpsertArticle inserts or fully overwrites an article inside the given
// transaction (pull path, replace-by-id).
func UpsertArticle(tx *sql.Tx, a *models.Article) error {
	_, err := tx.Exec(`
		INSERT INTO articles (
			id, title_en, title_ar, content_en, content_ar, summary_en, summary_ar,
			article_type, image_url, published_at, author_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title_en = excluded.title_en,
			title_ar = excluded.title_ar,
			content_en = excluded.content_en,
			content_ar = excluded.content_ar,
			summary_en = excluded.summary_en,
			summary_ar = excluded.summary_ar,
			article_type = excluded.article_type,
			image_url = excluded.image_url,
			published_at = excluded.published_at,
			author_id = excluded.author_id,
			updated_at = excluded.updated_at`,
		a.ID, a.TitleEn, a.TitleAr, a.ContentEn, a.ContentAr, a.SummaryEn, a.SummaryAr,
		a.ArticleType, a.ImageURL, formatTime(a.PublishedAt), a.AuthorID,
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert article %s: %w", a.ID, err)
	}
	return nil
}

const articleColumns = `id, title_en, title_ar, content_en, content_ar, summary_en, summary_ar,
	article_type, image_url, published_at, author_id, created_at, updated_at`

// GetArticle returns a single article, or nil when absent.
func (db *DB) GetArticle(id string) (*models.Article, error) {
	row := db.conn.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListArticles returns all articles ordered by publication date descending.
func (db *DB) ListArticles() ([]models.Article, error) {
	rows, err := db.conn.Query(`SELECT ` + articleColumns + `
		FROM articles ORDER BY published_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var out []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// ReplaceArticleID rewrites a local article under its remote-assigned ID.
func (db *DB) ReplaceArticleID(oldID, newID string) error {
	if oldID == newID {
		return nil
	}
	return db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM articles WHERE id = ?`, newID); err != nil {
			return fmt.Errorf("drop shadowed row %s: %w", newID, err)
		}
		res, err := tx.Exec(`UPDATE articles SET id = ? WHERE id = ?`, newID, oldID)
		if err != nil {
			return fmt.Errorf("rename article %s: %w", oldID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("article %s not found", oldID)
		}
		return nil
	})
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var (
		a                                 models.Article
		publishedAt, createdAt, updatedAt string
	)
	err := row.Scan(
		&a.ID, &a.TitleEn, &a.TitleAr, &a.ContentEn, &a.ContentAr, &a.SummaryEn, &a.SummaryAr,
		&a.ArticleType, &a.ImageURL, &publishedAt, &a.AuthorID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.PublishedAt, err = parseTime(publishedAt); err != nil {
		return nil, fmt.Errorf("article %s published_at: %w", a.ID, err)
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("article %s created_at: %w", a.ID, err)
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("article %s updated_at: %w", a.ID, err)
	}
	return &a, nil
}
