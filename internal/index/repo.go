package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// DocumentRow is a stored document with its metadata.
type DocumentRow struct {
	Path        string
	Title       string
	Checksum    string
	Document    models.Document
	FrontMatter *models.FrontMatter
	Tags        []string
	UpdatedAt   time.Time
}

// DocumentSummary is the lightweight form returned by listings.
type DocumentSummary struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	Tags      []string  `json:"tags"`
	Blocks    int       `json:"blocks"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagCount is the number of documents referencing a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

const defaultListLimit = 50

// UpsertDocument inserts or replaces a document and its tags within a transaction.
func (db *DB) UpsertDocument(row DocumentRow) error {
	docJSON, err := json.Marshal(row.Document)
	if err != nil {
		return fmt.Errorf("index: encode document: %w", err)
	}
	var fmJSON sql.NullString
	if row.FrontMatter != nil {
		data, err := json.Marshal(row.FrontMatter)
		if err != nil {
			return fmt.Errorf("index: encode front matter: %w", err)
		}
		fmJSON = sql.NullString{String: string(data), Valid: true}
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now()
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.Exec(`
		INSERT INTO documents (path, title, checksum, document, front_matter, block_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title        = excluded.title,
			checksum     = excluded.checksum,
			document     = excluded.document,
			front_matter = excluded.front_matter,
			block_count  = excluded.block_count,
			updated_at   = excluded.updated_at
	`, row.Path, row.Title, row.Checksum, string(docJSON), fmJSON, len(row.Document.Root.Children), row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM document_tags WHERE path = ?`, row.Path); err != nil {
		return fmt.Errorf("index: clear tags: %w", err)
	}
	if len(row.Tags) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO document_tags (path, tag, position) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare tag insert: %w", err)
		}
		defer stmt.Close()
		for i, tag := range row.Tags {
			if _, err := stmt.Exec(row.Path, tag, i); err != nil {
				return fmt.Errorf("index: insert tag: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetDocument loads one document. It returns apperr.ErrNotFound when path is
// not indexed.
func (db *DB) GetDocument(path string) (*DocumentRow, error) {
	var (
		row     DocumentRow
		docJSON string
		fmJSON  sql.NullString
	)
	err := db.conn.QueryRow(`
		SELECT path, title, checksum, document, front_matter, updated_at
		FROM documents WHERE path = ?
	`, path).Scan(&row.Path, &row.Title, &row.Checksum, &docJSON, &fmJSON, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get document: %w", err)
	}

	if err := json.Unmarshal([]byte(docJSON), &row.Document); err != nil {
		return nil, fmt.Errorf("index: decode document %s: %w", path, err)
	}
	if fmJSON.Valid {
		row.FrontMatter = models.NewFrontMatter()
		if err := json.Unmarshal([]byte(fmJSON.String), row.FrontMatter); err != nil {
			return nil, fmt.Errorf("index: decode front matter %s: %w", path, err)
		}
	}

	row.Tags, err = db.documentTags(path)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (db *DB) documentTags(path string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT tag FROM document_tags WHERE path = ? ORDER BY position`, path)
	if err != nil {
		return nil, fmt.Errorf("index: document tags: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

// ListDocuments returns a page of documents ordered by path, optionally
// restricted to those carrying tag, plus the total number of matches.
func (db *DB) ListDocuments(limit, offset int, tag string) ([]DocumentSummary, int, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	const filter = `(? = '' OR EXISTS (SELECT 1 FROM document_tags t WHERE t.path = d.path AND t.tag = ?))`

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents d WHERE `+filter, tag, tag).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count documents: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT d.path, d.title, d.checksum, d.block_count, d.updated_at,
			COALESCE((SELECT json_group_array(tag) FROM
				(SELECT tag FROM document_tags t WHERE t.path = d.path ORDER BY position)), '[]')
		FROM documents d
		WHERE `+filter+`
		ORDER BY d.path
		LIMIT ? OFFSET ?
	`, tag, tag, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list documents: %w", err)
	}
	defer rows.Close()

	out := []DocumentSummary{}
	for rows.Next() {
		var (
			s        DocumentSummary
			tagsJSON string
		)
		if err := rows.Scan(&s.Path, &s.Title, &s.Checksum, &s.Blocks, &s.UpdatedAt, &tagsJSON); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal([]byte(tagsJSON), &s.Tags); err != nil {
			return nil, 0, fmt.Errorf("index: decode tags: %w", err)
		}
		if s.Tags == nil {
			s.Tags = []string{}
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// Tags returns every tag with the number of documents referencing it,
// most used first.
func (db *DB) Tags() ([]TagCount, error) {
	rows, err := db.conn.Query(`
		SELECT tag, count(*) AS n FROM document_tags
		GROUP BY tag ORDER BY n DESC, tag
	`)
	if err != nil {
		return nil, fmt.Errorf("index: tags: %w", err)
	}
	defer rows.Close()
	out := []TagCount{}
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// DeleteDocument removes a document and its tags. It returns
// apperr.ErrNotFound when path is not indexed.
func (db *DB) DeleteDocument(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM document_tags WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete tags: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM documents WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("index: delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return tx.Commit()
}

// AllChecksums returns the stored checksum of every indexed path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
