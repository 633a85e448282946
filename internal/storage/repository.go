package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scandesk/scandesk/internal/domain"
	"github.com/scandesk/scandesk/internal/observability"
)

// Common errors
var (
	ErrNotFound = errors.New("record not found")
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// DocumentRepository owns the durable collection of documents and their
// pages. It is the sole writer of persisted state; observers are notified
// after every successful mutation.
type DocumentRepository struct {
	db       DB
	notifier *Notifier
	logger   *observability.Logger

	// defaultTitle replaces an empty title on create, so a document
	// never persists without one.
	defaultTitle string
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(db DB, logger *observability.Logger, defaultTitle string) *DocumentRepository {
	if defaultTitle == "" {
		defaultTitle = "Scanned document"
	}
	return &DocumentRepository{
		db:           db,
		notifier:     NewNotifier(),
		logger:       logger.WithComponent("repository"),
		defaultTitle: defaultTitle,
	}
}

// Subscribe registers an observer for repository change events.
func (r *DocumentRepository) Subscribe(obs Observer) (cancel func()) {
	return r.notifier.Subscribe(obs)
}

// List returns all documents, most recent first, with their page counts.
func (r *DocumentRepository) List(ctx context.Context) ([]*Document, error) {
	query := `
		SELECT d.id, d.title, d.created_at, d.locked, COUNT(p.page_index)
		FROM documents d
		LEFT JOIN pages p ON p.document_id = d.id
		GROUP BY d.id
		ORDER BY d.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.PersistenceError("list documents", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc := &Document{}
		var id string
		if err := rows.Scan(&id, &doc.Title, &doc.CreatedAt, &doc.Locked, &doc.PageCount); err != nil {
			return nil, domain.PersistenceError("scan document row", err)
		}
		doc.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, domain.PersistenceError("parse document id", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.PersistenceError("list documents", err)
	}
	return docs, nil
}

// Get retrieves one document by ID.
func (r *DocumentRepository) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	query := `
		SELECT d.id, d.title, d.created_at, d.locked, COUNT(p.page_index)
		FROM documents d
		LEFT JOIN pages p ON p.document_id = d.id
		WHERE d.id = ?
		GROUP BY d.id
	`
	doc := &Document{}
	var rawID string
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID, &doc.Title, &doc.CreatedAt, &doc.Locked, &doc.PageCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, domain.PersistenceError("get document", err)
	}
	doc.ID = id
	return doc, nil
}

// Pages returns the document's pages in index order.
func (r *DocumentRepository) Pages(ctx context.Context, id uuid.UUID) ([]*Page, error) {
	query := `
		SELECT document_id, page_index, content
		FROM pages
		WHERE document_id = ?
		ORDER BY page_index
	`
	rows, err := r.db.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, domain.PersistenceError("load pages", err)
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		page := &Page{}
		var docID string
		if err := rows.Scan(&docID, &page.Index, &page.Content); err != nil {
			return nil, domain.PersistenceError("scan page row", err)
		}
		page.DocumentID, err = uuid.Parse(docID)
		if err != nil {
			return nil, domain.PersistenceError("parse page document id", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.PersistenceError("load pages", err)
	}
	return pages, nil
}

// Create atomically inserts a new document with its full set of pages.
// No partial insert is visible to readers. Page indices must be contiguous
// from 0 and the page set must be non-empty; a document with zero pages is
// not a valid persisted state.
func (r *DocumentRepository) Create(ctx context.Context, title string, pages []PageContent) (*Document, error) {
	if len(pages) == 0 {
		return nil, domain.ValidationError("document must have at least one page", nil)
	}
	for i, page := range pages {
		if page.Index != i {
			return nil, domain.ValidationError(
				fmt.Sprintf("page indices must be contiguous from 0, got %d at position %d", page.Index, i), nil)
		}
		if len(page.Content) == 0 {
			return nil, domain.ValidationError(fmt.Sprintf("page %d has no content", i), nil)
		}
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = r.defaultTitle
	}

	doc := &Document{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: time.Now(),
		PageCount: len(pages),
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.PersistenceError("begin create transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, title, created_at, locked) VALUES (?, ?, ?, ?)`,
		doc.ID.String(), doc.Title, doc.CreatedAt, doc.Locked,
	)
	if err != nil {
		return nil, domain.PersistenceError("insert document", err)
	}

	for _, page := range pages {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO pages (document_id, page_index, content) VALUES (?, ?, ?)`,
			doc.ID.String(), page.Index, page.Content,
		)
		if err != nil {
			return nil, domain.PersistenceError(fmt.Sprintf("insert page %d", page.Index), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.PersistenceError("commit create transaction", err)
	}

	r.logger.Info().
		Str("document_id", doc.ID.String()).
		Str("title", doc.Title).
		Int("pages", doc.PageCount).
		Msg("Created document")

	r.notifier.Publish(Event{Type: EventCreated, DocumentID: doc.ID})
	return doc, nil
}

// Rename changes a document's title. Empty titles are rejected.
func (r *DocumentRepository) Rename(ctx context.Context, id uuid.UUID, newTitle string) error {
	if strings.TrimSpace(newTitle) == "" {
		return domain.ValidationError("title must not be empty", nil)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET title = ? WHERE id = ?`,
		strings.TrimSpace(newTitle), id.String(),
	)
	if err != nil {
		return domain.PersistenceError("rename document", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.PersistenceError("rename document", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	r.logger.Info().
		Str("document_id", id.String()).
		Str("title", strings.TrimSpace(newTitle)).
		Msg("Renamed document")

	r.notifier.Publish(Event{Type: EventRenamed, DocumentID: id})
	return nil
}

// ToggleLock flips the document's advisory lock flag and returns the new
// state. Locking is gated only by the viewing layer, not by encryption.
func (r *DocumentRepository) ToggleLock(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET locked = NOT locked WHERE id = ?`, id.String(),
	)
	if err != nil {
		return false, domain.PersistenceError("toggle lock", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, domain.PersistenceError("toggle lock", err)
	}
	if rows == 0 {
		return false, ErrNotFound
	}

	var locked bool
	err = r.db.QueryRowContext(ctx,
		`SELECT locked FROM documents WHERE id = ?`, id.String()).Scan(&locked)
	if err != nil {
		return false, domain.PersistenceError("read lock state", err)
	}

	r.logger.Info().
		Str("document_id", id.String()).
		Bool("locked", locked).
		Msg("Toggled document lock")

	r.notifier.Publish(Event{Type: EventLocked, DocumentID: id})
	return locked, nil
}

// Delete removes a document and all its pages in one transaction, so a
// partial cascade is never observable. Deleting an unknown ID is a no-op.
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.PersistenceError("begin delete transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM pages WHERE document_id = ?`, id.String()); err != nil {
		return domain.PersistenceError("delete pages", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ?`, id.String())
	if err != nil {
		return domain.PersistenceError("delete document", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.PersistenceError("commit delete transaction", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.PersistenceError("delete document", err)
	}
	if rows == 0 {
		// Already gone; idempotent.
		r.logger.Debug().Str("document_id", id.String()).Msg("Delete of unknown document ignored")
		return nil
	}

	r.logger.Info().Str("document_id", id.String()).Msg("Deleted document")

	r.notifier.Publish(Event{Type: EventDeleted, DocumentID: id})
	return nil
}

// DeleteAll removes every document and page from the store.
func (r *DocumentRepository) DeleteAll(ctx context.Context) (int, error) {
	docs, err := r.List(ctx)
	if err != nil {
		return 0, err
	}

	for _, doc := range docs {
		if err := r.Delete(ctx, doc.ID); err != nil {
			return 0, err
		}
	}
	return len(docs), nil
}
