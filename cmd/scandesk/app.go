package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/scandesk/scandesk/internal/config"
	"github.com/scandesk/scandesk/internal/observability"
	"github.com/scandesk/scandesk/internal/storage"
)

// app bundles the wiring every command needs.
type app struct {
	cfg    *config.Config
	logger *observability.Logger
	db     *sql.DB
	repo   *storage.DocumentRepository
}

// openApp loads config, opens the store, and builds the repository.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	db, err := storage.Open(ctx, storage.OpenOptions{
		Path:         cfg.Store.Path,
		MaxOpenConns: cfg.Store.MaxOpenConns,
		JournalMode:  cfg.Store.JournalMode,
	})
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		repo:   storage.NewDocumentRepository(db, logger, cfg.Capture.DefaultTitle),
	}, nil
}

func (a *app) close() {
	a.db.Close()
}

// resolveDocument finds a document by ID, ID prefix, or exact title.
func (a *app) resolveDocument(ctx context.Context, ref string) (*storage.Document, error) {
	if id, err := uuid.Parse(ref); err == nil {
		doc, err := a.repo.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", ref, err)
		}
		return doc, nil
	}

	docs, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []*storage.Document
	for _, doc := range docs {
		if strings.EqualFold(doc.Title, ref) ||
			strings.HasPrefix(doc.ID.String(), strings.ToLower(ref)) {
			matches = append(matches, doc)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no document matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q is ambiguous: %d documents match", ref, len(matches))
	}
}
