package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/scandesk/scandesk/internal/imaging"
	"github.com/scandesk/scandesk/internal/observability"
	"github.com/scandesk/scandesk/internal/storage"
)

// State is the assembler's session state.
type State string

const (
	StateIdle         State = "idle"
	StateCapturing    State = "capturing"
	StateAssembling   State = "assembling"
	StateAwaitingName State = "awaiting_name"
	StateCommitted    State = "committed"
	StateCancelled    State = "cancelled"
	StateFailed       State = "failed"
)

// Config holds assembler settings.
type Config struct {
	// Quality is the fixed JPEG quality factor for captured pages.
	Quality float64
	// MaxConcurrentEncodes bounds the parallel page encoders.
	MaxConcurrentEncodes int
	// DefaultTitle is used when the caller commits without a name.
	DefaultTitle string
}

// Result summarizes one capture session.
type Result struct {
	SessionID   uuid.UUID
	State       State
	Document    *storage.Document
	PageCount   int
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Errors      []string
}

// Assembler runs one capture session at a time: it consumes the ordered
// page sequence yielded by a Source, encodes each page, and commits the
// assembled document to the repository once the caller confirms a name.
type Assembler struct {
	logger *observability.Logger
	codec  *imaging.Codec
	repo   *storage.DocumentRepository
	config Config

	mu      sync.Mutex
	state   State
	pending []storage.PageContent
	started time.Time
}

// NewAssembler creates an idle assembler.
func NewAssembler(logger *observability.Logger, repo *storage.DocumentRepository, cfg Config) *Assembler {
	if cfg.Quality <= 0 || cfg.Quality > 1 {
		cfg.Quality = 0.65
	}
	if cfg.MaxConcurrentEncodes < 1 {
		cfg.MaxConcurrentEncodes = 1
	}
	return &Assembler{
		logger: logger.WithComponent("assembler"),
		codec:  imaging.NewCodec(),
		repo:   repo,
		config: cfg,
		state:  StateIdle,
	}
}

// State returns the current session state.
func (a *Assembler) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Begin runs the capture and assembly stages of one session. On success the
// assembler holds the encoded pages and waits in StateAwaitingName for
// Commit or Cancel. Any page encoding failure voids the whole session: a
// silently truncated document is never created.
func (a *Assembler) Begin(ctx context.Context, source Source) error {
	a.mu.Lock()
	switch a.state {
	case StateCapturing, StateAssembling, StateAwaitingName:
		state := a.state
		a.mu.Unlock()
		return fmt.Errorf("capture session already in progress (state %s)", state)
	}
	a.state = StateCapturing
	a.started = time.Now()
	a.mu.Unlock()

	a.logger.Info().Msg("Capture session started")

	rawPages, err := source.Scan(ctx)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			a.reset(StateCancelled)
			a.logger.Info().Msg("Capture session cancelled")
			return ErrCancelled
		}
		a.reset(StateFailed)
		a.logger.Error().Err(err).Msg("Capture session failed")
		return err
	}

	if len(rawPages) == 0 {
		a.reset(StateFailed)
		return fmt.Errorf("capture session yielded no pages")
	}

	a.setState(StateAssembling)

	encoded, err := a.encodePages(ctx, rawPages)
	if err != nil {
		a.reset(StateFailed)
		a.logger.Error().Err(err).Int("pages", len(rawPages)).Msg("Page encoding failed, session voided")
		return err
	}

	a.mu.Lock()
	a.pending = encoded
	a.state = StateAwaitingName
	a.mu.Unlock()

	a.logger.Info().
		Int("pages", len(encoded)).
		Float64("quality", a.config.Quality).
		Msg("Pages assembled, awaiting document name")
	return nil
}

// encodePages encodes all pages in parallel, preserving capture order by
// index. The first failure cancels the rest.
func (a *Assembler) encodePages(ctx context.Context, rawPages []image.Image) ([]storage.PageContent, error) {
	encoded := make([]storage.PageContent, len(rawPages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.MaxConcurrentEncodes)

	for i, raw := range rawPages {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			data, err := a.codec.Encode(raw, a.config.Quality)
			if err != nil {
				return fmt.Errorf("encode page %d: %w", i, err)
			}
			encoded[i] = storage.PageContent{Index: i, Content: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return encoded, nil
}

// Commit persists the pending document under the given title and completes
// the session. An empty title falls back to the configured default, so the
// stored title is never empty.
func (a *Assembler) Commit(ctx context.Context, title string) (*Result, error) {
	a.mu.Lock()
	if a.state != StateAwaitingName {
		state := a.state
		a.mu.Unlock()
		return nil, fmt.Errorf("nothing to commit (state %s)", state)
	}
	pending := a.pending
	started := a.started
	a.mu.Unlock()

	if title == "" {
		title = a.config.DefaultTitle
	}

	doc, err := a.repo.Create(ctx, title, pending)
	if err != nil {
		a.reset(StateFailed)
		a.logger.Error().Err(err).Msg("Document commit failed")
		return nil, err
	}

	a.reset(StateCommitted)

	result := &Result{
		SessionID:   doc.ID,
		State:       StateCommitted,
		Document:    doc,
		PageCount:   len(pending),
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	result.Duration = result.CompletedAt.Sub(result.StartedAt)

	a.logger.Info().
		Str("document_id", doc.ID.String()).
		Str("title", doc.Title).
		Int("pages", result.PageCount).
		Dur("duration", result.Duration).
		Msg("Capture session committed")

	return result, nil
}

// Cancel discards any pending in-memory state and ends the session.
func (a *Assembler) Cancel() {
	a.reset(StateCancelled)
	a.logger.Info().Msg("Pending capture discarded")
}

// reset drops pending state and records the terminal state. Terminal
// states are accepted by Begin, so the assembler is immediately reusable
// for the next session.
func (a *Assembler) reset(terminal State) {
	a.mu.Lock()
	a.pending = nil
	a.state = terminal
	a.mu.Unlock()
}

// setState transitions to the given state.
func (a *Assembler) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}
