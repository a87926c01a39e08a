package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
	"github.com/JonMunkholm/MatrixWizard/internal/logging"
	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
	"github.com/JonMunkholm/MatrixWizard/internal/store"
	"github.com/JonMunkholm/MatrixWizard/internal/wizard"
)

// ErrSessionNotFound is returned for IDs that are neither live nor stored.
var ErrSessionNotFound = errors.New("session not found")

// Options configures a Service. Zero values take defaults.
type Options struct {
	MaxActive         int
	MaxWait           time.Duration
	IdleTTL           time.Duration
	GridSize          int
	FillEmptyWithZero bool
}

// DefaultIdleTTL is how long an untouched session stays in memory.
const DefaultIdleTTL = 30 * time.Minute

// Service hosts wizard sessions for concurrent clients. Each session is
// guarded by its own mutex, so operations on one session are serialized
// while different sessions proceed in parallel. Every successful operation
// is written to the store.
type Service struct {
	store   store.Store
	limiter *SessionLimiter
	audit   *AuditLog
	opts    Options
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*activeSession
}

type activeSession struct {
	ID string

	mu       sync.Mutex
	wiz      *wizard.Session
	inbox    *wizard.Recorder
	lastUsed time.Time
	closed   bool // evicted or deleted; the entry must not be used
}

// SessionView is what clients see after every operation.
type SessionView struct {
	ID            string           `json:"id"`
	State         wizard.State     `json:"state"`
	Selection     wizard.Selection `json:"selection"`
	Dimensions    string           `json:"dimensions,omitempty"`
	Matrix        *matrix.View     `json:"matrix,omitempty"`
	Drafts        [][]string       `json:"drafts,omitempty"`
	Journal       []string         `json:"journal,omitempty"`
	HistoryDepth  int              `json:"history_depth"`
	CanNext       bool             `json:"can_next"`
	CanUndo       bool             `json:"can_undo"`
	Notifications []wizard.Note    `json:"notifications,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewService creates a Service backed by st.
func NewService(st store.Store, opts Options) *Service {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.GridSize <= 0 {
		opts.GridSize = wizard.DefaultGridSize
	}
	return &Service{
		store:    st,
		limiter:  NewSessionLimiter(opts.MaxActive, opts.MaxWait),
		audit:    NewAuditLog(DefaultAuditCapacity),
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*activeSession),
	}
}

func (s *Service) newActive(id string, at time.Time) *activeSession {
	inbox := &wizard.Recorder{}
	return &activeSession{
		ID:    id,
		inbox: inbox,
		wiz: wizard.New(wizard.Options{
			MaxRows:           s.opts.GridSize,
			MaxCols:           s.opts.GridSize,
			FillEmptyWithZero: s.opts.FillEmptyWithZero,
			Logger:            slog.Default().With("session_id", id),
			Notifier:          inbox,
		}),
		lastUsed: at,
	}
}

// Create starts a new session in the init step.
func (s *Service) Create(ctx context.Context) (SessionView, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return SessionView{}, err
	}

	id := uuid.NewString()
	as := s.newActive(id, s.now())
	as.mu.Lock()
	defer as.mu.Unlock()

	s.mu.Lock()
	s.sessions[id] = as
	s.mu.Unlock()

	s.persist(ctx, as)
	s.LogAudit(ctx, ActionSessionCreate, id, "")
	logging.FromContext(ctx).Info("session created",
		"session_id", id,
		"client_ip", GetIPAddressFromContext(ctx),
		"user_agent", GetUserAgentFromContext(ctx),
		"active", s.limiter.ActiveCount(),
	)
	return as.view(), nil
}

// Get returns the session, resuming it from the store if it was evicted.
func (s *Service) Get(ctx context.Context, id string) (SessionView, error) {
	return s.do(ctx, id, "get", nil)
}

func (s *Service) Next(ctx context.Context, id string) (SessionView, error) {
	return s.do(ctx, id, "next", (*wizard.Session).Next)
}

func (s *Service) Undo(ctx context.Context, id string) (SessionView, error) {
	return s.do(ctx, id, "undo", (*wizard.Session).Undo)
}

func (s *Service) Reset(ctx context.Context, id string) (SessionView, error) {
	return s.do(ctx, id, "reset", func(w *wizard.Session) error {
		w.Reset()
		s.LogAudit(ctx, ActionSessionReset, id, "")
		return nil
	})
}

// Select sets the highlighted region in the dimension step.
func (s *Service) Select(ctx context.Context, id string, rows, cols int) (SessionView, error) {
	return s.do(ctx, id, "select", func(w *wizard.Session) error {
		return w.Select(rows, cols)
	})
}

// SetCell stores the raw text of one cell. row and col are 1-based.
func (s *Service) SetCell(ctx context.Context, id string, row, col int, value string) (SessionView, error) {
	return s.do(ctx, id, "set_cell", func(w *wizard.Session) error {
		_, err := w.SetDraft(row-1, col-1, value)
		return err
	})
}

// QuickInput replaces the session's matrix with a literal such as
// [[1, 2], [3, 4]] and jumps to the transformation step.
func (s *Service) QuickInput(ctx context.Context, id, literal string) (SessionView, error) {
	return s.do(ctx, id, "quick_input", func(w *wizard.Session) error {
		if err := w.QuickInput(literal); err != nil {
			return err
		}
		s.LogAudit(ctx, ActionQuickInput, id, w.Selection().String())
		return nil
	})
}

// Transform applies an elementary transformation given as form fields.
func (s *Service) Transform(ctx context.Context, id, target, param, coefficient, operator string) (SessionView, error) {
	return s.do(ctx, id, "transform", func(w *wizard.Session) error {
		if err := w.ApplyFields(target, param, coefficient, operator); err != nil {
			return err
		}
		j := w.Journal()
		s.LogAudit(ctx, ActionTransform, id, j[len(j)-1])
		return nil
	})
}

// do runs fn on a live session under its lock. The returned view carries
// the notifications fn produced, even when fn fails.
func (s *Service) do(ctx context.Context, id, op string, fn func(*wizard.Session) error) (SessionView, error) {
	as, err := s.acquire(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	defer as.mu.Unlock()

	as.lastUsed = s.now()
	if fn == nil {
		return as.view(), nil
	}

	opErr := fn(as.wiz)
	if opErr == nil {
		s.persist(ctx, as)
	}

	logging.FromContext(ctx).Debug("session operation",
		"session_id", id,
		"op", op,
		"state", as.wiz.State(),
		"ok", opErr == nil,
	)
	return as.view(), opErr
}

// acquire returns the live session for id with its lock held.
func (s *Service) acquire(ctx context.Context, id string) (*activeSession, error) {
	if err := store.CheckID(id); err != nil {
		return nil, err
	}
	for {
		as, err := s.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		as.mu.Lock()
		if !as.closed {
			return as, nil
		}
		as.mu.Unlock()
	}
}

func (s *Service) lookup(ctx context.Context, id string) (*activeSession, error) {
	s.mu.RLock()
	as, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return as, nil
	}
	return s.resume(ctx, id)
}

// resume loads an evicted session back into memory.
func (s *Service) resume(ctx context.Context, id string) (*activeSession, error) {
	rec, err := s.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	as := s.newActive(id, s.now())
	if err := as.wiz.Restore(rec.Snapshot); err != nil {
		s.limiter.Release()
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	s.mu.Lock()
	if existing, ok := s.sessions[id]; ok {
		s.mu.Unlock()
		s.limiter.Release()
		return existing, nil
	}
	s.sessions[id] = as
	s.mu.Unlock()

	s.LogAudit(ctx, ActionSessionResume, id, rec.Snapshot.State.String())
	logging.FromContext(ctx).Info("session resumed", "session_id", id, "state", rec.Snapshot.State)
	return as, nil
}

// Delete removes a session from memory and from the store.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := store.CheckID(id); err != nil {
		return err
	}

	s.mu.RLock()
	as, live := s.sessions[id]
	s.mu.RUnlock()
	if live {
		as.mu.Lock()
		if !as.closed {
			s.drop(as)
		}
		as.mu.Unlock()
	}

	err := s.store.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) && !live {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}

	s.LogAudit(ctx, ActionSessionDelete, id, "")
	logging.FromContext(ctx).Info("session deleted", "session_id", id)
	return nil
}

// List returns every stored session, most recently used first.
func (s *Service) List(ctx context.Context) ([]store.Summary, error) {
	return s.store.List(ctx)
}

// NormalizedEntry is the canonical form of one entry.
type NormalizedEntry struct {
	Input string `json:"input"`
	Value string `json:"value"`
	Kind  string `json:"kind"`
}

// Normalize parses a single entry without touching any session.
func (s *Service) Normalize(raw string) (NormalizedEntry, error) {
	e, err := entry.Parse(raw)
	if err != nil {
		return NormalizedEntry{}, err
	}
	return NormalizedEntry{Input: raw, Value: e.String(), Kind: e.Kind().String()}, nil
}

// Flush saves every live session. It is called on shutdown.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.RLock()
	live := make([]*activeSession, 0, len(s.sessions))
	for _, as := range s.sessions {
		live = append(live, as)
	}
	s.mu.RUnlock()

	var errs []error
	for _, as := range live {
		as.mu.Lock()
		if !as.closed {
			if err := s.persist(ctx, as); err != nil {
				errs = append(errs, fmt.Errorf("session %s: %w", as.ID, err))
			}
		}
		as.mu.Unlock()
	}
	return errors.Join(errs...)
}

// Status reports session slot usage.
func (s *Service) Status() SessionLimiterStatus {
	return s.limiter.Status()
}

// persist writes the session to the store. Failures are logged; the
// session stays live and is retried on the next change or at eviction.
func (s *Service) persist(ctx context.Context, as *activeSession) error {
	rec := store.Record{ID: as.ID, UpdatedAt: as.lastUsed, Snapshot: as.wiz.Snapshot()}
	if err := s.store.Save(ctx, rec); err != nil {
		logging.FromContext(ctx).Warn("session save failed", "session_id", as.ID, "error", err)
		return err
	}
	return nil
}

// drop removes as from the live set. Callers hold as.mu.
func (s *Service) drop(as *activeSession) {
	s.mu.Lock()
	if s.sessions[as.ID] == as {
		delete(s.sessions, as.ID)
	}
	s.mu.Unlock()
	as.closed = true
	s.limiter.Release()
}

// view snapshots the session for clients and drains its notifications.
// Callers hold as.mu.
func (as *activeSession) view() SessionView {
	w := as.wiz
	v := SessionView{
		ID:            as.ID,
		State:         w.State(),
		Selection:     w.Selection(),
		Drafts:        w.Drafts(),
		Journal:       w.Journal(),
		HistoryDepth:  w.HistoryDepth(),
		CanNext:       w.CanNext(),
		CanUndo:       w.CanUndo(),
		Notifications: as.inbox.Drain(),
		UpdatedAt:     as.lastUsed,
	}
	if mv, ok := w.View(); ok {
		v.Matrix = &mv
		v.Dimensions = fmt.Sprintf("%d×%d", mv.Rows, mv.Cols)
	}
	return v
}
