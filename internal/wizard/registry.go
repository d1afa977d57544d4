package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"freshhire-backend/internal/session"
	"freshhire-backend/internal/shared/metrics"
	"freshhire-backend/internal/shared/telemetry"
)

// ErrDraftNotFound is returned for unknown, expired or foreign drafts.
var ErrDraftNotFound = errors.New("draft not found")

// DefaultDraftTTL bounds how long an idle draft is kept.
const DefaultDraftTTL = 30 * time.Minute

// Registry holds open drafts in memory, keyed by draft id. Drafts opened by a
// signed-in user are only visible to that user.
type Registry struct {
	mu     sync.Mutex
	drafts map[string]*entry
	ttl    time.Duration
	now    func() time.Time

	applier Applier
	session session.Source
}

type entry struct {
	ownerID string
	wizard  *Wizard
	touched time.Time
}

// NewRegistry builds a Registry. A non-positive ttl uses DefaultDraftTTL.
func NewRegistry(applier Applier, src session.Source, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &Registry{
		drafts:  make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		applier: applier,
		session: src,
	}
}

// Open starts a new draft for jobID and returns its id.
func (r *Registry) Open(ctx context.Context, jobID string) (string, *Wizard) {
	owner := ""
	if id, ok := r.session.CurrentUser(ctx); ok {
		owner = id.ID
	}
	w := New(jobID, r.applier, r.session)
	draftID := uuid.NewString()

	r.mu.Lock()
	r.sweepLocked()
	r.drafts[draftID] = &entry{ownerID: owner, wizard: w, touched: r.now()}
	r.mu.Unlock()

	metrics.IncDraftOpened()
	telemetry.Info("draft.opened", map[string]any{"draft_id": draftID, "job_id": jobID, "user_id": owner})
	return draftID, w
}

// Get returns the draft if it is live and visible to the caller.
func (r *Registry) Get(ctx context.Context, draftID string) (*Wizard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.drafts[draftID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if r.now().Sub(e.touched) > r.ttl {
		delete(r.drafts, draftID)
		return nil, ErrDraftNotFound
	}
	if e.ownerID != "" {
		id, ok := r.session.CurrentUser(ctx)
		if !ok || id.ID != e.ownerID {
			return nil, ErrDraftNotFound
		}
	}
	e.touched = r.now()
	return e.wizard, nil
}

// Submit submits the draft and discards it on success.
func (r *Registry) Submit(ctx context.Context, draftID string) (*Wizard, error) {
	w, err := r.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := w.Submit(ctx); err != nil {
		return w, err
	}
	r.Discard(draftID)
	return w, nil
}

// Cancel cancels the draft and discards it.
func (r *Registry) Cancel(ctx context.Context, draftID string) (*Wizard, error) {
	w, err := r.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := w.Cancel(); err != nil {
		return w, err
	}
	r.Discard(draftID)
	return w, nil
}

// Discard drops a draft.
func (r *Registry) Discard(draftID string) {
	r.mu.Lock()
	delete(r.drafts, draftID)
	r.mu.Unlock()
}

// Len reports the number of held drafts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

// Sweep removes idle drafts and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked()
}

func (r *Registry) sweepLocked() int {
	now := r.now()
	n := 0
	for id, e := range r.drafts {
		if now.Sub(e.touched) > r.ttl {
			delete(r.drafts, id)
			n++
		}
	}
	return n
}

// Run sweeps idle drafts every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				telemetry.Info("draft.swept", map[string]any{"count": n})
			}
		}
	}
}
