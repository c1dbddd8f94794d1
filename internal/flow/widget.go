package flow

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("widget session not found")
	ErrTooManySessions  = errors.New("too many widget sessions")
	ErrUnknownEvent     = errors.New("unknown widget event")
	ErrPresetNotOffered = errors.New("amount is not one of the offered presets")
)

// widgetSession serializes steps on step. mu guards state and updatedAt and
// is never held across a machine step, so reads see the last settled state.
type widgetSession struct {
	step      sync.Mutex
	mu        sync.Mutex
	state     State
	updatedAt time.Time
}

func (s *widgetSession) load() (State, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.updatedAt
}

func (s *widgetSession) store(state State, at time.Time) {
	s.mu.Lock()
	s.state, s.updatedAt = state, at
	s.mu.Unlock()
}

// SessionView is what the widget client receives after each step.
type SessionView struct {
	ID        string    `json:"id"`
	State     Snapshot  `json:"state"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Presets   []string  `json:"presets"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WidgetSessions keeps widget flows in memory. Steps on one session are
// serialized, different sessions run in parallel.
type WidgetSessions struct {
	machine  *Machine
	presets  []string
	currency string
	ttl      time.Duration
	max      int
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]*widgetSession
}

func NewWidgetSessions(machine *Machine, presets []string, currency string, ttl time.Duration, max int, now func() time.Time) *WidgetSessions {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &WidgetSessions{
		machine:  machine,
		presets:  presets,
		currency: currency,
		ttl:      ttl,
		max:      max,
		now:      now,
		sessions: make(map[string]*widgetSession),
	}
}

// Start opens a session for the creator positioned at amount selection.
func (w *WidgetSessions) Start(ctx context.Context, creatorID, creatorName string) (SessionView, error) {
	state := w.machine.Step(ctx, Initial{CreatorID: creatorID}, Start{CreatorID: creatorID})

	w.mu.Lock()
	if w.max > 0 && len(w.sessions) >= w.max {
		w.sweepLocked()
	}
	if w.max > 0 && len(w.sessions) >= w.max {
		w.mu.Unlock()
		return SessionView{}, ErrTooManySessions
	}
	id := uuid.NewString()
	sess := &widgetSession{state: state, updatedAt: w.now()}
	w.sessions[id] = sess
	w.mu.Unlock()

	return w.view(id, sess, creatorName), nil
}

func (w *WidgetSessions) Get(id, creatorName string) (SessionView, error) {
	sess, err := w.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	return w.view(id, sess, creatorName), nil
}

// CreatorOf returns the creator the session tips.
func (w *WidgetSessions) CreatorOf(id string) (string, error) {
	sess, err := w.lookup(id)
	if err != nil {
		return "", err
	}
	state, _ := sess.load()
	return state.Creator(), nil
}

// Dispatch applies ev to the session. Steps on one session run one at a
// time, including a tip submission; Get keeps answering with the state from
// before the step until it settles.
func (w *WidgetSessions) Dispatch(ctx context.Context, id string, ev Event, creatorName string) (SessionView, error) {
	sess, err := w.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	if p, ok := ev.(ChoosePreset); ok {
		amount, valid := NormalizeAmount(p.Amount)
		if !valid || !slices.Contains(w.presets, amount) {
			return SessionView{}, ErrPresetNotOffered
		}
	}

	sess.step.Lock()
	defer sess.step.Unlock()
	state, _ := sess.load()
	sess.store(w.machine.Step(ctx, state, ev), w.now())
	return w.view(id, sess, creatorName), nil
}

// Sweep drops expired sessions and returns how many were removed.
func (w *WidgetSessions) Sweep() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sweepLocked()
}

func (w *WidgetSessions) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sessions)
}

// Run sweeps every interval until ctx is done.
func (w *WidgetSessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

func (w *WidgetSessions) sweepLocked() int {
	now := w.now()
	removed := 0
	for id, sess := range w.sessions {
		// a session in the middle of a step is busy, not expired
		if !sess.step.TryLock() {
			continue
		}
		_, updatedAt := sess.load()
		sess.step.Unlock()
		if now.Sub(updatedAt) > w.ttl {
			delete(w.sessions, id)
			removed++
		}
	}
	return removed
}

func (w *WidgetSessions) lookup(id string) (*widgetSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sess, ok := w.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.step.TryLock() {
		_, updatedAt := sess.load()
		sess.step.Unlock()
		if w.now().Sub(updatedAt) > w.ttl {
			delete(w.sessions, id)
			return nil, ErrSessionNotFound
		}
	}
	return sess, nil
}

func (w *WidgetSessions) view(id string, sess *widgetSession, creatorName string) SessionView {
	state, updatedAt := sess.load()
	title, subtitle := Describe(state, creatorName, w.currency)
	return SessionView{
		ID:        id,
		State:     SnapshotOf(state),
		Title:     title,
		Subtitle:  subtitle,
		Presets:   w.presets,
		ExpiresAt: updatedAt.Add(w.ttl),
	}
}

// EventRequest is the JSON body of a widget event.
type EventRequest struct {
	Type       string `json:"type"`
	Amount     string `json:"amount,omitempty"`
	Input      string `json:"input,omitempty"`
	Message    string `json:"message,omitempty"`
	FanAddress string `json:"fan_address,omitempty"`
	TxHash     string `json:"transaction_hash,omitempty"`
}

func (r EventRequest) Event() (Event, error) {
	switch strings.ToLower(strings.TrimSpace(r.Type)) {
	case "choose_preset":
		return ChoosePreset{Amount: r.Amount}, nil
	case "choose_custom":
		return ChooseCustom{}, nil
	case "enter_custom":
		return EnterCustom{Input: r.Input}, nil
	case "enter_message":
		return EnterMessage{Message: r.Message}, nil
	case "skip_message":
		return SkipMessage{}, nil
	case "back":
		return Back{}, nil
	case "submit":
		return Submit{FanAddress: r.FanAddress, TxHash: r.TxHash}, nil
	case "tip_again":
		return TipAgain{}, nil
	case "try_again":
		return TryAgain{}, nil
	default:
		return nil, ErrUnknownEvent
	}
}
