// Package activity keeps the per-tab feed of money movements and account
// changes shown on the dashboard.
package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/kv"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// Key is the key-value entry holding the feed.
const Key = "activity"

// MaxEntries caps the feed; older entries fall off.
const MaxEntries = 50

type Entry struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Display     string          `json:"display,omitempty"`
	Date        time.Time       `json:"date"`
}

var recorded = map[session.EventKind]bool{
	session.EventDeposit:             true,
	session.EventWithdrawal:          true,
	session.EventInvestment:          true,
	session.EventBankLinked:          true,
	session.EventAutoInvestSet:       true,
	session.EventAutoInvestCancelled: true,
}

// Recorder subscribes to the session store and appends feed entries.
type Recorder struct {
	mu     sync.Mutex
	kv     kv.Store
	logger *zap.SugaredLogger
}

func NewRecorder(store kv.Store, logger *zap.SugaredLogger) *Recorder {
	return &Recorder{kv: store, logger: logger}
}

// Attach subscribes r to store and returns the unsubscribe func.
func (r *Recorder) Attach(store *session.Store) func() {
	return store.Subscribe(r.Handle)
}

// Handle is the session.Subscriber. Logout wipes the feed.
func (r *Recorder) Handle(ctx context.Context, ev session.Event) {
	if ev.Kind == session.EventLogout {
		if err := r.Clear(ctx, ev.SessionID); err != nil {
			r.logger.Warnw("clear activity", "sid", ev.SessionID, "err", err)
		}
		return
	}
	if !recorded[ev.Kind] {
		return
	}
	e := Entry{
		ID:          utilities.NewSnowflakeID(),
		Type:        string(ev.Kind),
		Description: ev.Description,
		Amount:      ev.Amount,
		Display:     utilities.FormatSignedMoney(ev.Amount),
		Date:        ev.At,
	}
	if err := r.append(ctx, ev.SessionID, e); err != nil {
		r.logger.Warnw("record activity", "sid", ev.SessionID, "kind", ev.Kind, "err", err)
	}
}

func (r *Recorder) append(ctx context.Context, sid string, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, err := r.load(ctx, sid)
	if err != nil {
		return err
	}
	entries = append([]Entry{e}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	return r.kv.Set(ctx, sid, Key, string(raw))
}

// List returns the feed newest first.
func (r *Recorder) List(ctx context.Context, sid string) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx, sid)
}

func (r *Recorder) Clear(ctx context.Context, sid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kv.Delete(ctx, sid, Key)
}

func (r *Recorder) load(ctx context.Context, sid string) ([]Entry, error) {
	raw, err := r.kv.Get(ctx, sid, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	return entries, nil
}
