// Package session is the authority for a tab session's authentication flag
// and its UserProfile. All writes go through Store, which validates them,
// persists the result through the key-value layer and notifies subscribers.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/kv"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session/entity"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// forms validates request structs and the parts of a profile they produce.
var forms = utilities.NewValidator(nil)

// Routes the client is sent to after auth transitions.
const (
	RouteVerifyOTP = "/verify-otp"
	RouteDashboard = "/dashboard"
	RouteLanding   = "/"
	RouteLogin     = "/login"
)

type EventKind string

const (
	EventLogin               EventKind = "login"
	EventAuthenticated       EventKind = "authenticated"
	EventLogout              EventKind = "logout"
	EventUpdated             EventKind = "updated"
	EventDeposit             EventKind = "deposit"
	EventWithdrawal          EventKind = "withdrawal"
	EventInvestment          EventKind = "investment"
	EventBankLinked          EventKind = "bank_linked"
	EventAutoInvestSet       EventKind = "auto_invest_set"
	EventAutoInvestCancelled EventKind = "auto_invest_cancelled"
	EventReinvestChanged     EventKind = "reinvest_changed"
	EventProfileUpdated      EventKind = "profile_updated"
)

// Event describes a completed state change. Profile is nil after logout.
type Event struct {
	SessionID   string
	Kind        EventKind
	Amount      decimal.Decimal
	Description string
	Profile     *entity.UserProfile
	At          time.Time
}

// Subscriber is called synchronously after every successful change.
type Subscriber func(ctx context.Context, ev Event)

// Snapshot is the read view of a tab session.
type Snapshot struct {
	Authenticated bool                `json:"authenticated"`
	Email         string              `json:"email,omitempty"`
	Profile       *entity.UserProfile `json:"userData"`
}

type Store struct {
	locks   scopeLocks
	persist *Persistence
	latency Latency
	clock   clockwork.Clock
	logger  *zap.SugaredLogger

	subsMu  sync.RWMutex
	subs    map[int]Subscriber
	nextSub int
}

type Option func(*Store)

func WithLatency(l Latency) Option { return func(s *Store) { s.latency = l } }

func WithClock(c clockwork.Clock) Option { return func(s *Store) { s.clock = c } }

func WithLogger(l *zap.SugaredLogger) Option { return func(s *Store) { s.logger = l } }

// NewStore builds a Store over the given key-value layer. Without options it
// uses the real clock, the demo latencies and a no-op logger.
func NewStore(store kv.Store, opts ...Option) *Store {
	s := &Store{
		persist: NewPersistence(store),
		latency: DefaultLatency(),
		clock:   clockwork.NewRealClock(),
		logger:  zap.NewNop().Sugar(),
		subs:    make(map[int]Subscriber),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Clock exposes the store's time source to collaborators.
func (s *Store) Clock() clockwork.Clock { return s.clock }

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) notify(ctx context.Context, ev Event) {
	ev.At = s.clock.Now()
	s.subsMu.RLock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.RUnlock()
	for _, fn := range subs {
		fn(ctx, ev)
	}
}

// Login records the email pending OTP verification. It does not authenticate.
func (s *Store) Login(ctx context.Context, sid, email string) (string, error) {
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if err := sleep(ctx, s.clock, s.latency.Login); err != nil {
		return "", err
	}
	unlock := s.locks.lock(sid)
	err := s.persist.SetEmail(ctx, sid, email)
	unlock()
	if err != nil {
		return "", fmt.Errorf("store email: %w", err)
	}
	s.logger.Debugw("login pending otp", "sid", sid)
	s.notify(ctx, Event{SessionID: sid, Kind: EventLogin})
	return RouteVerifyOTP, nil
}

// VerifyOTP accepts any 4-digit code, authenticates the tab and seeds the
// demo profile. It returns the dashboard route.
func (s *Store) VerifyOTP(ctx context.Context, sid, code string) (Snapshot, string, error) {
	if !validOTP(code) {
		return Snapshot{}, "", fmt.Errorf("%w: code must be 4 digits", ErrInvalidOTP)
	}
	if err := sleep(ctx, s.clock, s.latency.VerifyOTP); err != nil {
		return Snapshot{}, "", err
	}

	snap, err := func() (Snapshot, error) {
		defer s.locks.lock(sid)()
		st, err := s.persist.Load(ctx, sid)
		if err != nil {
			return Snapshot{}, err
		}
		if st.Email == "" {
			return Snapshot{}, ErrLoginRequired
		}
		prof := DemoProfile()
		if err := s.persist.MarkAuthenticated(ctx, sid); err != nil {
			return Snapshot{}, fmt.Errorf("mark authenticated: %w", err)
		}
		if err := s.persist.SaveProfile(ctx, sid, prof); err != nil {
			return Snapshot{}, fmt.Errorf("save profile: %w", err)
		}
		return Snapshot{Authenticated: true, Email: st.Email, Profile: &prof}, nil
	}()
	if err != nil {
		return Snapshot{}, "", err
	}

	s.logger.Infow("tab authenticated", "sid", sid)
	cp := snap.Profile.Clone()
	s.notify(ctx, Event{SessionID: sid, Kind: EventAuthenticated, Profile: &cp})
	return snap, RouteDashboard, nil
}

// Load returns the tab's current state. An authenticated tab without a stored
// profile is seeded with the demo profile.
func (s *Store) Load(ctx context.Context, sid string) (Snapshot, error) {
	defer s.locks.lock(sid)()
	st, err := s.loadLocked(ctx, sid)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Authenticated: st.Authenticated, Email: st.Email, Profile: st.Profile}, nil
}

// IsAuthenticated reports whether the tab has passed OTP verification.
func (s *Store) IsAuthenticated(ctx context.Context, sid string) (bool, error) {
	snap, err := s.Load(ctx, sid)
	if err != nil {
		return false, err
	}
	return snap.Authenticated, nil
}

func (s *Store) loadLocked(ctx context.Context, sid string) (State, error) {
	st, err := s.persist.Load(ctx, sid)
	if err != nil {
		return st, fmt.Errorf("load session: %w", err)
	}
	if st.Authenticated && st.Profile == nil {
		prof := DemoProfile()
		if err := s.persist.SaveProfile(ctx, sid, prof); err != nil {
			return st, fmt.Errorf("seed profile: %w", err)
		}
		st.Profile = &prof
	}
	return st, nil
}

// UpdateUserData shallow-merges patch into the profile. The merged profile
// must pass the same checks as the typed commands: non-negative balances, a
// well-formed bank account and an auto-invest plan that is valid and, while
// active, backed by a linked bank.
func (s *Store) UpdateUserData(ctx context.Context, sid string, patch entity.Patch) (*entity.UserProfile, error) {
	return s.mutate(ctx, sid, EventUpdated, decimal.Zero, "", func(p entity.UserProfile) (entity.UserProfile, error) {
		return p.Merge(patch), nil
	})
}

// Logout clears the session flag, the pending email and the profile.
func (s *Store) Logout(ctx context.Context, sid string) (string, error) {
	unlock := s.locks.lock(sid)
	err := s.persist.Clear(ctx, sid)
	unlock()
	if err != nil {
		return "", fmt.Errorf("clear session: %w", err)
	}
	s.logger.Infow("tab logged out", "sid", sid)
	s.notify(ctx, Event{SessionID: sid, Kind: EventLogout})
	return RouteLanding, nil
}

// mutate runs fn against the current profile under the tab's lock, checks
// the profile invariants, persists and then notifies.
func (s *Store) mutate(ctx context.Context, sid string, kind EventKind, amount decimal.Decimal, desc string,
	fn func(entity.UserProfile) (entity.UserProfile, error)) (*entity.UserProfile, error) {
	next, err := func() (entity.UserProfile, error) {
		defer s.locks.lock(sid)()
		st, err := s.loadLocked(ctx, sid)
		if err != nil {
			return entity.UserProfile{}, err
		}
		if !st.Authenticated || st.Profile == nil {
			return entity.UserProfile{}, ErrNotAuthenticated
		}
		next, err := fn(st.Profile.Clone())
		if err != nil {
			return entity.UserProfile{}, err
		}
		if err := checkProfile(next); err != nil {
			return entity.UserProfile{}, err
		}
		if err := s.persist.SaveProfile(ctx, sid, next); err != nil {
			return entity.UserProfile{}, fmt.Errorf("save profile: %w", err)
		}
		return next, nil
	}()
	if err != nil {
		if _, ok := ReasonOf(err); ok {
			s.logger.Debugw("command rejected", "sid", sid, "kind", kind, "err", err)
		}
		return nil, err
	}
	cp := next.Clone()
	s.notify(ctx, Event{SessionID: sid, Kind: kind, Amount: amount, Description: desc, Profile: &cp})
	return &next, nil
}

// checkProfile holds every invariant a stored profile must satisfy,
// whichever command produced it.
func checkProfile(p entity.UserProfile) error {
	if err := checkBalances(p); err != nil {
		return err
	}
	if b := p.LinkedBankAccount; b != nil {
		if err := ValidateBankAccount(*b); err != nil {
			return err
		}
	}
	plan := p.AutoInvest
	if plan == nil {
		return nil
	}
	if err := forms.Struct(plan); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPlan, utilities.ValidationMessage(err))
	}
	if plan.Amount.LessThan(MinAutoInvest) {
		return fmt.Errorf("%w: auto-invest amount must be at least %s", ErrInvalidAmount, MinAutoInvest)
	}
	if plan.Status == entity.PlanActive && p.LinkedBankAccount == nil {
		return fmt.Errorf("%w: link a bank account first", ErrMissingBankLink)
	}
	return nil
}

func checkBalances(p entity.UserProfile) error {
	fields := []struct {
		name string
		v    decimal.Decimal
	}{
		{"walletBalance", p.WalletBalance},
		{"totalInvested", p.TotalInvested},
		{"currentInvested", p.CurrentInvested},
		{"totalDeductions", p.TotalDeductions},
	}
	for _, f := range fields {
		if f.v.IsNegative() {
			return fmt.Errorf("%w: %s would be %s", ErrInvalidAmount, f.name, f.v)
		}
	}
	return nil
}

// ValidEmail accepts a bare address such as "alex@example.com".
func ValidEmail(s string) bool {
	return forms.Var(s, "required,email") == nil
}

func validOTP(code string) bool {
	return forms.Var(code, "len=4,number") == nil
}
