package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/kv"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session/entity"
)

// Keys of the tab-scoped entries owned by the store.
const (
	KeyAuthenticated = "isAuthenticated"
	KeyEmail         = "userEmail"
	KeyUserData      = "userData"
)

// State is everything the store keeps for one tab session.
type State struct {
	Authenticated bool
	Email         string
	Profile       *entity.UserProfile
}

// Persistence maps State onto the key-value layer.
type Persistence struct {
	kv kv.Store
}

func NewPersistence(store kv.Store) *Persistence {
	return &Persistence{kv: store}
}

// Load reads the tab's state. Missing keys leave the zero value.
func (p *Persistence) Load(ctx context.Context, sid string) (State, error) {
	var st State
	flag, err := p.get(ctx, sid, KeyAuthenticated)
	if err != nil {
		return st, err
	}
	st.Authenticated = flag == "true"
	if st.Email, err = p.get(ctx, sid, KeyEmail); err != nil {
		return st, err
	}
	raw, err := p.get(ctx, sid, KeyUserData)
	if err != nil {
		return st, err
	}
	if raw != "" {
		var prof entity.UserProfile
		if err := json.Unmarshal([]byte(raw), &prof); err != nil {
			return st, fmt.Errorf("decode %s: %w", KeyUserData, err)
		}
		st.Profile = &prof
	}
	return st, nil
}

func (p *Persistence) get(ctx context.Context, sid, key string) (string, error) {
	v, err := p.kv.Get(ctx, sid, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// SaveProfile serializes and writes the whole profile.
func (p *Persistence) SaveProfile(ctx context.Context, sid string, prof entity.UserProfile) error {
	b, err := json.Marshal(prof)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyUserData, err)
	}
	return p.kv.Set(ctx, sid, KeyUserData, string(b))
}

func (p *Persistence) SetEmail(ctx context.Context, sid, email string) error {
	return p.kv.Set(ctx, sid, KeyEmail, email)
}

func (p *Persistence) MarkAuthenticated(ctx context.Context, sid string) error {
	return p.kv.Set(ctx, sid, KeyAuthenticated, "true")
}

// Clear removes the session flag, the pending email and the profile.
func (p *Persistence) Clear(ctx context.Context, sid string) error {
	return p.kv.Delete(ctx, sid, KeyAuthenticated, KeyEmail, KeyUserData)
}
