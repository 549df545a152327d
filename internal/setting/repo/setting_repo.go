package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/kv"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/setting/entity"
)

// KeySupportRequests holds the tab's support requests, newest first.
const KeySupportRequests = "supportRequests"

// Repo stores support requests in the tab's key-value scope.
type Repo struct {
	mu sync.Mutex
	kv kv.Store
}

func NewRepo(store kv.Store) *Repo {
	return &Repo{kv: store}
}

// Create prepends req to the tab's list.
func (r *Repo) Create(ctx context.Context, sid string, req *entity.SupportRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, err := r.list(ctx, sid)
	if err != nil {
		return err
	}
	list = append([]*entity.SupportRequest{req}, list...)
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal support requests: %w", err)
	}
	if err := r.kv.Set(ctx, sid, KeySupportRequests, string(raw)); err != nil {
		return fmt.Errorf("save support requests: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context, sid string) ([]*entity.SupportRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(ctx, sid)
}

func (r *Repo) list(ctx context.Context, sid string) ([]*entity.SupportRequest, error) {
	raw, err := r.kv.Get(ctx, sid, KeySupportRequests)
	if errors.Is(err, kv.ErrNotFound) {
		return []*entity.SupportRequest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load support requests: %w", err)
	}
	var list []*entity.SupportRequest
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode support requests: %w", err)
	}
	return list, nil
}
