package setting

import (
	"context"
	"fmt"
	"strings"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	sessionentity "github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session/entity"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/setting/entity"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/setting/repo"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/user"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

const (
	RejectInvalidPIN     session.Rejection = "invalid_pin"
	RejectInvalidSupport session.Rejection = "invalid_support_request"
)

// sentinel errors for rejected settings forms
var (
	ErrInvalidPIN     = session.Reject(RejectInvalidPIN)
	ErrInvalidSupport = session.Reject(RejectInvalidSupport)
)

var forms = utilities.NewValidator(nil)

// pinChange is the PIN form. The current PIN is only checked for shape.
type pinChange struct {
	Current string `json:"currentPin" validate:"len=4,number"`
	New     string `json:"newPin" validate:"len=4,number"`
	Confirm string `json:"confirmPin" validate:"eqfield=New"`
}

// Service backs the settings page: profile edits, PIN change and support.
type Service struct {
	store *session.Store
	users *user.UserService
	repo  *repo.Repo
}

// NewService constructs a Service with the provided collaborators.
func NewService(store *session.Store, users *user.UserService, r *repo.Repo) *Service {
	return &Service{store: store, users: users, repo: r}
}

// UpdateProfile changes name and phone through the session store.
func (s *Service) UpdateProfile(ctx context.Context, sid, name, phone string) (*sessionentity.UserProfile, error) {
	return s.store.UpdateProfile(ctx, sid, name, phone)
}

// ChangePIN stores a new transaction PIN. The current PIN is only checked for
// shape.
func (s *Service) ChangePIN(ctx context.Context, sid, current, next, confirm string) error {
	if err := s.requireAuthenticated(ctx, sid); err != nil {
		return err
	}
	if err := forms.Struct(pinChange{Current: current, New: next, Confirm: confirm}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPIN, utilities.ValidationMessage(err))
	}
	return s.users.SetPIN(ctx, sid, next)
}

// Submit records a support request for the tab.
func (s *Service) Submit(ctx context.Context, sid, subject, message string) (*entity.SupportRequest, error) {
	subject, message = strings.TrimSpace(subject), strings.TrimSpace(message)
	if err := forms.Struct(entity.SupportRequest{Subject: subject, Message: message}); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSupport, utilities.ValidationMessage(err))
	}
	snap, err := s.store.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !snap.Authenticated || snap.Profile == nil {
		return nil, session.ErrNotAuthenticated
	}
	req := entity.NewSupportRequest(utilities.NewSnowflakeID(), subject, message,
		snap.Profile.Email, snap.Profile.Phone, s.store.Clock().Now().UTC())
	if err := s.repo.Create(ctx, sid, req); err != nil {
		return nil, err
	}
	return req, nil
}

// List returns the tab's support requests, newest first.
func (s *Service) List(ctx context.Context, sid string) ([]*entity.SupportRequest, error) {
	return s.repo.List(ctx, sid)
}

func (s *Service) requireAuthenticated(ctx context.Context, sid string) error {
	ok, err := s.store.IsAuthenticated(ctx, sid)
	if err != nil {
		return err
	}
	if !ok {
		return session.ErrNotAuthenticated
	}
	return nil
}
