package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// Next routes of the onboarding flow.
const (
	RouteKYC   = "/kyc"
	RouteLogin = session.RouteLogin
)

const (
	RejectInvalidRegistration session.Rejection = "invalid_registration"
	RejectInvalidKYC          session.Rejection = "invalid_kyc"
	RejectRegistrationMissing session.Rejection = "registration_required"
)

var (
	ErrInvalidRegistration = session.Reject(RejectInvalidRegistration)
	ErrInvalidKYC          = session.Reject(RejectInvalidKYC)
	ErrRegistrationMissing = session.Reject(RejectRegistrationMissing)
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (hash string, algo string, err error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", "", err
	}
	return string(h), fmt.Sprintf("bcrypt:%d", cost), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// UserService runs the registration and KYC steps of onboarding.
type UserService struct {
	repo     *userrepo.UserRepo
	hasher   PasswordHasher
	clock    clockwork.Clock
	validate *validator.Validate
}

func NewUserService(r *userrepo.UserRepo, hasher PasswordHasher, clock clockwork.Clock) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &UserService{repo: r, hasher: hasher, clock: clock, validate: utilities.NewValidator(clock)}
}

type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"min=3,max=50"`
	LastName        string `json:"lastName" validate:"min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Country         string `json:"country" validate:"notblank"`
	PhoneNumber     string `json:"phoneNumber" validate:"min=4"`
	Password        string `json:"password" validate:"min=8,max=20,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	ReferralCode    string `json:"referralCode,omitempty"`
}

// normalize trims the free-text fields; passwords are taken verbatim.
func (req RegisterRequest) normalize() RegisterRequest {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Country = strings.TrimSpace(req.Country)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.ReferralCode = strings.TrimSpace(req.ReferralCode)
	return req
}

// ValidateRegistration applies the sign-up form rules.
func (s *UserService) ValidateRegistration(req RegisterRequest) error {
	if err := s.validate.Struct(req.normalize()); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRegistration, utilities.ValidationMessage(err))
	}
	return nil
}

// Register stores the sign-up record and returns the next route.
func (s *UserService) Register(ctx context.Context, sid string, req RegisterRequest) (string, error) {
	if err := s.ValidateRegistration(req); err != nil {
		return "", err
	}
	req = req.normalize()
	hash, algo, err := s.hasher.Hash(req.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	reg := entity.Registration{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Country:      req.Country,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		PasswordAlgo: algo,
		ReferralCode: req.ReferralCode,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.repo.SaveRegistration(ctx, sid, reg); err != nil {
		return "", err
	}
	return RouteKYC, nil
}

// ValidateKYC checks the three KYC sections; the age check uses the service
// clock.
func (s *UserService) ValidateKYC(k entity.KYC) error {
	if err := s.validate.Struct(k); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidKYC, utilities.ValidationMessage(err))
	}
	return nil
}

// SubmitKYC stores the verification record for a registered tab. The PIN and
// the secret answer are kept only as bcrypt hashes.
func (s *UserService) SubmitKYC(ctx context.Context, sid string, k entity.KYC) (string, error) {
	if _, err := s.repo.GetRegistration(ctx, sid); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", fmt.Errorf("%w: register before submitting kyc", ErrRegistrationMissing)
		}
		return "", err
	}
	if err := s.ValidateKYC(k); err != nil {
		return "", err
	}
	pinHash, _, err := s.hasher.Hash(k.Transaction.TransactionPin)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	answerHash, _, err := s.hasher.Hash(strings.ToLower(strings.TrimSpace(k.Transaction.SecretAnswer)))
	if err != nil {
		return "", fmt.Errorf("hash secret answer: %w", err)
	}
	k.Transaction.TransactionPin = ""
	k.Transaction.ConfirmTransactionPin = ""
	k.Transaction.SecretAnswer = ""
	k.Transaction.SecretAnswerHash = answerHash
	k.SubmittedAt = s.clock.Now().UTC()

	if err := s.repo.SaveKYC(ctx, sid, k); err != nil {
		return "", err
	}
	if err := s.repo.SavePINHash(ctx, sid, pinHash); err != nil {
		return "", err
	}
	return RouteLogin, nil
}

// SetPIN replaces the stored transaction PIN hash.
func (s *UserService) SetPIN(ctx context.Context, sid, pin string) error {
	hash, _, err := s.hasher.Hash(pin)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	return s.repo.SavePINHash(ctx, sid, hash)
}
