package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/kv"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/user/entity"
)

// Keys owned by onboarding.
const (
	KeyRegistration   = "registration"
	KeyKYC            = "kyc"
	KeyTransactionPin = "transactionPin"
)

var ErrNotFound = errors.New("onboarding record not found")

// UserRepo persists onboarding records in the tab's key-value scope.
type UserRepo struct {
	kv kv.Store
}

func NewUserRepo(store kv.Store) *UserRepo { return &UserRepo{kv: store} }

func (r *UserRepo) SaveRegistration(ctx context.Context, sid string, reg entity.Registration) error {
	return r.put(ctx, sid, KeyRegistration, reg)
}

// GetRegistration returns ErrNotFound when the tab never registered.
func (r *UserRepo) GetRegistration(ctx context.Context, sid string) (*entity.Registration, error) {
	var reg entity.Registration
	if err := r.get(ctx, sid, KeyRegistration, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *UserRepo) SaveKYC(ctx context.Context, sid string, k entity.KYC) error {
	return r.put(ctx, sid, KeyKYC, k)
}

func (r *UserRepo) GetKYC(ctx context.Context, sid string) (*entity.KYC, error) {
	var k entity.KYC
	if err := r.get(ctx, sid, KeyKYC, &k); err != nil {
		return nil, err
	}
	return &k, nil
}

// SavePINHash stores the bcrypt hash of the transaction PIN.
func (r *UserRepo) SavePINHash(ctx context.Context, sid, hash string) error {
	if err := r.kv.Set(ctx, sid, KeyTransactionPin, hash); err != nil {
		return fmt.Errorf("save pin: %w", err)
	}
	return nil
}

func (r *UserRepo) GetPINHash(ctx context.Context, sid string) (string, error) {
	v, err := r.kv.Get(ctx, sid, KeyTransactionPin)
	if errors.Is(err, kv.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *UserRepo) put(ctx context.Context, sid, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, sid, key, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *UserRepo) get(ctx context.Context, sid, key string, dst any) error {
	raw, err := r.kv.Get(ctx, sid, key)
	if errors.Is(err, kv.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
