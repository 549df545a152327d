package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session/entity"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// MinAutoInvest is the smallest recurring debit accepted.
var MinAutoInvest = decimal.NewFromInt(1000)

// requirePositive also rejects fractions of a kobo.
func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount %s has more than 2 decimal places", ErrInvalidAmount, amount)
	}
	return nil
}

func requireFunds(p entity.UserProfile, amount decimal.Decimal) error {
	if amount.GreaterThan(p.WalletBalance) {
		return fmt.Errorf("%w: %s requested, %s available", ErrInsufficientFunds, amount, p.WalletBalance)
	}
	return nil
}

// Deposit credits the wallet. method is informational ("Card Payment",
// "Bank Transfer", ...).
func (s *Store) Deposit(ctx context.Context, sid string, amount decimal.Decimal, method string) (*entity.UserProfile, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	desc := "Wallet Funding"
	if method = strings.TrimSpace(method); method != "" {
		desc += " via " + method
	}
	return s.mutate(ctx, sid, EventDeposit, amount, desc, func(p entity.UserProfile) (entity.UserProfile, error) {
		p.WalletBalance = p.WalletBalance.Add(amount)
		return p, nil
	})
}

// Withdraw debits the wallet; the amount may not exceed the balance.
func (s *Store) Withdraw(ctx context.Context, sid string, amount decimal.Decimal) (*entity.UserProfile, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sid, EventWithdrawal, amount.Neg(), "Withdrawal to Bank Account", func(p entity.UserProfile) (entity.UserProfile, error) {
		if err := requireFunds(p, amount); err != nil {
			return p, err
		}
		p.WalletBalance = p.WalletBalance.Sub(amount)
		return p, nil
	})
}

// TopUp moves money from the wallet into the invested totals.
func (s *Store) TopUp(ctx context.Context, sid string, amount decimal.Decimal) (*entity.UserProfile, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sid, EventInvestment, amount.Neg(), "Investment Top-up", invest(amount))
}

// InvestOrder buys into a catalog product.
type InvestOrder struct {
	ProductID   int
	ProductName string
	Minimum     decimal.Decimal
	Amount      decimal.Decimal
}

// Invest is a TopUp that must also meet the product's minimum.
func (s *Store) Invest(ctx context.Context, sid string, o InvestOrder) (*entity.UserProfile, error) {
	if err := requirePositive(o.Amount); err != nil {
		return nil, err
	}
	if o.Amount.LessThan(o.Minimum) {
		return nil, fmt.Errorf("%w: minimum investment for %s is %s", ErrInvalidAmount, o.ProductName, o.Minimum)
	}
	return s.mutate(ctx, sid, EventInvestment, o.Amount.Neg(), o.ProductName+" Purchase", invest(o.Amount))
}

func invest(amount decimal.Decimal) func(entity.UserProfile) (entity.UserProfile, error) {
	return func(p entity.UserProfile) (entity.UserProfile, error) {
		if err := requireFunds(p, amount); err != nil {
			return p, err
		}
		p.WalletBalance = p.WalletBalance.Sub(amount)
		p.CurrentInvested = p.CurrentInvested.Add(amount)
		p.TotalInvested = p.TotalInvested.Add(amount)
		return p, nil
	}
}

// ValidateBankAccount checks the linking form: a 10-digit account number, an
// account name of at least 3 characters and a bank name.
func ValidateBankAccount(b entity.BankAccount) error {
	if err := forms.Struct(b); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBankDetails, utilities.ValidationMessage(err))
	}
	return nil
}

// LinkBank sets or replaces the linked bank account.
func (s *Store) LinkBank(ctx context.Context, sid string, b entity.BankAccount) (*entity.UserProfile, error) {
	b.AccountName = strings.TrimSpace(b.AccountName)
	b.BankName = strings.TrimSpace(b.BankName)
	if err := ValidateBankAccount(b); err != nil {
		return nil, err
	}
	if err := sleep(ctx, s.clock, s.latency.LinkBank); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sid, EventBankLinked, decimal.Zero, "Linked "+b.BankName, func(p entity.UserProfile) (entity.UserProfile, error) {
		p.LinkedBankAccount = &b
		return p, nil
	})
}

// PlanRequest is the auto-invest setup form.
type PlanRequest struct {
	Amount    decimal.Decimal
	Frequency entity.Frequency `validate:"oneof=weekly biweekly monthly quarterly"`
	StartDate string           `validate:"required,datetime=2006-01-02"`
}

// SetAutoInvest activates a recurring plan. It needs a linked bank account.
func (s *Store) SetAutoInvest(ctx context.Context, sid string, req PlanRequest) (*entity.UserProfile, error) {
	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}
	if req.Amount.LessThan(MinAutoInvest) {
		return nil, fmt.Errorf("%w: auto-invest amount must be at least %s", ErrInvalidAmount, MinAutoInvest)
	}
	if err := forms.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPlan, utilities.ValidationMessage(err))
	}
	start, err := time.Parse(utilities.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrInvalidPlan)
	}
	today := s.clock.Now().UTC().Format(utilities.DateLayout)
	if start.Format(utilities.DateLayout) < today {
		return nil, fmt.Errorf("%w: start date %s is in the past", ErrInvalidPlan, req.StartDate)
	}
	if err := sleep(ctx, s.clock, s.latency.AutoInvest); err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Auto-invest %s from %s", req.Frequency, req.StartDate)
	return s.mutate(ctx, sid, EventAutoInvestSet, req.Amount, desc, func(p entity.UserProfile) (entity.UserProfile, error) {
		if p.LinkedBankAccount == nil {
			return p, fmt.Errorf("%w: link a bank account first", ErrMissingBankLink)
		}
		p.AutoInvest = &entity.AutoInvestPlan{
			Amount:    req.Amount,
			Frequency: req.Frequency,
			StartDate: req.StartDate,
			Status:    entity.PlanActive,
		}
		return p, nil
	})
}

// CancelAutoInvest marks the active plan cancelled and keeps its terms.
func (s *Store) CancelAutoInvest(ctx context.Context, sid string) (*entity.UserProfile, error) {
	return s.mutate(ctx, sid, EventAutoInvestCancelled, decimal.Zero, "Auto-invest cancelled", func(p entity.UserProfile) (entity.UserProfile, error) {
		if !p.HasActivePlan() {
			return p, ErrNoActivePlan
		}
		plan := *p.AutoInvest
		plan.Status = entity.PlanCancelled
		p.AutoInvest = &plan
		return p, nil
	})
}

func (s *Store) SetReinvestReturns(ctx context.Context, sid string, enabled bool) (*entity.UserProfile, error) {
	return s.mutate(ctx, sid, EventReinvestChanged, decimal.Zero, "", func(p entity.UserProfile) (entity.UserProfile, error) {
		p.ReinvestReturns = &enabled
		return p, nil
	})
}

// UpdateProfile changes the editable identity fields. Email stays fixed.
func (s *Store) UpdateProfile(ctx context.Context, sid, name, phone string) (*entity.UserProfile, error) {
	name, phone = strings.TrimSpace(name), strings.TrimSpace(phone)
	if len(name) < 3 {
		return nil, fmt.Errorf("%w: name must be at least 3 characters", ErrInvalidProfile)
	}
	if len(phone) < 10 {
		return nil, fmt.Errorf("%w: phone number is too short", ErrInvalidProfile)
	}
	return s.mutate(ctx, sid, EventProfileUpdated, decimal.Zero, "", func(p entity.UserProfile) (entity.UserProfile, error) {
		p.Name, p.Phone = name, phone
		return p, nil
	})
}
