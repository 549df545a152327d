package entity

import (
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts are rendered as JSON numbers, the way the dashboard expects them
	decimal.MarshalJSONWithoutQuotes = true
}

// GrowthPoint is one monthly snapshot of the portfolio value.
type GrowthPoint struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// BankAccount is the account linked for withdrawals and auto-invest debits.
type BankAccount struct {
	AccountNumber string `json:"accountNumber" validate:"len=10,number"`
	AccountName   string `json:"accountName" validate:"notblank,min=3"`
	BankName      string `json:"bankName" validate:"notblank,min=2"`
}

type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCancelled PlanStatus = "cancelled"
)

type Frequency string

const (
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
)

// AutoInvestPlan is a recurring debit from the linked bank account.
type AutoInvestPlan struct {
	Amount    decimal.Decimal `json:"amount"`
	Frequency Frequency       `json:"frequency" validate:"oneof=weekly biweekly monthly quarterly"`
	StartDate string          `json:"startDate" validate:"datetime=2006-01-02"`
	Status    PlanStatus      `json:"status" validate:"oneof=active cancelled"`
}

// UserProfile is the persisted account record of a tab session (the
// `userData` key).
type UserProfile struct {
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone,omitempty"`
	WalletBalance     decimal.Decimal `json:"walletBalance"`
	TotalInvested     decimal.Decimal `json:"totalInvested"`
	CurrentInvested   decimal.Decimal `json:"currentInvested"`
	TotalDeductions   decimal.Decimal `json:"totalDeductions"`
	ReinvestReturns   *bool           `json:"reinvestReturns,omitempty"`
	PortfolioGrowth   []GrowthPoint   `json:"portfolioGrowth"`
	LinkedBankAccount *BankAccount    `json:"linkedBankAccount,omitempty"`
	AutoInvest        *AutoInvestPlan `json:"autoInvest,omitempty"`
}

// Patch is a partial UserProfile. A nil field is absent from the patch and
// leaves the current value untouched. Email and the growth history are not
// patchable.
type Patch struct {
	Name              *string          `json:"name,omitempty"`
	Phone             *string          `json:"phone,omitempty"`
	WalletBalance     *decimal.Decimal `json:"walletBalance,omitempty"`
	TotalInvested     *decimal.Decimal `json:"totalInvested,omitempty"`
	CurrentInvested   *decimal.Decimal `json:"currentInvested,omitempty"`
	TotalDeductions   *decimal.Decimal `json:"totalDeductions,omitempty"`
	ReinvestReturns   *bool            `json:"reinvestReturns,omitempty"`
	LinkedBankAccount *BankAccount     `json:"linkedBankAccount,omitempty"`
	AutoInvest        *AutoInvestPlan  `json:"autoInvest,omitempty"`
}

// Merge returns a copy of p with every field present in patch overwritten.
func (p UserProfile) Merge(patch Patch) UserProfile {
	out := p.Clone()
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.Phone != nil {
		out.Phone = *patch.Phone
	}
	if patch.WalletBalance != nil {
		out.WalletBalance = *patch.WalletBalance
	}
	if patch.TotalInvested != nil {
		out.TotalInvested = *patch.TotalInvested
	}
	if patch.CurrentInvested != nil {
		out.CurrentInvested = *patch.CurrentInvested
	}
	if patch.TotalDeductions != nil {
		out.TotalDeductions = *patch.TotalDeductions
	}
	if patch.ReinvestReturns != nil {
		v := *patch.ReinvestReturns
		out.ReinvestReturns = &v
	}
	if patch.LinkedBankAccount != nil {
		v := *patch.LinkedBankAccount
		out.LinkedBankAccount = &v
	}
	if patch.AutoInvest != nil {
		v := *patch.AutoInvest
		out.AutoInvest = &v
	}
	return out
}

// Then composes two patches so that p.Merge(a.Then(b)) equals
// p.Merge(a).Merge(b).
func (a Patch) Then(b Patch) Patch {
	out := a
	if b.Name != nil {
		out.Name = b.Name
	}
	if b.Phone != nil {
		out.Phone = b.Phone
	}
	if b.WalletBalance != nil {
		out.WalletBalance = b.WalletBalance
	}
	if b.TotalInvested != nil {
		out.TotalInvested = b.TotalInvested
	}
	if b.CurrentInvested != nil {
		out.CurrentInvested = b.CurrentInvested
	}
	if b.TotalDeductions != nil {
		out.TotalDeductions = b.TotalDeductions
	}
	if b.ReinvestReturns != nil {
		out.ReinvestReturns = b.ReinvestReturns
	}
	if b.LinkedBankAccount != nil {
		out.LinkedBankAccount = b.LinkedBankAccount
	}
	if b.AutoInvest != nil {
		out.AutoInvest = b.AutoInvest
	}
	return out
}

// Clone deep-copies p so the copy can be mutated without aliasing.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.PortfolioGrowth = slices.Clone(p.PortfolioGrowth)
	if p.ReinvestReturns != nil {
		v := *p.ReinvestReturns
		out.ReinvestReturns = &v
	}
	if p.LinkedBankAccount != nil {
		v := *p.LinkedBankAccount
		out.LinkedBankAccount = &v
	}
	if p.AutoInvest != nil {
		v := *p.AutoInvest
		out.AutoInvest = &v
	}
	return out
}

// Equal compares two profiles by value. Amounts compare numerically, so
// 25000 and 25000.00 are equal.
func (p UserProfile) Equal(o UserProfile) bool {
	if p.Name != o.Name || p.Email != o.Email || p.Phone != o.Phone {
		return false
	}
	if !p.WalletBalance.Equal(o.WalletBalance) ||
		!p.TotalInvested.Equal(o.TotalInvested) ||
		!p.CurrentInvested.Equal(o.CurrentInvested) ||
		!p.TotalDeductions.Equal(o.TotalDeductions) {
		return false
	}
	if (p.ReinvestReturns == nil) != (o.ReinvestReturns == nil) ||
		(p.ReinvestReturns != nil && *p.ReinvestReturns != *o.ReinvestReturns) {
		return false
	}
	if !slices.EqualFunc(p.PortfolioGrowth, o.PortfolioGrowth, func(a, b GrowthPoint) bool {
		return a.Date == b.Date && a.Value.Equal(b.Value)
	}) {
		return false
	}
	if (p.LinkedBankAccount == nil) != (o.LinkedBankAccount == nil) ||
		(p.LinkedBankAccount != nil && *p.LinkedBankAccount != *o.LinkedBankAccount) {
		return false
	}
	if (p.AutoInvest == nil) != (o.AutoInvest == nil) {
		return false
	}
	if p.AutoInvest != nil {
		a, b := p.AutoInvest, o.AutoInvest
		return a.Amount.Equal(b.Amount) && a.Frequency == b.Frequency &&
			a.StartDate == b.StartDate && a.Status == b.Status
	}
	return true
}

// HasActivePlan reports whether an auto-invest plan is currently running.
func (p UserProfile) HasActivePlan() bool {
	return p.AutoInvest != nil && p.AutoInvest.Status == PlanActive
}
