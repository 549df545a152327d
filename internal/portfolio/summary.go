package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session/entity"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// Allocation is one slice of the asset distribution.
type Allocation struct {
	Name       string          `json:"name"`
	Percentage int64           `json:"percentage"`
	Value      decimal.Decimal `json:"value"`
	Display    string          `json:"display"`
}

var distribution = []struct {
	name string
	pct  int64
}{
	{"Corporate Bonds", 35},
	{"Government Bonds", 25},
	{"Treasury Bills", 20},
	{"Mutual Funds", 15},
	{"Cash", 5},
}

type Summary struct {
	WalletBalance   decimal.Decimal        `json:"walletBalance"`
	TotalInvested   decimal.Decimal        `json:"totalInvested"`
	CurrentInvested decimal.Decimal        `json:"currentInvested"`
	TotalDeductions decimal.Decimal        `json:"totalDeductions"`
	TotalValue      decimal.Decimal        `json:"totalValue"`
	TotalGain       decimal.Decimal        `json:"totalGain"`
	Earnings        decimal.Decimal        `json:"earnings"`
	GainPercentage  decimal.Decimal        `json:"gainPercentage"`
	ReinvestReturns bool                   `json:"reinvestReturns"`
	AutoInvest      *entity.AutoInvestPlan `json:"autoInvest,omitempty"`
	Distribution    []Allocation           `json:"assetDistribution"`
	Display         map[string]string      `json:"display"`
}

var hundred = decimal.NewFromInt(100)

// Summarize derives the portfolio view from a profile. Earnings are the
// current value over the amount invested; the percentage is rounded to one
// decimal and is zero when nothing was invested.
func Summarize(p entity.UserProfile) Summary {
	gain := p.CurrentInvested.Sub(p.TotalInvested)
	pct := decimal.Zero
	if p.TotalInvested.IsPositive() {
		pct = gain.Div(p.TotalInvested).Mul(hundred).Round(1)
	}
	s := Summary{
		WalletBalance:   p.WalletBalance,
		TotalInvested:   p.TotalInvested,
		CurrentInvested: p.CurrentInvested,
		TotalDeductions: p.TotalDeductions,
		TotalValue:      p.CurrentInvested,
		TotalGain:       gain,
		Earnings:        gain,
		GainPercentage:  pct,
		ReinvestReturns: p.ReinvestReturns != nil && *p.ReinvestReturns,
		AutoInvest:      p.AutoInvest,
		Distribution:    make([]Allocation, 0, len(distribution)),
	}
	for _, d := range distribution {
		v := p.CurrentInvested.Mul(decimal.NewFromInt(d.pct)).Div(hundred)
		s.Distribution = append(s.Distribution, Allocation{
			Name:       d.name,
			Percentage: d.pct,
			Value:      v,
			Display:    utilities.FormatMoney(v),
		})
	}
	s.Display = map[string]string{
		"walletBalance":   utilities.FormatMoney(p.WalletBalance),
		"totalInvested":   utilities.FormatMoney(p.TotalInvested),
		"currentInvested": utilities.FormatMoney(p.CurrentInvested),
		"totalDeductions": utilities.FormatMoney(p.TotalDeductions),
		"earnings":        utilities.FormatMoney(gain),
		"gainPercentage":  pct.StringFixed(1) + "%",
	}
	return s
}
