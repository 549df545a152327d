package session

import (
	"github.com/shopspring/decimal"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session/entity"
)

var demoGrowth = []struct {
	date  string
	value int64
}{
	{"2023-01", 100000}, {"2023-02", 102500}, {"2023-03", 105000},
	{"2023-04", 107800}, {"2023-05", 110400}, {"2023-06", 113200},
	{"2023-07", 115800}, {"2023-08", 118500}, {"2023-09", 120100},
	{"2023-10", 121900}, {"2023-11", 123400}, {"2023-12", 124750},
}

// DemoProfile returns the fixed account every tab is seeded with after OTP
// verification.
func DemoProfile() entity.UserProfile {
	growth := make([]entity.GrowthPoint, 0, len(demoGrowth))
	for _, g := range demoGrowth {
		growth = append(growth, entity.GrowthPoint{Date: g.date, Value: decimal.NewFromInt(g.value)})
	}
	return entity.UserProfile{
		Name:            "Alex Johnson",
		Email:           "alex@example.com",
		Phone:           "+234 812 345 6789",
		WalletBalance:   decimal.RequireFromString("25000.00"),
		TotalInvested:   decimal.RequireFromString("100000.00"),
		CurrentInvested: decimal.RequireFromString("124750.63"),
		TotalDeductions: decimal.RequireFromString("3500.00"),
		PortfolioGrowth: growth,
	}
}
