package portfolio

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session/entity"
)

type Service struct {
	store *session.Store
}

func NewService(store *session.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Summary(ctx context.Context, sid string) (Summary, error) {
	snap, err := s.store.Load(ctx, sid)
	if err != nil {
		return Summary{}, err
	}
	if !snap.Authenticated || snap.Profile == nil {
		return Summary{}, session.ErrNotAuthenticated
	}
	return Summarize(*snap.Profile), nil
}

// Invest buys amount of the catalog product id out of the wallet.
func (s *Service) Invest(ctx context.Context, sid string, id int, amount decimal.Decimal) (*entity.UserProfile, error) {
	p, ok := Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: product %d", session.ErrUnknownProduct, id)
	}
	return s.store.Invest(ctx, sid, session.InvestOrder{
		ProductID:   p.ID,
		ProductName: p.Name,
		Minimum:     p.MinInvestment,
		Amount:      amount,
	})
}
