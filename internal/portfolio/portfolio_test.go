package portfolio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/kv"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session/entity"
)

func names(ps []Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestList(t *testing.T) {
	assert.Len(t, List("", ""), 9)
	assert.Len(t, List(All, ""), 9)
	assert.Equal(t, []string{"3-Month Treasury Bill", "6-Month Treasury Bill", "1-Year Treasury Bill"}, names(List(TreasuryBills, "")))
	assert.Equal(t, []string{"Corporate Bond Fund", "Government Bond Fund", "High-Yield Bond Fund"}, names(List(All, "BOND")))
	assert.Equal(t, []string{"Growth Fund", "Income Fund", "Index Fund"}, names(List(All, "mutual")))
	assert.Equal(t, []string{"Index Fund"}, names(List(MutualFunds, "index")))
	assert.Empty(t, List(Bonds, "treasury"))
}

func TestFind(t *testing.T) {
	p, ok := Find(4)
	require.True(t, ok)
	assert.Equal(t, "Growth Fund", p.Name)
	assert.True(t, p.MinInvestment.Equal(decimal.NewFromInt(5000)))

	_, ok = Find(10)
	assert.False(t, ok)
}

func TestSummarize_DemoProfile(t *testing.T) {
	s := Summarize(session.DemoProfile())

	assert.True(t, s.Earnings.Equal(decimal.RequireFromString("24750.63")))
	assert.True(t, s.GainPercentage.Equal(decimal.RequireFromString("24.8")))
	assert.True(t, s.TotalValue.Equal(decimal.RequireFromString("124750.63")))
	assert.Equal(t, "24.8%", s.Display["gainPercentage"])
	assert.Equal(t, "₦24,750.63", s.Display["earnings"])
	assert.Equal(t, "₦25,000.00", s.Display["walletBalance"])

	require.Len(t, s.Distribution, 5)
	var total int64
	for _, a := range s.Distribution {
		total += a.Percentage
	}
	assert.Equal(t, int64(100), total)
	assert.Equal(t, "Corporate Bonds", s.Distribution[0].Name)
	assert.True(t, s.Distribution[0].Value.Equal(decimal.RequireFromString("43662.7205")))
	assert.True(t, s.Distribution[4].Value.Equal(decimal.RequireFromString("6237.5315")))
}

func TestSummarize_NothingInvested(t *testing.T) {
	s := Summarize(entity.UserProfile{})
	assert.True(t, s.GainPercentage.IsZero())
	assert.False(t, s.ReinvestReturns)
}

func newService(t *testing.T) (*Service, *session.Store) {
	t.Helper()
	store := session.NewStore(kv.NewMemory(), session.WithLatency(session.Latency{}))
	ctx := context.Background()
	_, err := store.Login(ctx, "tab", "alex@example.com")
	require.NoError(t, err)
	_, _, err = store.VerifyOTP(ctx, "tab", "1234")
	require.NoError(t, err)
	return NewService(store), store
}

func TestService_Invest(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Invest(ctx, "tab", 42, decimal.NewFromInt(1000))
	require.ErrorIs(t, err, session.ErrUnknownProduct)

	_, err = svc.Invest(ctx, "tab", 2, decimal.NewFromInt(2000))
	require.ErrorIs(t, err, session.ErrInvalidAmount)

	p, err := svc.Invest(ctx, "tab", 2, decimal.NewFromInt(2500))
	require.NoError(t, err)
	assert.True(t, p.WalletBalance.Equal(decimal.NewFromInt(22500)))
	assert.True(t, p.TotalInvested.Equal(decimal.NewFromInt(102500)))
}

func TestService_SummaryRequiresAuthentication(t *testing.T) {
	store := session.NewStore(kv.NewMemory(), session.WithLatency(session.Latency{}))
	_, err := NewService(store).Summary(context.Background(), "nobody")
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestHandler(t *testing.T) {
	svc, _ := newService(t)
	h := NewHandler(svc, zap.NewNop().Sugar())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /investments", h.Investments)
	mux.HandleFunc("GET /portfolio/summary", h.Summary)
	mux.HandleFunc("POST /investments/{id}/invest", h.Invest)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{SID: "tab"}))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodGet, "/investments?category=bonds&q=gov", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Products []Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Products, 1)
	assert.Equal(t, 2, list.Products[0].ID)

	rec = do(http.MethodGet, "/portfolio/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"gainPercentage":24.8`)
	assert.Contains(t, rec.Body.String(), `"earnings":24750.63`)

	rec = do(http.MethodPost, "/investments/99/invest", `{"amount":1000}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown_product")

	rec = do(http.MethodPost, "/investments/abc/invest", `{"amount":1000}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(http.MethodPost, "/investments/1/invest", `{"amount":26000}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_funds")

	rec = do(http.MethodPost, "/investments/1/invest", `{"amount":1000}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"walletBalance":24000`)
}
