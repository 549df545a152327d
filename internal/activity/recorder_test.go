package activity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/kv"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session/entity"
)

func setup(t *testing.T) (*session.Store, *Recorder, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC))
	store := session.NewStore(mem, session.WithLatency(session.Latency{}), session.WithClock(clock))
	rec := NewRecorder(mem, zap.NewNop().Sugar())
	t.Cleanup(rec.Attach(store))

	ctx := context.Background()
	_, err := store.Login(ctx, "tab", "alex@example.com")
	require.NoError(t, err)
	_, _, err = store.VerifyOTP(ctx, "tab", "1234")
	require.NoError(t, err)
	return store, rec, mem
}

func TestRecorder_RecordsMoneyMovementsNewestFirst(t *testing.T) {
	store, rec, _ := setup(t)
	ctx := context.Background()

	_, err := store.Deposit(ctx, "tab", decimal.NewFromInt(50000), "Card Payment")
	require.NoError(t, err)
	_, err = store.Withdraw(ctx, "tab", decimal.NewFromInt(15000))
	require.NoError(t, err)
	_, err = store.SetReinvestReturns(ctx, "tab", true)
	require.NoError(t, err)
	_, err = store.LinkBank(ctx, "tab", entity.BankAccount{AccountNumber: "0123456789", AccountName: "Alex Johnson", BankName: "Zenith Bank"})
	require.NoError(t, err)

	entries, err := rec.List(ctx, "tab")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "bank_linked", entries[0].Type)
	assert.Empty(t, entries[0].Display)

	assert.Equal(t, "withdrawal", entries[1].Type)
	assert.Equal(t, "Withdrawal to Bank Account", entries[1].Description)
	assert.True(t, entries[1].Amount.Equal(decimal.NewFromInt(-15000)))
	assert.Equal(t, "-₦15,000.00", entries[1].Display)

	assert.Equal(t, "deposit", entries[2].Type)
	assert.Equal(t, "Wallet Funding via Card Payment", entries[2].Description)
	assert.Equal(t, "+₦50,000.00", entries[2].Display)
	assert.NotEqual(t, entries[1].ID, entries[2].ID)
}

func TestRecorder_RejectedCommandsAreNotRecorded(t *testing.T) {
	store, rec, _ := setup(t)
	ctx := context.Background()

	_, err := store.Withdraw(ctx, "tab", decimal.NewFromInt(30000))
	require.ErrorIs(t, err, session.ErrInsufficientFunds)

	entries, err := rec.List(ctx, "tab")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecorder_CapsFeed(t *testing.T) {
	store, rec, _ := setup(t)
	ctx := context.Background()

	for i := 1; i <= MaxEntries+5; i++ {
		_, err := store.Deposit(ctx, "tab", decimal.NewFromInt(int64(i)), "")
		require.NoError(t, err)
	}
	entries, err := rec.List(ctx, "tab")
	require.NoError(t, err)
	require.Len(t, entries, MaxEntries)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(MaxEntries+5)))
	assert.True(t, entries[MaxEntries-1].Amount.Equal(decimal.NewFromInt(6)))
}

func TestRecorder_LogoutClearsFeed(t *testing.T) {
	store, rec, mem := setup(t)
	ctx := context.Background()

	_, err := store.Deposit(ctx, "tab", decimal.NewFromInt(100), "")
	require.NoError(t, err)
	_, err = store.Logout(ctx, "tab")
	require.NoError(t, err)

	entries, err := rec.List(ctx, "tab")
	require.NoError(t, err)
	assert.Empty(t, entries)
	keys, err := mem.Keys(ctx, "tab")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestHandler_List(t *testing.T) {
	store, rec, _ := setup(t)
	_, err := store.TopUp(context.Background(), "tab", decimal.NewFromInt(5000))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/wealth-api/activity", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{SID: "tab"}))
	w := httptest.NewRecorder()
	NewHandler(rec, zap.NewNop().Sugar()).List(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"investment"`)
	assert.Contains(t, w.Body.String(), `"description":"Investment Top-up"`)
	assert.Contains(t, w.Body.String(), `"amount":-5000`)
}
