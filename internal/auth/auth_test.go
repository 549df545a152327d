package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newIssuer(clock clockwork.Clock) *Issuer {
	return NewIssuer(Config{Secret: "test-secret", TTL: time.Hour}, clock)
}

func TestIssueParse(t *testing.T) {
	iss := newIssuer(nil)
	tok, err := iss.Issue("tab-1")
	require.NoError(t, err)

	sid, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "tab-1", sid)
}

func TestParse_Rejections(t *testing.T) {
	clock := clockwork.NewFakeClock()
	iss := newIssuer(clock)
	tok, err := iss.Issue("tab-1")
	require.NoError(t, err)

	_, err = iss.Parse("")
	assert.ErrorIs(t, err, ErrMissingToken)

	other := NewIssuer(Config{Secret: "other", TTL: time.Hour}, clock)
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Parse(tok + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	clock.Advance(2 * time.Hour)
	_, err = iss.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "90m")
	cfg := ConfigFromEnv()
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, 90*time.Minute, cfg.TTL)

	t.Setenv("TOKEN_TTL", "nonsense")
	assert.Equal(t, 24*time.Hour, ConfigFromEnv().TTL)
}

func echoSID(w http.ResponseWriter, r *http.Request) {
	p, _ := FromContext(r.Context())
	_, _ = w.Write([]byte(p.SID + "|" + p.Token))
}

func TestOptional_IssuesTokenWhenMissing(t *testing.T) {
	iss := newIssuer(nil)
	h := Optional(iss, zap.NewNop().Sugar())(http.HandlerFunc(echoSID))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	tok := rec.Header().Get(TokenHeader)
	require.NotEmpty(t, tok)
	sid, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, sid+"|"+tok, rec.Body.String())
}

func TestOptional_KeepsPresentedToken(t *testing.T) {
	iss := newIssuer(nil)
	tok, err := iss.Issue("tab-7")
	require.NoError(t, err)
	h := Optional(iss, zap.NewNop().Sugar())(http.HandlerFunc(echoSID))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get(TokenHeader))
	assert.Equal(t, "tab-7|", rec.Body.String())
}

type checkerFunc func(ctx context.Context, sid string) (bool, error)

func (f checkerFunc) IsAuthenticated(ctx context.Context, sid string) (bool, error) { return f(ctx, sid) }

func TestAuthenticated(t *testing.T) {
	iss := newIssuer(nil)
	good, err := iss.Issue("authed")
	require.NoError(t, err)
	pending, err := iss.Issue("pending")
	require.NoError(t, err)
	broken, err := iss.Issue("broken")
	require.NoError(t, err)

	checker := checkerFunc(func(_ context.Context, sid string) (bool, error) {
		if sid == "broken" {
			return false, errors.New("kv down")
		}
		return sid == "authed", nil
	})
	h := Authenticated(iss, checker, zap.NewNop().Sugar())(http.HandlerFunc(echoSID))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"not verified", "Bearer " + pending, http.StatusUnauthorized},
		{"store error", "Bearer " + broken, http.StatusInternalServerError},
		{"ok", "bearer " + good, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			switch tc.status {
			case http.StatusUnauthorized:
				assert.JSONEq(t, `{"error":"unauthorized","redirect":"/login"}`, rec.Body.String())
			case http.StatusInternalServerError:
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
			}
		})
	}
}
