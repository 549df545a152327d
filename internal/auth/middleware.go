package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// TokenHeader carries a freshly issued tab token back to the client.
const TokenHeader = "X-Tab-Token"

type ctxKey struct{}

// Principal identifies the tab behind a request. Token is set only when the
// middleware issued a new one for this request.
type Principal struct {
	SID   string
	Token string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok && p.SID != ""
}

// SessionID returns the tab session id, or "" outside an authenticated route.
func SessionID(ctx context.Context) string {
	p, _ := FromContext(ctx)
	return p.SID
}

// Checker reports whether a tab session has completed OTP verification.
type Checker interface {
	IsAuthenticated(ctx context.Context, sid string) (bool, error)
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func unauthorized(w http.ResponseWriter) {
	utilities.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "redirect": "/login"})
}

func internalError(w http.ResponseWriter) {
	utilities.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// Optional resolves the presented tab token, or starts a new tab session and
// issues a token for it when none (or an invalid one) is presented.
func Optional(iss *Issuer, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sid, err := iss.Parse(bearer(r)); err == nil {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), Principal{SID: sid})))
				return
			}
			sid := NewSessionID()
			token, err := iss.Issue(sid)
			if err != nil {
				logger.Errorw("issue tab token", "err", err)
				internalError(w)
				return
			}
			w.Header().Set(TokenHeader, token)
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), Principal{SID: sid, Token: token})))
		})
	}
}

// Required rejects requests without a valid tab token.
func Required(iss *Issuer, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, err := iss.Parse(bearer(r))
			if err != nil {
				logger.Debugw("tab token rejected", "path", r.URL.Path, "err", err)
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), Principal{SID: sid})))
		})
	}
}

// Authenticated additionally requires the tab to have passed OTP verification.
func Authenticated(iss *Issuer, checker Checker, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return Required(iss, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := checker.IsAuthenticated(r.Context(), SessionID(r.Context()))
			if err != nil {
				logger.Errorw("check session", "err", err)
				internalError(w)
				return
			}
			if !ok {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
