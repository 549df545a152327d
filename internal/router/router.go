package router

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/activity"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/portfolio"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/setting"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/user"
)

// Prefix every route is mounted under.
const Prefix = "/wealth-api"

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id assigned to the request, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// RequestIDMiddleware keeps an incoming X-Request-ID or assigns a new uuid.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Clickjacking protection
			w.Header().Set("X-Frame-Options", "DENY")

			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			// balances and tokens must not be cached by intermediaries
			w.Header().Set("Cache-Control", "no-store")

			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none';")
			}

			// HSTS only over TLS
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Deps are the services the routes are wired to.
type Deps struct {
	Store     *session.Store
	Issuer    *auth.Issuer
	Activity  *activity.Recorder
	Portfolio *portfolio.Service
	Users     *user.UserService
	Settings  *setting.Service
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
func RegisterRoutes(logger *zap.SugaredLogger, d Deps) http.Handler {
	mux := http.NewServeMux()

	optional := auth.Optional(d.Issuer, logger)
	tab := auth.Required(d.Issuer, logger)
	authed := auth.Authenticated(d.Issuer, d.Store, logger)

	handle := func(pattern string, mw func(http.Handler) http.Handler, fn http.HandlerFunc) {
		var h http.Handler = fn
		if mw != nil {
			h = mw(h)
		}
		mux.Handle(pattern, h)
	}

	// health
	handle("GET "+Prefix+"/health", nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	sessions := session.NewHandler(d.Store, logger)
	handle("POST "+Prefix+"/auth/login", optional, sessions.Login)
	handle("POST "+Prefix+"/auth/verify-otp", tab, sessions.VerifyOTP)
	handle("POST "+Prefix+"/auth/logout", tab, sessions.Logout)

	users := user.NewHandler(d.Users, logger)
	handle("POST "+Prefix+"/auth/register", optional, users.Register)
	handle("POST "+Prefix+"/auth/kyc", tab, users.SubmitKYC)

	handle("GET "+Prefix+"/me", authed, sessions.Me)
	handle("PATCH "+Prefix+"/me", authed, sessions.PatchMe)
	handle("POST "+Prefix+"/wallet/deposit", authed, sessions.Deposit)
	handle("POST "+Prefix+"/wallet/withdraw", authed, sessions.Withdraw)
	handle("POST "+Prefix+"/portfolio/top-up", authed, sessions.TopUp)
	handle("PUT "+Prefix+"/portfolio/reinvest", authed, sessions.SetReinvest)
	handle("POST "+Prefix+"/bank-account", authed, sessions.LinkBank)
	handle("PUT "+Prefix+"/auto-invest", authed, sessions.SetAutoInvest)
	handle("DELETE "+Prefix+"/auto-invest", authed, sessions.CancelAutoInvest)

	portfolios := portfolio.NewHandler(d.Portfolio, logger)
	handle("GET "+Prefix+"/portfolio/summary", authed, portfolios.Summary)
	handle("GET "+Prefix+"/investments", authed, portfolios.Investments)
	handle("POST "+Prefix+"/investments/{id}/invest", authed, portfolios.Invest)

	activities := activity.NewHandler(d.Activity, logger)
	handle("GET "+Prefix+"/activity", authed, activities.List)

	settings := setting.NewHandler(d.Settings, logger)
	handle("PUT "+Prefix+"/settings/profile", authed, settings.UpdateProfile)
	handle("PUT "+Prefix+"/settings/pin", authed, settings.ChangePIN)
	handle("GET "+Prefix+"/settings/support", authed, settings.ListSupport)
	handle("POST "+Prefix+"/settings/support", authed, settings.SubmitSupport)

	// request id first so the logger sees it, then logging, then security headers
	return RequestIDMiddleware()(LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux)))
}
