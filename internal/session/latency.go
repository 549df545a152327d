package session

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
)

// Latency holds the artificial delays that stand in for network round trips.
// A zero duration skips the wait.
type Latency struct {
	Login      time.Duration
	VerifyOTP  time.Duration
	LinkBank   time.Duration
	AutoInvest time.Duration
}

// DefaultLatency is the delay set used when LATENCY_* is not configured.
func DefaultLatency() Latency {
	return Latency{
		Login:      1000 * time.Millisecond,
		VerifyOTP:  1500 * time.Millisecond,
		LinkBank:   1500 * time.Millisecond,
		AutoInvest: 1500 * time.Millisecond,
	}
}

// LatencyFromEnv overrides DefaultLatency with LATENCY_*_MS variables.
func LatencyFromEnv() Latency {
	l := DefaultLatency()
	envMillis("LATENCY_LOGIN_MS", &l.Login)
	envMillis("LATENCY_OTP_MS", &l.VerifyOTP)
	envMillis("LATENCY_BANK_MS", &l.LinkBank)
	envMillis("LATENCY_AUTOINVEST_MS", &l.AutoInvest)
	return l
}

func envMillis(name string, dst *time.Duration) {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil || v < 0 {
		return
	}
	*dst = time.Duration(v) * time.Millisecond
}

// sleep blocks for d on clock, or until ctx is done.
func sleep(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
