package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// WriteError maps a command error to its HTTP response. Typed rejections
// become 422 with the reason; state errors send the client back to /login.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	if reason, ok := ReasonOf(err); ok {
		status := http.StatusUnprocessableEntity
		if reason == RejectUnknownProduct {
			status = http.StatusNotFound
		}
		utilities.WriteJSON(w, status, map[string]string{"error": string(reason), "detail": detail(err, reason)})
		return
	}
	switch {
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrLoginRequired):
		utilities.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "redirect": RouteLogin})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Debugw("request cancelled", "err", err)
		utilities.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "cancelled"})
	default:
		logger.Errorw("request failed", "err", err)
		utilities.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// WriteBadRequest reports an undecodable or oversized body.
func WriteBadRequest(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	logger.Debugw("invalid payload", "err", err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utilities.WriteJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload too large"})
		return
	}
	utilities.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
}

func detail(err error, reason Rejection) string {
	msg := err.Error()
	msg = strings.TrimPrefix(msg, string(reason))
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return string(reason)
	}
	return msg
}
