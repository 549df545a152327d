package activity

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

type Handler struct {
	rec    *Recorder
	logger *zap.SugaredLogger
}

func NewHandler(rec *Recorder, logger *zap.SugaredLogger) *Handler {
	return &Handler{rec: rec, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.rec.List(r.Context(), auth.SessionID(r.Context()))
	if err != nil {
		session.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, map[string]any{"activities": entries})
}
