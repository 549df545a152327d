package setting

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// Handler contains dependencies for handling setting endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

// NewHandler constructs a new Handler.
func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type ProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		session.WriteBadRequest(w, h.logger, err)
		return
	}
	p, err := h.svc.UpdateProfile(r.Context(), auth.SessionID(r.Context()), req.Name, req.Phone)
	if err != nil {
		session.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, map[string]any{"userData": p})
}

type PINRequest struct {
	CurrentPin string `json:"currentPin"`
	NewPin     string `json:"newPin"`
	ConfirmPin string `json:"confirmPin"`
}

func (h *Handler) ChangePIN(w http.ResponseWriter, r *http.Request) {
	var req PINRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		session.WriteBadRequest(w, h.logger, err)
		return
	}
	if err := h.svc.ChangePIN(r.Context(), auth.SessionID(r.Context()), req.CurrentPin, req.NewPin, req.ConfirmPin); err != nil {
		session.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type SupportRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *Handler) SubmitSupport(w http.ResponseWriter, r *http.Request) {
	var req SupportRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		session.WriteBadRequest(w, h.logger, err)
		return
	}
	out, err := h.svc.Submit(r.Context(), auth.SessionID(r.Context()), req.Subject, req.Message)
	if err != nil {
		session.WriteError(w, h.logger, err)
		return
	}
	h.logger.Infow("support request received", "id", out.ID)
	utilities.WriteJSON(w, http.StatusCreated, out)
}

func (h *Handler) ListSupport(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), auth.SessionID(r.Context()))
	if err != nil {
		session.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, map[string]any{"requests": list})
}
