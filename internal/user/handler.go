package user

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// Handler exposes HTTP endpoints for onboarding (register / kyc).
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// NextResponse names the route the client goes to next. Token is set when the
// request started a new tab session.
type NextResponse struct {
	Next  string `json:"next"`
	Token string `json:"token,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		session.WriteBadRequest(w, h.logger, err)
		return
	}
	p, _ := auth.FromContext(r.Context())
	next, err := h.svc.Register(r.Context(), p.SID, req)
	if err != nil {
		h.logger.Debugw("register rejected", "err", err)
		session.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, NextResponse{Next: next, Token: p.Token})
}

func (h *Handler) SubmitKYC(w http.ResponseWriter, r *http.Request) {
	var req entity.KYC
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		session.WriteBadRequest(w, h.logger, err)
		return
	}
	next, err := h.svc.SubmitKYC(r.Context(), auth.SessionID(r.Context()), req)
	if err != nil {
		session.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, NextResponse{Next: next})
}
