package membership

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/center-access/internal"
	"github.com/frahmantamala/center-access/internal/accesscontrol"
	"github.com/frahmantamala/center-access/internal/transport"
	"github.com/frahmantamala/center-access/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Invite(ctx context.Context, centerID int64, dto InviteDTO) (*Membership, error)
	Accept(ctx context.Context, centerID, membershipID, actorID int64) (*Membership, error)
	Suspend(ctx context.Context, centerID, membershipID int64) (*Membership, error)
	Reinstate(ctx context.Context, centerID, membershipID int64) (*Membership, error)
	ListForCenter(ctx context.Context, centerID int64) ([]MembershipResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Centers accesscontrol.CenterLookup
}

func NewHandler(svc ServiceAPI, centers accesscontrol.CenterLookup) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Centers:     centers,
	}
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	centerID, ok := h.centerID(w, r)
	if !ok {
		return
	}

	var dto InviteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.Invite(r.Context(), centerID, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, m.ToResponse())
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	actorID := internal.UserIDFromContext(r.Context())
	if actorID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "missing user")
		return
	}
	h.applyTransition(w, r, func(ctx context.Context, centerID, membershipID int64) (*Membership, error) {
		return h.Service.Accept(ctx, centerID, membershipID, actorID)
	})
}

func (h *Handler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.Service.Suspend)
}

func (h *Handler) Reinstate(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.Service.Reinstate)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	centerID, ok := h.centerID(w, r)
	if !ok {
		return
	}

	members, err := h.Service.ListForCenter(r.Context(), centerID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, members)
}

// applyTransition resolves the center from the URL and runs the
// lifecycle operation scoped to it, so a membership id from another
// center cannot be reached through this center's routes.
func (h *Handler) applyTransition(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64) (*Membership, error)) {
	centerID, ok := h.centerID(w, r)
	if !ok {
		return
	}

	membershipID, err := strconv.ParseInt(chi.URLParam(r, "membershipID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid membership id")
		return
	}

	m, err := op(r.Context(), centerID, membershipID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, m.ToResponse())
}

func (h *Handler) centerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	centerID, err := h.Centers.IDBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.WriteError(w, http.StatusNotFound, "center not found")
		return 0, false
	}
	return centerID, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var vErr ValidationError
	if errors.As(err, &vErr) {
		h.WriteError(w, http.StatusBadRequest, vErr.Error())
		return
	}

	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteError(w, appErr.StatusCode, appErr.Message)
		return
	}

	h.Logger.Error("membership operation failed", "error", err)
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}
