package accesscontrol

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/center-access/internal"
	"github.com/frahmantamala/center-access/internal/transport"
	"github.com/frahmantamala/center-access/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Can(ctx context.Context, userID, centerID int64, key string) bool
	PermissionsFor(ctx context.Context, userID, centerID int64) []string
	Catalog() []Permission
	SetOverride(ctx context.Context, centerID, membershipID int64, key string, allowed bool, grantedBy *int64) error
	ClearOverride(ctx context.Context, centerID, membershipID int64, key string) error
}

// CenterLookup resolves a center slug from the URL to its id.
type CenterLookup interface {
	IDBySlug(ctx context.Context, slug string) (int64, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Centers CenterLookup
}

func NewHandler(svc ServiceAPI, centers CenterLookup) *Handler {
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

// GetMyPermissions returns the caller's effective permission set inside
// the center, for the UI to render capability flags.
func (h *Handler) GetMyPermissions(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "missing user")
		return
	}

	centerID, err := h.Centers.IDBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.WriteError(w, http.StatusNotFound, "center not found")
		return
	}

	perms := h.Service.PermissionsFor(r.Context(), userID, centerID)
	if perms == nil {
		perms = []string{}
	}
	h.WriteJSON(w, http.StatusOK, EffectivePermissionsResponse{Permissions: perms})
}

// ListCatalog returns the administered permission catalog.
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, ToPermissionResponses(h.Service.Catalog()))
}

// SetOverride grants or revokes one permission for one membership,
// overriding its role default. The membership must belong to the center
// named in the URL.
func (h *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	centerID, err := h.Centers.IDBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.WriteError(w, http.StatusNotFound, "center not found")
		return
	}

	membershipID, err := strconv.ParseInt(chi.URLParam(r, "membershipID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid membership id")
		return
	}
	key := chi.URLParam(r, "key")

	var dto OverrideDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var grantedBy *int64
	if uid := internal.UserIDFromContext(r.Context()); uid != 0 {
		grantedBy = &uid
	}

	if err := h.Service.SetOverride(r.Context(), centerID, membershipID, key, *dto.Allowed, grantedBy); err != nil {
		h.writeOverrideError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearOverride removes an override so the membership falls back to its
// role default.
func (h *Handler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	centerID, err := h.Centers.IDBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.WriteError(w, http.StatusNotFound, "center not found")
		return
	}

	membershipID, err := strconv.ParseInt(chi.URLParam(r, "membershipID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid membership id")
		return
	}

	if err := h.Service.ClearOverride(r.Context(), centerID, membershipID, chi.URLParam(r, "key")); err != nil {
		h.writeOverrideError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeOverrideError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownPermission):
		h.WriteError(w, http.StatusNotFound, "unknown permission key")
	case errors.Is(err, ErrMembershipNotFound):
		h.WriteError(w, http.StatusNotFound, "membership not found")
	default:
		h.Logger.Error("override operation failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
