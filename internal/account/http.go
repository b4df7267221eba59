package account

import (
	"errors"
	"log/slog"
	"net/http"

	"social-media-service/internal/db"
	"social-media-service/internal/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service            Service
	logger             *slog.Logger
	surfaceStoreErrors bool
}

func NewHandler(service Service, logger *slog.Logger, surfaceStoreErrors bool) *Handler {
	return &Handler{
		service:            service,
		logger:             logger,
		surfaceStoreErrors: surfaceStoreErrors,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request", "error", err)
		httputil.RespondEmpty(w, http.StatusBadRequest)
		return
	}

	h.logger.InfoContext(r.Context(), "registering account", "username", req.Username)
	created, err := h.service.Register(r.Context(), req.ToAccount())
	if err != nil {
		h.handleServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, created)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request", "error", err)
		httputil.RespondEmpty(w, http.StatusBadRequest)
		return
	}

	found, err := h.service.Authenticate(r.Context(), req.ToAccount())
	if err != nil {
		h.handleServiceError(w, r, err, http.StatusUnauthorized)
		return
	}

	h.logger.InfoContext(r.Context(), "account logged in", "account_id", found.AccountID)
	httputil.RespondWithJSON(w, http.StatusOK, found)
}

// handleServiceError renders every rejection as rejectStatus with no body.
// With surfaceStoreErrors set, store failures become 409 (constraint) or 500.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, rejectStatus int) {
	if errors.Is(err, db.ErrStore) {
		h.logger.ErrorContext(r.Context(), "store failure", "error", err)
		if h.surfaceStoreErrors {
			if errors.Is(err, db.ErrConstraint) {
				httputil.RespondWithError(w, http.StatusConflict, "username already exists")
				return
			}
			httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	} else {
		h.logger.InfoContext(r.Context(), "request rejected", "error", err)
	}
	httputil.RespondEmpty(w, rejectStatus)
}
