package message

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

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
	router.Route("/messages", func(r chi.Router) {
		r.Get("/", h.GetAllMessages)
		r.Post("/", h.CreateMessage)
		r.Get("/{message_id}", h.GetMessageByID)
		r.Delete("/{message_id}", h.DeleteMessage)
		r.Patch("/{message_id}", h.PatchMessage)
	})
	router.Get("/accounts/{account_id}/messages", h.GetMessagesByAccount)
}

func (h *Handler) GetAllMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.GetAllMessages(r.Context())
	if err != nil {
		h.respondList(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, messages)
}

func (h *Handler) GetMessageByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "message_id", "invalid message id")
	if !ok {
		return
	}

	message, err := h.service.GetMessageByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err, http.StatusOK)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, message)
}

func (h *Handler) GetMessagesByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.pathID(w, r, "account_id", "invalid account id")
	if !ok {
		return
	}

	messages, err := h.service.GetMessagesByAccount(r.Context(), accountID)
	if err != nil {
		h.respondList(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, messages)
}

func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request", "error", err)
		httputil.RespondEmpty(w, http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateMessage(r.Context(), req.ToMessage())
	if err != nil {
		h.handleServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	h.logger.InfoContext(r.Context(), "message created", "message_id", created.MessageID, "posted_by", created.PostedBy)
	httputil.RespondWithJSON(w, http.StatusOK, created)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "message_id", "invalid message id")
	if !ok {
		return
	}

	deleted, err := h.service.DeleteMessage(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err, http.StatusOK)
		return
	}

	h.logger.InfoContext(r.Context(), "message deleted", "message_id", deleted.MessageID)
	httputil.RespondWithJSON(w, http.StatusOK, deleted)
}

func (h *Handler) PatchMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "message_id", "invalid message id")
	if !ok {
		return
	}

	var req PatchMessageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request", "error", err)
		httputil.RespondEmpty(w, http.StatusBadRequest)
		return
	}

	updated, err := h.service.PatchMessageText(r.Context(), id, req.MessageText)
	if err != nil {
		h.handleServiceError(w, r, err, http.StatusBadRequest)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param, message string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}

// respondList renders a failed listing as an empty array unless store
// errors are surfaced.
func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "failed to list messages", "error", err)
	if h.surfaceStoreErrors {
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, []Message{})
}

// handleServiceError renders not-found and rejections as absenceStatus with
// no body. Store failures get the same treatment unless surfaced as 500.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, absenceStatus int) {
	switch {
	case errors.Is(err, db.ErrStore):
		h.logger.ErrorContext(r.Context(), "store failure", "error", err)
		if h.surfaceStoreErrors {
			httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	case errors.Is(err, ErrMessageNotFound), errors.Is(err, ErrInvalidInput):
		h.logger.InfoContext(r.Context(), "request rejected", "error", err)
	default:
		h.logger.WarnContext(r.Context(), "unexpected service error", "error", err)
	}
	httputil.RespondEmpty(w, absenceStatus)
}
