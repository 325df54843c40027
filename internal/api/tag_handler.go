package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/donelist/donelist-api/internal/api/shared"
	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/store"
)

// TagHandler handles tag-related HTTP requests. Tags are shared across
// owners; only the task links are owner-scoped.
type TagHandler struct {
	tags   store.TagStore
	logger *slog.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tags store.TagStore, logger *slog.Logger) *TagHandler {
	if tags == nil {
		panic("tags cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil for TagHandler")
	}

	return &TagHandler{
		tags:   tags,
		logger: logger.With(slog.String("component", "tag_handler")),
	}
}

// CreateTag handles POST /tags requests.
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	tag, err := domain.NewTag(req.Name, req.Color)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.tags.Create(r.Context(), tag); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("tag created",
		slog.Int64("tag_id", tag.ID),
		slog.String("name", tag.Name))

	shared.RespondWithJSON(w, r, http.StatusCreated, TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
	})
}

// ListTags handles GET /tags requests.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	out := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		out = append(out, TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// DeleteTag handles DELETE /tags/{id} requests. Task links to the tag are
// removed with it.
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	if err := h.tags.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
