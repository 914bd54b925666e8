package controllers

import (
	"log/slog"
	"net/http"

	h "github.com/kennethlove/practice-pycon/internal/delivery/http/helpers"
	"github.com/kennethlove/practice-pycon/internal/delivery/http/middleware"
	"github.com/kennethlove/practice-pycon/internal/domain"
)

// TalkPayload is a talk plus its derived read-only fields. OverallRating is
// recomputed on every response rather than stored.
type TalkPayload struct {
	*domain.Talk
	OverallRating int    `json:"overall_rating"`
	DetailPath    string `json:"detail_path"`
}

func newTalkPayload(t *domain.Talk) TalkPayload {
	return TalkPayload{
		Talk:          t,
		OverallRating: t.OverallRating(),
		DetailPath:    t.DetailPath(),
	}
}

func newTalkPayloads(talks []*domain.Talk) []TalkPayload {
	out := make([]TalkPayload, len(talks))
	for i, t := range talks {
		out[i] = newTalkPayload(t)
	}
	return out
}

// ReviewTalkRequest is the request body for POST /talks/d/{slug}/. Ratings
// are 0-5 stars; notes are markdown rendered to HTML on save.
type ReviewTalkRequest struct {
	TalkRating    int    `json:"talk_rating"`
	SpeakerRating int    `json:"speaker_rating"`
	Notes         string `json:"notes"`
}

type TalkController struct {
	Logger  *slog.Logger
	Service domain.TalkService
}

func NewTalkController(logger *slog.Logger, svc domain.TalkService) *TalkController {
	return &TalkController{
		Logger:  logger,
		Service: svc,
	}
}

// Detail godoc
// @Summary Get a talk by slug
// @Description Returns the talk with its ratings, notes, and rendered notes HTML. Scoped to the caller's lists; other users' talks are 404.
// @Tags talks
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Talk slug"
// @Success 200 {object} helpers.APIResponse "data contains the talk"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /talks/d/{slug}/ [get]
func (c *TalkController) Detail(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing slug")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	talk, err := c.Service.Detail(r.Context(), userID, slug)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "talk not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, newTalkPayload(talk))
}

// Review godoc
// @Summary Rate a talk and update notes
// @Description Sets the talk and speaker star ratings (0-5) and replaces the notes. notes_html is re-rendered from the submitted markdown. Scoped to the caller's lists.
// @Tags talks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Talk slug"
// @Param body body ReviewTalkRequest true "Ratings and notes"
// @Success 200 {object} helpers.APIResponse "data contains the updated talk"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error with field messages"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /talks/d/{slug}/ [post]
func (c *TalkController) Review(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing slug")
		return
	}
	var req ReviewTalkRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	talk, err := c.Service.Review(r.Context(), userID, slug, req.TalkRating, req.SpeakerRating, req.Notes)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "talk not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, newTalkPayload(talk))
}
