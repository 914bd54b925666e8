package controllers

import (
	"log/slog"
	"net/http"
	"time"

	h "github.com/kennethlove/practice-pycon/internal/delivery/http/helpers"
	"github.com/kennethlove/practice-pycon/internal/delivery/http/middleware"
	"github.com/kennethlove/practice-pycon/internal/domain"
)

// CreateListRequest is the request body for POST /lists/create/ and
// POST /lists/update/{slug}/.
type CreateListRequest struct {
	Name string `json:"name"`
}

// AddTalkRequest is the request body for POST /lists/d/{slug}/. The when
// field must be an RFC 3339 timestamp inside the conference window.
type AddTalkRequest struct {
	Name string    `json:"name"`
	Host string    `json:"host"`
	When time.Time `json:"when"`
	Room string    `json:"room"`
}

// ListDetailResponse is the data payload for list detail and schedule views.
type ListDetailResponse struct {
	List  *domain.TalkList `json:"list"`
	Talks []TalkPayload    `json:"talks"`
}

// DeleteListResponse is the data payload for DELETE /lists/d/{slug}/.
type DeleteListResponse struct {
	Status string `json:"status"`
}

type TalkListController struct {
	Logger *slog.Logger
	Lists  domain.TalkListService
	Talks  domain.TalkService
}

func NewTalkListController(logger *slog.Logger, lists domain.TalkListService, talks domain.TalkService) *TalkListController {
	return &TalkListController{
		Logger: logger,
		Lists:  lists,
		Talks:  talks,
	}
}

// List godoc
// @Summary List the caller's talk lists
// @Description Returns every list owned by the authenticated user with its talk count. Other users' lists are never included.
// @Tags lists
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of lists"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /lists/ [get]
func (c *TalkListController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	lists, err := c.Lists.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, lists)
}

// Create godoc
// @Summary Create a talk list
// @Description Creates a list owned by the authenticated user. Names are unique per user; the slug is derived from the name.
// @Tags lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateListRequest true "List name"
// @Success 201 {object} helpers.APIResponse "data contains the created list"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error with field messages"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /lists/create/ [post]
func (c *TalkListController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	list, err := c.Lists.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, list)
}

// Detail godoc
// @Summary Get a talk list by slug
// @Description Returns the list and its talks ordered by scheduled time then room. Other users' lists are 404.
// @Tags lists
// @Produce json
// @Security BearerAuth
// @Param slug path string true "List slug"
// @Success 200 {object} helpers.APIResponse "data contains list and talks"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /lists/d/{slug}/ [get]
func (c *TalkListController) Detail(w http.ResponseWriter, r *http.Request) {
	c.detail(w, r)
}

// Schedule godoc
// @Summary Schedule view of a talk list
// @Description Returns the same list and talks as the detail view, ordered by scheduled time then room for a chronological schedule rendering.
// @Tags lists
// @Produce json
// @Security BearerAuth
// @Param slug path string true "List slug"
// @Success 200 {object} helpers.APIResponse "data contains list and talks"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /lists/s/{slug}/ [get]
func (c *TalkListController) Schedule(w http.ResponseWriter, r *http.Request) {
	c.detail(w, r)
}

func (c *TalkListController) detail(w http.ResponseWriter, r *http.Request) {
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
	list, talks, err := c.Lists.Detail(r.Context(), userID, slug)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "list not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ListDetailResponse{List: list, Talks: newTalkPayloads(talks)})
}

// AddTalk godoc
// @Summary Add a talk to a list
// @Description Adds a talk (name, host, when, room) to the list identified by slug. The scheduled time must fall strictly inside the conference window and the room must be one of the known rooms. Talk names are unique within a list.
// @Tags lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "List slug"
// @Param body body AddTalkRequest true "Talk fields"
// @Success 201 {object} helpers.APIResponse "data contains the created talk"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error with field messages"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /lists/d/{slug}/ [post]
func (c *TalkListController) AddTalk(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing slug")
		return
	}
	var req AddTalkRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	talk, err := c.Talks.Add(r.Context(), userID, slug, domain.TalkInput{
		Name: req.Name,
		Host: req.Host,
		When: req.When,
		Room: req.Room,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "list not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, newTalkPayload(talk))
}

// Update godoc
// @Summary Rename a talk list
// @Description Renames the list identified by slug. The slug is recomputed from the new name and the per-user name uniqueness is re-checked.
// @Tags lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "List slug"
// @Param body body CreateListRequest true "New name"
// @Success 200 {object} helpers.APIResponse "data contains the updated list"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error with field messages"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /lists/update/{slug}/ [post]
func (c *TalkListController) Update(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing slug")
		return
	}
	var req CreateListRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	list, err := c.Lists.Rename(r.Context(), userID, slug, req.Name)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "list not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

// Delete godoc
// @Summary Delete a talk list
// @Description Deletes the list identified by slug. Its talks are removed with it.
// @Tags lists
// @Produce json
// @Security BearerAuth
// @Param slug path string true "List slug"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /lists/d/{slug}/ [delete]
func (c *TalkListController) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := c.Lists.Delete(r.Context(), userID, slug); err != nil {
		writeServiceError(w, r, c.Logger, err, "list not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, DeleteListResponse{Status: "deleted"})
}

// RemoveTalk godoc
// @Summary Remove a talk from a list
// @Description Permanently deletes the talk identified by listID and talkID. The talk must sit inside one of the caller's lists; anything else is 404. The response carries a success message naming the talk and list, and the parent list's detail path as the redirect target.
// @Tags lists
// @Produce json
// @Security BearerAuth
// @Param listID path string true "List ID"
// @Param talkID path string true "Talk ID"
// @Success 200 {object} helpers.APIResponse "data contains message and redirect_to"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /lists/remove/{listID}/{talkID}/ [post]
func (c *TalkListController) RemoveTalk(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("listID")
	talkID := r.PathValue("talkID")
	if listID == "" || talkID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing listID or talkID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	removal, err := c.Lists.RemoveTalk(r.Context(), userID, listID, talkID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "talk not found")
		return
	}
	w.Header().Set("Location", removal.RedirectTo)
	h.WriteJSONSuccess(w, http.StatusOK, removal)
}
