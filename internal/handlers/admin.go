// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/content"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// Admin groups the mutation handlers. Role policies gate the routes; the
// per-resource owner check happens here after the row is loaded.
type Admin struct {
	svc *content.Service
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(svc *content.Service) *Admin {
	return &Admin{svc: svc}
}

// blogRequest is the JSON body for blog create and update.
type blogRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Excerpt  *string  `json:"excerpt"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status"`
	Featured bool     `json:"featured"`
}

func (req *blogRequest) input() content.BlogInput {
	return content.BlogInput{
		Title:    req.Title,
		Body:     req.Body,
		Excerpt:  req.Excerpt,
		Category: req.Category,
		Tags:     req.Tags,
		Status:   models.BlogStatus(req.Status),
		Featured: req.Featured,
	}
}

// CreateBlog serves POST /api/blogs.
func (a *Admin) CreateBlog(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errResponse{Error: "unauthorized"})
		return
	}

	var req blogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBlogRequest(req.Title, req.Body, req.Excerpt, req.Tags); err != nil {
		writeError(w, err)
		return
	}

	created, err := a.svc.CreateBlog(r.Context(), req.input(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateBlog serves PUT /api/blogs/{id}. Only the owner or an admin may
// update.
func (a *Admin) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := a.actorAndID(w, r)
	if !ok {
		return
	}

	existing, err := a.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !middleware.OwnerOrAdmin(actor, existing.AuthorID) {
		writeJSON(w, http.StatusForbidden, errResponse{Error: "forbidden"})
		return
	}

	var req blogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBlogRequest(req.Title, req.Body, req.Excerpt, req.Tags); err != nil {
		writeError(w, err)
		return
	}

	updated, err := a.svc.UpdateBlog(r.Context(), id, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteBlog serves DELETE /api/blogs/{id}. Only the owner or an admin
// may delete.
func (a *Admin) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := a.actorAndID(w, r)
	if !ok {
		return
	}

	existing, err := a.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !middleware.OwnerOrAdmin(actor, existing.AuthorID) {
		writeJSON(w, http.StatusForbidden, errResponse{Error: "forbidden"})
		return
	}

	if err := a.svc.DeleteBlog(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordView serves POST /api/blogs/{id}/view: the explicit view-recording
// path for clients that served the detail page from their own cache.
func (a *Admin) RecordView(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("id", "must be a valid id"))
		return
	}
	if err := a.svc.RecordView(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LikeBlog serves POST /api/blogs/{id}/like.
func (a *Admin) LikeBlog(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := a.actorAndID(w, r)
	if !ok {
		return
	}
	if err := a.svc.Like(r.Context(), id, actor.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnlikeBlog serves DELETE /api/blogs/{id}/like.
func (a *Admin) UnlikeBlog(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := a.actorAndID(w, r)
	if !ok {
		return
	}
	if err := a.svc.Unlike(r.Context(), id, actor.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// categoryRequest is the JSON body for category create and rename.
type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory serves POST /api/categories.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateCategoryName(req.Name); err != nil {
		writeError(w, err)
		return
	}

	created, err := a.svc.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// RenameCategory serves PUT /api/categories/{id}: renames the category
// and bulk-rewrites every referencing blog.
func (a *Admin) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("id", "must be a valid id"))
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateCategoryName(req.Name); err != nil {
		writeError(w, err)
		return
	}

	renamed, err := a.svc.RenameCategory(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renamed)
}

// DeleteCategory serves DELETE /api/categories/{id}?reassign_to=Name.
// Refused while blogs reference the category unless a reassignment
// target is supplied.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("id", "must be a valid id"))
		return
	}

	if err := a.svc.DeleteCategory(r.Context(), id, r.URL.Query().Get("reassign_to")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reconcileResponse reports a reconciliation result.
type reconcileResponse struct {
	Category  string `json:"category"`
	BlogCount int    `json:"blog_count"`
}

// ReconcileCategory serves POST /api/categories/{name}/reconcile: the
// operator-triggered repair path for counter drift.
func (a *Admin) ReconcileCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	count, err := a.svc.ReconcileCategory(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reconcileResponse{Category: name, BlogCount: count})
}

// actorAndID extracts the context actor and the {id} URL parameter,
// writing the error response itself when either is missing.
func (a *Admin) actorAndID(w http.ResponseWriter, r *http.Request) (models.Actor, uuid.UUID, bool) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errResponse{Error: "unauthorized"})
		return models.Actor{}, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("id", "must be a valid id"))
		return models.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}
