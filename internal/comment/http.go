// Copyright (c) 2026 Conduit. All rights reserved.

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conduithq/conduit/internal/platform/middleware"
	requestutil "github.com/conduithq/conduit/internal/platform/request"
	"github.com/conduithq/conduit/internal/platform/respond"
	"github.com/conduithq/conduit/internal/platform/validate"
	"github.com/conduithq/conduit/pkg/pagination"
)

// Handler implements comment-related HTTP endpoints.
//
// # Routing
//
// The router returned by [Handler.Routes] is mounted by the article
// handler under /articles/{slug}/comments, so the slug URL parameter is
// resolved through chi's shared routing context.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] with the comment endpoints.
//
// # Endpoints
//   - GET    /      : List an article's comments (optional auth).
//   - POST   /      : Post a comment (auth required).
//   - DELETE /{id}  : Author-only delete → 204.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Delete("/{id}", handler.remove)
	})

	return router
}

// # Wire Formats

// commentEnvelope wraps a single comment in the "comment" key.
type commentEnvelope struct {
	Comment *View `json:"comment"`
}

// commentsEnvelope wraps a comment page in the "comments" key.
type commentsEnvelope struct {
	Comments []*View `json:"comments"`
}

// createRequest represents the JSON payload expected for a new comment.
type createRequest struct {
	Comment struct {
		Body string `json:"body"`
	} `json:"comment"`
}

// create handles POST /api/articles/{slug}/comments requests.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Identity & Payload ─────────────────────────────────────────────

	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required("body", input.Comment.Body)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	view, err := handler.commentService.Create(
		request.Context(), callerID, requestutil.Param(request, "slug"), input.Comment.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, commentEnvelope{Comment: view})
}

// list handles GET /api/articles/{slug}/comments requests.
//
// Pagination: limit (default 10, max 50) and offset query parameters.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request, pagination.DefaultCommentLimit)

	views, _, err := handler.commentService.ListBySlug(
		request.Context(),
		requestutil.ViewerID(request),
		requestutil.Param(request, "slug"),
		page.Limit, page.Offset,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, commentsEnvelope{Comments: views})
}

// remove handles DELETE /api/articles/{slug}/comments/{id} requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.commentService.Delete(
		request.Context(), callerID,
		requestutil.Param(request, "slug"),
		requestutil.Param(request, "id"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
