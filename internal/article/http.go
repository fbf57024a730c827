// Copyright (c) 2026 Conduit. All rights reserved.

package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conduithq/conduit/internal/platform/middleware"
	requestutil "github.com/conduithq/conduit/internal/platform/request"
	"github.com/conduithq/conduit/internal/platform/respond"
	"github.com/conduithq/conduit/internal/platform/validate"
	"github.com/conduithq/conduit/pkg/pagination"
)

// Handler implements article-related HTTP endpoints.
type Handler struct {
	articleService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{articleService: service}
}

// Routes returns a [chi.Router] configured with article-specific routes.
// The comment sub-router is mounted under /{slug}/comments so comment
// handlers can read the slug from the shared routing context.
//
// # Endpoints
//   - GET    /                 : Filtered global listing (optional auth).
//   - GET    /feed             : Followee feed (auth required).
//   - GET    /{slug}           : Single article (optional auth).
//   - POST   /                 : Publish (auth required).
//   - PUT    /{slug}           : Author-only update.
//   - DELETE /{slug}           : Author-only delete → 204.
//   - POST   /{slug}/favorite  : Favorite (auth required).
//   - DELETE /{slug}/favorite  : Unfavorite (auth required).
func (handler *Handler) Routes(commentRoutes chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{slug}", handler.get)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/feed", handler.feed)
		r.Post("/", handler.create)
		r.Put("/{slug}", handler.update)
		r.Delete("/{slug}", handler.remove)
		r.Post("/{slug}/favorite", handler.favorite)
		r.Delete("/{slug}/favorite", handler.unfavorite)
	})

	router.Mount("/{slug}/comments", commentRoutes)

	return router
}

// # Wire Formats

// articleEnvelope wraps a single article in the "article" key.
type articleEnvelope struct {
	Article *View `json:"article"`
}

// listEnvelope wraps a listing page together with its page metadata.
type listEnvelope struct {
	Articles      []*ListItem `json:"articles"`
	ArticlesCount int         `json:"articlesCount"`
	Page          int         `json:"page"`
	Limit         int         `json:"limit"`
}

// list handles GET /api/articles requests.
//
// Query parameters: tag, author (substring), favorited (exact username),
// limit, offset.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request, pagination.DefaultLimit)
	filter := Filter{
		Tag:         request.URL.Query().Get("tag"),
		Author:      request.URL.Query().Get("author"),
		FavoritedBy: request.URL.Query().Get("favorited"),
	}

	items, total, err := handler.articleService.List(
		request.Context(), requestutil.ViewerID(request), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, listEnvelope{
		Articles:      items,
		ArticlesCount: total,
		Page:          page.Page(),
		Limit:         page.Limit,
	})
}

// feed handles GET /api/articles/feed requests.
func (handler *Handler) feed(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request, pagination.DefaultLimit)
	items, total, err := handler.articleService.Feed(request.Context(), viewerID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, listEnvelope{
		Articles:      items,
		ArticlesCount: total,
		Page:          page.Page(),
		Limit:         page.Limit,
	})
}

// get handles GET /api/articles/{slug} requests.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.articleService.Get(
		request.Context(),
		requestutil.ViewerID(request),
		requestutil.Param(request, "slug"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, articleEnvelope{Article: view})
}

// createRequest represents the JSON payload expected for publication.
type createRequest struct {
	Article struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Body        string   `json:"body"`
		TagList     []string `json:"tagList"`
	} `json:"article"`
}

// create handles POST /api/articles requests.
//
// # Returns
//   - Writes HTTP 201 Created with the composed article view.
//   - Writes HTTP 400 Bad Request if validation rules fail.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Identity & Payload ─────────────────────────────────────────────

	authorID, err := requestutil.RequiredUserID(request)
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
	validator.
		Required("title", input.Article.Title).
		MaxLen("title", input.Article.Title, 255).
		Required("description", input.Article.Description).
		Required("body", input.Article.Body)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	view, err := handler.articleService.Create(request.Context(), authorID, CreateInput{
		Title:       input.Article.Title,
		Description: input.Article.Description,
		Body:        input.Article.Body,
		TagList:     input.Article.TagList,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, articleEnvelope{Article: view})
}

// updateRequest represents the JSON payload for partial article updates.
type updateRequest struct {
	Article struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Body        *string   `json:"body"`
		TagList     *[]string `json:"tagList"`
	} `json:"article"`
}

// update handles PUT /api/articles/{slug} requests.
//
// # Returns
//   - Writes HTTP 200 OK with the updated article view.
//   - Writes HTTP 403 Forbidden when the caller is not the author.
//   - Writes HTTP 404 Not Found for unknown slugs.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.Article.Title != nil {
		validator.
			Required("title", *input.Article.Title).
			MaxLen("title", *input.Article.Title, 255)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.articleService.Update(
		request.Context(), callerID, requestutil.Param(request, "slug"), Patch{
			Title:       input.Article.Title,
			Description: input.Article.Description,
			Body:        input.Article.Body,
			TagList:     input.Article.TagList,
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, articleEnvelope{Article: view})
}

// remove handles DELETE /api/articles/{slug} requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.articleService.Delete(
		request.Context(), callerID, requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// favorite handles POST /api/articles/{slug}/favorite requests.
func (handler *Handler) favorite(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.articleService.Favorite(
		request.Context(), viewerID, requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, articleEnvelope{Article: view})
}

// unfavorite handles DELETE /api/articles/{slug}/favorite requests.
func (handler *Handler) unfavorite(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.articleService.Unfavorite(
		request.Context(), viewerID, requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, articleEnvelope{Article: view})
}
