// Copyright (c) 2026 Conduit. All rights reserved.

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conduithq/conduit/internal/platform/middleware"
	requestutil "github.com/conduithq/conduit/internal/platform/request"
	"github.com/conduithq/conduit/internal/platform/respond"
)

// Handler implements profile-related HTTP endpoints.
type Handler struct {
	profileService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{profileService: service}
}

// Routes returns a [chi.Router] configured with profile-specific routes.
//
// # Endpoints
//   - GET    /{username}         : Public profile (optional auth).
//   - POST   /{username}/follow  : Follow a profile (auth required).
//   - DELETE /{username}/follow  : Unfollow a profile (auth required).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{username}", handler.get)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/{username}/follow", handler.follow)
		r.Delete("/{username}/follow", handler.unfollow)
	})

	return router
}

// profileEnvelope wraps every profile response in the "profile" key.
type profileEnvelope struct {
	Profile *Profile `json:"profile"`
}

// get handles GET /api/profiles/{username} requests.
//
// Anonymous callers get Following=false; authenticated callers get their
// actual follow state.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.profileService.Get(
		request.Context(),
		requestutil.ViewerID(request),
		requestutil.Param(request, "username"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profileEnvelope{Profile: profile})
}

// follow handles POST /api/profiles/{username}/follow requests.
func (handler *Handler) follow(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.profileService.Follow(
		request.Context(), viewerID, requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profileEnvelope{Profile: profile})
}

// unfollow handles DELETE /api/profiles/{username}/follow requests.
func (handler *Handler) unfollow(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.profileService.Unfollow(
		request.Context(), viewerID, requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profileEnvelope{Profile: profile})
}
