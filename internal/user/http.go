// Copyright (c) 2026 Conduit. All rights reserved.

// HTTP delivery layer for account identity.
//
// # Architecture
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON Request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.
package user

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conduithq/conduit/internal/platform/middleware"
	requestutil "github.com/conduithq/conduit/internal/platform/request"
	"github.com/conduithq/conduit/internal/platform/respond"
	"github.com/conduithq/conduit/internal/platform/validate"
)

// Handler implements account-related HTTP endpoints.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// AuthRoutes returns the unauthenticated account entry points.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a JWT.
func (handler *Handler) AuthRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	return router
}

// MeRoutes returns the current-user endpoints.
//
// # Endpoints
//   - GET /  : Returns the caller's account and a fresh token.
//   - PUT /  : Partially updates the caller's account.
func (handler *Handler) MeRoutes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)
	router.Get("/", handler.me)
	router.Put("/", handler.update)

	return router
}

// # Wire Formats

// userView is the public shape of an account, token included.
type userView struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// userEnvelope wraps every account response in the "user" key.
type userEnvelope struct {
	User userView `json:"user"`
}

// newUserEnvelope maps a [Session] onto the wire format.
func newUserEnvelope(session *Session) userEnvelope {
	return userEnvelope{User: userView{
		Email:    session.User.Email,
		Token:    session.Token,
		Username: session.User.Username,
		Bio:      session.User.Bio,
		Image:    session.User.Image,
	}}
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	User struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// register handles POST /api/users/register requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the account and token.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if email/username is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required("username", input.User.Username).
		MinLen("username", input.User.Username, 3).
		MaxLen("username", input.User.Username, 64).
		Required("email", input.User.Email).
		Email("email", input.User.Email).
		Required("password", input.User.Password).
		MinLen("password", input.User.Password, 8)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.userService.Register(request.Context(), RegisterInput{
		Username: input.User.Username,
		Email:    input.User.Email,
		Password: input.User.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, newUserEnvelope(session))
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// login handles POST /api/users/login requests.
//
// # Returns
//   - Writes HTTP 200 OK on success with the account and token.
//   - Writes HTTP 401 Unauthorized for bad credentials.
//   - Writes HTTP 429 Too Many Requests when the per-IP budget is spent.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required("email", input.User.Email).
		Required("password", input.User.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.userService.Login(request.Context(), LoginInput{
		Email:     input.User.Email,
		Password:  input.User.Password,
		IPAddress: clientIP(request),
	})
	if err != nil {
		// 401 without leaking whether the email or the password was wrong.
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, newUserEnvelope(session))
}

// me handles GET /api/user requests.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.userService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newUserEnvelope(session))
}

// updateRequest represents the JSON payload for partial account updates.
// Absent fields stay nil and are left untouched.
type updateRequest struct {
	User struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	} `json:"user"`
}

// update handles PUT /api/user requests.
//
// # Returns
//   - Writes HTTP 200 OK with the updated account and a fresh token.
//   - Writes HTTP 400 Bad Request if a provided field fails validation.
//   - Writes HTTP 409 Conflict if the new email/username is taken.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Identity & Payload ─────────────────────────────────────────────

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation (provided fields only) ─────────────────────

	validator := &validate.Validator{}
	if input.User.Username != nil {
		validator.
			Required("username", *input.User.Username).
			MinLen("username", *input.User.Username, 3).
			MaxLen("username", *input.User.Username, 64)
	}
	if input.User.Email != nil {
		validator.Email("email", *input.User.Email)
	}
	if input.User.Password != nil {
		validator.MinLen("password", *input.User.Password, 8)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.userService.Update(request.Context(), userID, UpdateInput{
		Username: input.User.Username,
		Email:    input.User.Email,
		Password: input.User.Password,
		Bio:      input.User.Bio,
		Image:    input.User.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, newUserEnvelope(session))
}

// clientIP extracts the peer address without the ephemeral port.
// The RealIP middleware has already resolved proxy headers upstream.
func clientIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
