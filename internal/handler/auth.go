package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/forumvotes/internal/domain"
	"github.com/msomdec/forumvotes/internal/service"
)

// AuthHandler issues access tokens for new and existing accounts.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// HandleRegister creates an account.
// POST /register
// Request:  {"email":"...","password":"...","name":"..."}
// Response: {"accessToken":"...","user":{...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req := readBody[credentials](r)

	user, token, err := h.auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		var inputErr *domain.InputError
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "Email already exists")
		case errors.As(err, &inputErr):
			writeError(w, http.StatusBadRequest, inputErr.Message)
		default:
			writeInternalError(w, "register user", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponseDTO{AccessToken: token, User: toUserDTO(user)})
}

// HandleLogin exchanges credentials for an access token.
// POST /login
// Request:  {"email":"...","password":"..."}
// Response: {"accessToken":"...","user":{...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req := readBody[credentials](r)

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusBadRequest, "Incorrect email or password")
			return
		}
		writeInternalError(w, "login user", err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponseDTO{AccessToken: token, User: toUserDTO(user)})
}
