package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/jyoon-dev/skyticket/internal/apperrors"
	"github.com/jyoon-dev/skyticket/internal/handlers/render"
	"github.com/jyoon-dev/skyticket/internal/models"
)

// Auth service as the handlers need it
type AuthService interface {
	Register(ctx context.Context, loginID string, password string, passwordConfirm string) (models.Member, error)
	Login(ctx context.Context, loginID string, password string) (models.TokenPair, error)
	Logout(ctx context.Context, member models.Member, refreshToken string) error

	Authenticate(ctx context.Context, r *http.Request) (models.Member, error)
	ValidateToken(tokenString string) bool
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)
	GetRefreshString(r *http.Request) string
}

type AuthHandler struct {
	authService AuthService
}

func NewAuth(as AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

func (h *AuthHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signup", h.signup)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /logout", h.logout)

	return mux
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	type SignupRequest struct {
		LoginID         string `json:"loginId" validate:"required,min=2,max=50"`
		Password        string `json:"password" validate:"required,min=8"`
		PasswordConfirm string `json:"passwordConfirm" validate:"required"`
	}

	data, err := render.BindAndValidate[SignupRequest](w, r)
	if err != nil {
		return
	}

	member, err := h.authService.Register(r.Context(), data.LoginID, data.Password, data.PasswordConfirm)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPasswordsNotMatched):
			render.Fail(w, apperrors.CodePasswordsNotMatched, "Password and confirmation do not match", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrMemberAlreadyExists):
			render.Fail(w, apperrors.CodeDuplicatedUserID, "Login id is already registered", http.StatusConflict)
		default:
			render.Fail(w, render.CodeInternalError, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.Success(w, member.LoginID+" registered successfully")
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		LoginID  string `json:"loginId" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.authService.Login(r.Context(), data.LoginID, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMemberNotFound):
			render.Fail(w, apperrors.CodeMemberNotFound, "Member could not be found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrInvalidMember):
			render.Fail(w, apperrors.CodeInvalidMember, "Member could not be found", http.StatusUnauthorized)
		default:
			render.Fail(w, render.CodeInternalError, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.authService.SetTokenPairToResponse(w, pair)
	render.Success(w, data.LoginID+" logged in successfully")
}

// logout is not behind the auth middleware: the presented refresh token is
// checked before the caller is resolved, so an anonymous request with a bad
// refresh token fails with INVALID_TOKEN, not MEMBER_NOT_FOUND.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	refresh := h.authService.GetRefreshString(r)
	if !h.authService.ValidateToken(refresh) {
		render.Fail(w, apperrors.CodeInvalidToken, "Refresh token is not valid", http.StatusUnauthorized)
		return
	}

	member, err := h.authService.Authenticate(r.Context(), r)
	if err != nil {
		render.Fail(w, apperrors.CodeMemberNotFound, "Member could not be found", http.StatusUnauthorized)
		return
	}

	err = h.authService.Logout(r.Context(), member, refresh)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidToken):
			render.Fail(w, apperrors.CodeInvalidToken, "Refresh token is not valid", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
			render.Fail(w, apperrors.CodeTokenNotFound, "No refresh token stored for member", http.StatusNotFound)
		default:
			render.Fail(w, render.CodeInternalError, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.Success(w, "logged out successfully")
}
