package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"judge_client/internal/api/middleware"
	"judge_client/internal/app/service"
	"judge_client/internal/common"
	"judge_client/internal/domain/model"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.With(middleware.Authenticator).Get("/me", h.me)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req model.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithMessage(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	cred, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		respondWithMessage(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, cred)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req model.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithMessage(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	cred, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondWithMessage(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, cred)
}

// me echoes the identity in the caller's token.
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	email, _ := middleware.GetUserEmailFromContext(r.Context())
	common.RespondWithJSON(w, http.StatusOK, map[string]any{"userId": userID, "email": email})
}
