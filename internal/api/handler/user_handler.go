package handler

import (
	"encoding/json"
	"net/http"
	"taskboard/internal/api/middleware"
	"taskboard/internal/app/service"
	"taskboard/internal/common"
	"taskboard/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
	auth        *middleware.Authenticator
}

func NewUserHandler(userService *service.UserService, auth *middleware.Authenticator) *UserHandler {
	return &UserHandler{userService: userService, auth: auth}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Authenticate)
	r.Get("/profile", h.getProfile)
	r.Put("/profile", h.updateProfile)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRoles(model.RoleAdmin))
		admin.Get("/", h.listUsers)
		admin.Put("/{userID}", h.updateUser)
	})
}

func (h *UserHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	common.RespondWithData(w, http.StatusOK, user)
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req service.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Profile updated successfully", updated)
}

type userListData struct {
	Users      []model.User   `json:"users"`
	Pagination userPagination `json:"pagination"`
}

type userPagination struct {
	common.PageMeta
	TotalUsers int `json:"totalUsers"`
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	params := common.ParsePageParams(r.URL.Query())
	users, total, err := h.userService.ListUsers(r.Context(), params)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, userListData{
		Users:      users,
		Pagination: userPagination{PageMeta: common.NewPageMeta(params, total), TotalUsers: total},
	})
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "userID", "User not found")
	if err != nil {
		respondError(w, err)
		return
	}

	var req service.AdminUpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.userService.UpdateUser(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "User updated successfully", updated)
}
