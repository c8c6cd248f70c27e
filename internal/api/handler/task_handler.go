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

type TaskHandler struct {
	taskService *service.TaskService
	auth        *middleware.Authenticator
}

func NewTaskHandler(taskService *service.TaskService, auth *middleware.Authenticator) *TaskHandler {
	return &TaskHandler{taskService: taskService, auth: auth}
}

func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Authenticate)
	r.Get("/", h.listTasks)
	r.Post("/", h.createTask)
	r.Get("/{taskID}", h.getTask)
	r.Put("/{taskID}", h.updateTask)
	r.Delete("/{taskID}", h.deleteTask)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRoles(model.RoleAdmin))
		admin.Get("/admin/all", h.listAllTasks)
	})
}

type taskListData struct {
	Tasks      []model.Task   `json:"tasks"`
	Pagination taskPagination `json:"pagination"`
}

type adminTaskListData struct {
	Tasks      []model.TaskWithOwner `json:"tasks"`
	Pagination taskPagination        `json:"pagination"`
}

type taskPagination struct {
	common.PageMeta
	TotalTasks int `json:"totalTasks"`
}

func (h *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	params := common.ParsePageParams(r.URL.Query())
	query := service.ListTasksQuery{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}

	tasks, total, err := h.taskService.ListTasks(r.Context(), user.ID, query, params)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, taskListData{
		Tasks:      tasks,
		Pagination: taskPagination{PageMeta: common.NewPageMeta(params, total), TotalTasks: total},
	})
}

func (h *TaskHandler) getTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := idParam(r, "taskID", "Task not found")
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, task)
}

func (h *TaskHandler) createTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req service.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), user.ID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithMessage(w, http.StatusCreated, "Task created successfully", task)
}

func (h *TaskHandler) updateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := idParam(r, "taskID", "Task not found")
	if err != nil {
		respondError(w, err)
		return
	}

	var req service.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, user.ID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Task updated successfully", task)
}

func (h *TaskHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := idParam(r, "taskID", "Task not found")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id, user.ID); err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Task deleted successfully", nil)
}

func (h *TaskHandler) listAllTasks(w http.ResponseWriter, r *http.Request) {
	params := common.ParsePageParams(r.URL.Query())
	tasks, total, err := h.taskService.ListAllTasks(r.Context(), params)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, adminTaskListData{
		Tasks:      tasks,
		Pagination: taskPagination{PageMeta: common.NewPageMeta(params, total), TotalTasks: total},
	})
}
