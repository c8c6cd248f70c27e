package service

import (
	"context"
	"errors"
	"strings"
	"taskboard/internal/common"
	"taskboard/internal/domain/model"
	"taskboard/internal/domain/repository"
)

type TaskService struct {
	taskRepo repository.TaskRepository
}

func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// ListTasksQuery carries the raw filter strings from the request; they are
// validated here against the enums.
type ListTasksQuery struct {
	Status   string
	Priority string
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID int64, q ListTasksQuery, p common.PageParams) ([]model.Task, int, error) {
	filter := repository.TaskFilter{}
	if q.Status != "" {
		status := model.TaskStatus(q.Status)
		if !status.Valid() {
			return nil, 0, common.NewError(common.ErrValidation, "Status must be one of pending, in_progress, completed")
		}
		filter.Status = status
	}
	if q.Priority != "" {
		priority := model.TaskPriority(q.Priority)
		if !priority.Valid() {
			return nil, 0, common.NewError(common.ErrValidation, "Priority must be one of low, medium, high")
		}
		filter.Priority = priority
	}
	return s.taskRepo.ListByOwner(ctx, ownerID, filter, p.Limit, p.Offset())
}

func (s *TaskService) GetTask(ctx context.Context, id, ownerID int64) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Task not found")
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID int64, req CreateTaskRequest) (*model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.NewError(common.ErrValidation, "Title is required")
	}

	status := model.StatusPending
	if req.Status != "" {
		status = model.TaskStatus(req.Status)
		if !status.Valid() {
			return nil, common.NewError(common.ErrValidation, "Status must be one of pending, in_progress, completed")
		}
	}
	priority := model.PriorityMedium
	if req.Priority != "" {
		priority = model.TaskPriority(req.Priority)
		if !priority.Valid() {
			return nil, common.NewError(common.ErrValidation, "Priority must be one of low, medium, high")
		}
	}

	task := &model.Task{
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		UserID:      ownerID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id, ownerID int64, req UpdateTaskRequest) (*model.Task, error) {
	upd := repository.TaskUpdate{Description: req.Description}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, common.NewError(common.ErrValidation, "Title cannot be empty")
		}
		upd.Title = &title
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		if !status.Valid() {
			return nil, common.NewError(common.ErrValidation, "Status must be one of pending, in_progress, completed")
		}
		upd.Status = &status
	}
	if req.Priority != nil {
		priority := model.TaskPriority(*req.Priority)
		if !priority.Valid() {
			return nil, common.NewError(common.ErrValidation, "Priority must be one of low, medium, high")
		}
		upd.Priority = &priority
	}

	if upd.Empty() {
		return nil, common.NewError(common.ErrBadRequest, "No fields to update")
	}

	task, err := s.taskRepo.Update(ctx, id, ownerID, upd)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Task not found")
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id, ownerID int64) error {
	if err := s.taskRepo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewError(common.ErrNotFound, "Task not found")
		}
		return err
	}
	return nil
}

func (s *TaskService) ListAllTasks(ctx context.Context, p common.PageParams) ([]model.TaskWithOwner, int, error) {
	return s.taskRepo.ListAll(ctx, p.Limit, p.Offset())
}
