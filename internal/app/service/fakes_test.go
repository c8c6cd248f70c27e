package service

import (
	"context"
	"os"
	"sort"
	"taskboard/internal/common"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/model"
	"taskboard/internal/domain/repository"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	security.InitJWT([]byte("service-test-secret"), time.Hour)
	os.Exit(m.Run())
}

type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*model.User{}}
}

func (f *fakeUserRepo) addUser(u model.User) *model.User {
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = &u
	return &u
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return common.NewError(common.ErrBadRequest, "Duplicate field value entered")
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]model.User, int, error) {
	all := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return page(all, limit, offset), len(all), nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id int64, upd repository.UserProfileUpdate) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	u.UpdatedAt = time.Now()
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id int64, upd repository.UserAdminUpdate) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	u.UpdatedAt = time.Now()
	copied := *u
	return &copied, nil
}

type fakeTaskRepo struct {
	tasks  map[int64]*model.Task
	owners *fakeUserRepo
	nextID int64
}

func newFakeTaskRepo(owners *fakeUserRepo) *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*model.Task{}, owners: owners}
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *model.Task) error {
	f.nextID++
	task.ID = f.nextID
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	f.tasks[task.ID] = &stored
	return nil
}

func (f *fakeTaskRepo) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, common.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTaskRepo) ListByOwner(ctx context.Context, ownerID int64, filter repository.TaskFilter, limit, offset int) ([]model.Task, int, error) {
	matched := []model.Task{}
	for _, t := range f.tasks {
		if t.UserID != ownerID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		matched = append(matched, *t)
	}
	// Newest first; ids are monotonic so they stand in for creation time.
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return page(matched, limit, offset), len(matched), nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, id, ownerID int64, upd repository.TaskUpdate) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, common.ErrNotFound
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = upd.Description
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	t.UpdatedAt = time.Now()
	copied := *t
	return &copied, nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id, ownerID int64) error {
	t, ok := f.tasks[id]
	if !ok || t.UserID != ownerID {
		return common.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) ListAll(ctx context.Context, limit, offset int) ([]model.TaskWithOwner, int, error) {
	all := []model.TaskWithOwner{}
	for _, t := range f.tasks {
		item := model.TaskWithOwner{Task: *t}
		if f.owners != nil {
			if owner, ok := f.owners.users[t.UserID]; ok {
				item.UserEmail = owner.Email
				item.UserName = owner.FullName()
			}
		}
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return page(all, limit, offset), len(all), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
