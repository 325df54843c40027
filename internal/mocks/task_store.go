package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/store"
)

// TaskStore is an in-memory store.TaskStore. Set Err to make every
// operation fail with it.
type TaskStore struct {
	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	links  map[int64][]int64
	nextID int64

	// Err, when non-nil, is returned by every operation.
	Err error
}

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks:  make(map[int64]*domain.Task),
		links:  make(map[int64][]int64),
		nextID: 1,
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

// Seed inserts a task directly, assigning an ID if it has none.
func (s *TaskStore) Seed(task *domain.Task) *domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID == 0 {
		task.ID = s.nextID
		s.nextID++
	} else if task.ID >= s.nextID {
		s.nextID = task.ID + 1
	}
	s.tasks[task.ID] = task
	return task
}

// TagIDs returns the tag links recorded for a task.
func (s *TaskStore) TagIDs(taskID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.links[taskID]...)
}

func (s *TaskStore) Create(_ context.Context, task *domain.Task, tagIDs []int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = s.nextID
	s.nextID++
	s.tasks[task.ID] = task
	if len(tagIDs) > 0 {
		s.links[task.ID] = append([]int64(nil), tagIDs...)
	}
	return nil
}

func (s *TaskStore) GetByID(_ context.Context, id int64, userID string) (*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || !task.IsOwnedBy(userID) {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *TaskStore) List(_ context.Context, userID string, filter store.TaskFilter) ([]*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Task, 0)
	for id := int64(1); id < s.nextID; id++ {
		task, ok := s.tasks[id]
		if !ok || !task.IsOwnedBy(userID) {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		if filter.Search != "" && !matchesSearch(task, filter.Search) {
			continue
		}
		if filter.TagID != 0 && !s.linkedTo(task.ID, filter.TagID) {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	sortTasks(out, filter.SortBy, filter.SortAsc)
	return pageTasks(out, filter.Offset, filter.Limit), nil
}

func matchesSearch(task *domain.Task, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(task.Title), needle) ||
		strings.Contains(strings.ToLower(task.Description), needle)
}

func (s *TaskStore) linkedTo(taskID, tagID int64) bool {
	for _, id := range s.links[taskID] {
		if id == tagID {
			return true
		}
	}
	return false
}

func sortTasks(tasks []*domain.Task, field store.TaskSortField, asc bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if !asc {
			a, b = b, a
		}
		switch field {
		case store.TaskSortTitle:
			return a.Title < b.Title
		case store.TaskSortPriority:
			return string(a.Priority) < string(b.Priority)
		case store.TaskSortDueDate:
			if a.DueDate == nil || b.DueDate == nil {
				return b.DueDate == nil && a.DueDate != nil
			}
			return a.DueDate.Before(*b.DueDate)
		case store.TaskSortUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}

func pageTasks(tasks []*domain.Task, offset, limit int) []*domain.Task {
	if offset >= len(tasks) {
		return []*domain.Task{}
	}
	tasks = tasks[offset:]
	if limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks
}

func (s *TaskStore) Update(_ context.Context, task *domain.Task, tagIDs []int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[task.ID]
	if !ok || !existing.IsOwnedBy(task.UserID) {
		return store.ErrTaskNotFound
	}
	copied := *task
	s.tasks[task.ID] = &copied
	if tagIDs != nil {
		s.links[task.ID] = append([]int64(nil), tagIDs...)
	}
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id int64, userID string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || !task.IsOwnedBy(userID) {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	delete(s.links, id)
	return nil
}

func (s *TaskStore) Stats(_ context.Context, userID string) (*store.TaskStats, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &store.TaskStats{}
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		stats.Total++
		if task.Completed {
			stats.Complete++
		}
	}
	stats.Pending = stats.Total - stats.Complete
	return stats, nil
}

func (s *TaskStore) DueReminders(_ context.Context, now time.Time) ([]*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Task, 0)
	for id := int64(1); id < s.nextID; id++ {
		task, ok := s.tasks[id]
		if !ok || task.Completed || task.ReminderAt == nil {
			continue
		}
		if task.ReminderAt.After(now) {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	return out, nil
}

func (s *TaskStore) ClearReminder(_ context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if task, ok := s.tasks[id]; ok {
		task.ReminderAt = nil
	}
	return nil
}

func (s *TaskStore) WithTx(*sql.Tx) store.TaskStore { return s }
