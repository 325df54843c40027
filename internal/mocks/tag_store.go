package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/store"
)

// TagStore is an in-memory store.TagStore enforcing name uniqueness.
type TagStore struct {
	mu     sync.Mutex
	tags   map[int64]*domain.Tag
	nextID int64

	// Err, when non-nil, is returned by every operation.
	Err error
}

// NewTagStore creates an empty in-memory tag store.
func NewTagStore() *TagStore {
	return &TagStore{tags: make(map[int64]*domain.Tag), nextID: 1}
}

var _ store.TagStore = (*TagStore)(nil)

func (s *TagStore) Create(_ context.Context, tag *domain.Tag) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tags {
		if existing.Name == tag.Name {
			return fmt.Errorf("%w: tag %q already exists", store.ErrDuplicate, tag.Name)
		}
	}
	tag.ID = s.nextID
	s.nextID++
	copied := *tag
	s.tags[tag.ID] = &copied
	return nil
}

func (s *TagStore) List(_ context.Context) ([]*domain.Tag, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Tag, 0, len(s.tags))
	for id := int64(1); id < s.nextID; id++ {
		if tag, ok := s.tags[id]; ok {
			copied := *tag
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *TagStore) Delete(_ context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[id]; !ok {
		return store.ErrTagNotFound
	}
	delete(s.tags, id)
	return nil
}

func (s *TagStore) WithTx(*sql.Tx) store.TagStore { return s }
