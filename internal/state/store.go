package state

import (
	"context"
	"sync"

	"menu-admin/internal/api"
	"menu-admin/internal/model"
	"menu-admin/internal/tree"

	"go.uber.org/zap"
)

// Snapshotter receives the menus after every successful fetch.
type Snapshotter interface {
	SaveMenus(ctx context.Context, menus []model.Menu) error
}

// Store runs requests against a Backend and applies the matching reducer.
// Requests are expected to be issued one at a time by the UI; the mutex only
// guards readers (e.g. a render loop) against a reducer in progress.
type Store struct {
	backend api.Backend
	log     *zap.Logger
	snap    Snapshotter

	mu        sync.RWMutex
	st        State
	listeners []func(State)
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithSnapshotter(snap Snapshotter) Option {
	return func(s *Store) { s.snap = snap }
}

func NewStore(backend api.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     zap.NewNop(),
		st:      State{Menus: []model.Menu{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Clone()
}

// OnChange registers fn to be called with a copy of the state after every reducer.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) apply(reduce func(*State)) {
	s.mu.Lock()
	reduce(&s.st)
	snap := s.st.Clone()
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *Store) FetchMenus(ctx context.Context) ([]model.Menu, error) {
	s.apply(func(st *State) { st.FetchPending() })

	menus, err := s.backend.FetchMenus(ctx)
	if err != nil {
		s.log.Warn("fetch menus failed", zap.Error(err))
		s.apply(func(st *State) { st.FetchRejected(err) })
		return nil, err
	}
	s.apply(func(st *State) { st.FetchFulfilled(model.CloneMenus(menus)) })

	if s.snap != nil {
		if err := s.snap.SaveMenus(ctx, menus); err != nil {
			s.log.Warn("save menus snapshot failed", zap.Error(err))
		}
	}
	return menus, nil
}

func (s *Store) CreateMenu(ctx context.Context, in model.NewMenu) (model.Menu, error) {
	menu, err := s.backend.CreateMenu(ctx, in)
	if err != nil {
		s.log.Warn("create menu failed", zap.Error(err))
		return model.Menu{}, err
	}
	s.apply(func(st *State) { st.MenuCreated(menu.Clone()) })
	return menu, nil
}

func (s *Store) AddMenuItem(ctx context.Context, in model.NewMenuItem) (model.MenuItem, error) {
	item, err := s.backend.AddMenuItem(ctx, in)
	if err != nil {
		s.log.Warn("add menu item failed", zap.Error(err))
		return model.MenuItem{}, err
	}
	s.apply(func(st *State) { st.ItemAdded(item.Clone()) })
	return item, nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, id, name string) (model.MenuItem, error) {
	patch, err := s.backend.UpdateMenuItem(ctx, id, model.ItemRename{Name: name})
	if err != nil {
		s.log.Warn("update menu item failed", zap.String("id", id), zap.Error(err))
		return model.MenuItem{}, err
	}
	item := patch.Item()
	s.apply(func(st *State) {
		st.ItemUpdated(patch)
		if merged, ok := tree.FindInMenus(st.Menus, patch.ID); ok {
			item = merged.Clone()
		}
	})
	return item, nil
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) (string, error) {
	deleted, err := s.backend.DeleteMenuItem(ctx, id)
	if err != nil {
		s.log.Warn("delete menu item failed", zap.String("id", id), zap.Error(err))
		return "", err
	}
	s.apply(func(st *State) { st.ItemDeleted(deleted) })
	return deleted, nil
}
