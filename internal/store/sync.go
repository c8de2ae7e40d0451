package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rodstewart/bidctl/internal/logging"
	"github.com/rodstewart/bidctl/internal/search"
)

// ErrNotStarted is returned by Synchronizer actions before Start
var ErrNotStarted = errors.New("synchronizer not started")

// Synchronizer keeps a History and a TenderStore in lock-step. It is the
// only writer of the store's committed criteria: every search, page and
// page-size action becomes a history entry, and the history listener
// parses it, commits it and fetches.
//
// A Synchronizer is driven from one goroutine, the way a view would.
type Synchronizer struct {
	store   *TenderStore
	history *History

	mu             sync.Mutex
	ctx            context.Context
	stop           func()
	lastDispatched string
	force          bool
	lastErr        error
	fetches        int
}

// NewSynchronizer binds store to history. Call Start to begin syncing.
func NewSynchronizer(store *TenderStore, history *History) *Synchronizer {
	return &Synchronizer{store: store, history: history}
}

// Start subscribes to history changes and syncs the current entry, as a
// first page load does. Fetches issued by navigation use ctx.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return nil
	}
	s.ctx = ctx
	s.stop = s.history.Subscribe(s.onNavigate)
	s.mu.Unlock()

	s.onNavigate(s.history.Current())
	return s.takeErr()
}

// Stop unsubscribes from history changes
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// Fetches returns how many searches the synchronizer has dispatched
func (s *Synchronizer) Fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func (s *Synchronizer) started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Synchronizer) takeErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.lastErr
	s.lastErr = nil
	return err
}

// onNavigate is the history listener
func (s *Synchronizer) onNavigate(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = s.syncLocked(query)
}

func (s *Synchronizer) syncLocked(query string) error {
	c, err := search.ParseQuery(query)
	if err != nil {
		logging.Log.Warn("malformed query string, using what could be parsed",
			zap.String("query", query), zap.Error(err))
	}

	s.store.commitCriteria(c)

	key := c.Encode()
	if key == s.lastDispatched && !s.force {
		logging.Log.Debug("query already dispatched", zap.String("query", key))
		return nil
	}
	s.force = false
	s.lastDispatched = key
	s.fetches++

	logging.Log.Debug("dispatching search", zap.String("query", key))
	err = s.store.FetchSearchTenders(s.ctx, c)
	if err != nil && !errors.Is(err, ErrSuperseded) {
		// A failed query is not in effect; visiting it again retries
		s.lastDispatched = ""
	}
	return err
}

// Navigate pushes query as a new history entry, as following a link or
// typing into the address bar does
func (s *Synchronizer) Navigate(query string) error {
	if !s.started() {
		return ErrNotStarted
	}
	s.history.Push(query)
	return s.takeErr()
}

// Submit runs a search for the filters of c from page 1 at the current
// page size. It always fetches, even when the resulting query equals the
// last one.
func (s *Synchronizer) Submit(c search.Criteria) error {
	if !s.started() {
		return ErrNotStarted
	}
	if err := c.Validate(); err != nil {
		return err
	}

	state := s.store.Snapshot()
	next := c.Filters().WithPage(1).WithPageSize(state.PageSize)

	s.mu.Lock()
	s.force = true
	s.mu.Unlock()

	s.history.Push(next.Encode())
	return s.takeErr()
}

// ChangePage moves to page of the committed search. Pages outside the
// current result are rejected without touching the history.
func (s *Synchronizer) ChangePage(page int) error {
	if !s.started() {
		return ErrNotStarted
	}

	state := s.store.Snapshot()
	if err := search.ValidatePage(page, state.TotalPages()); err != nil {
		return err
	}
	if page == state.CurrentPage {
		return nil
	}

	s.history.Push(state.Criteria.WithPage(page).WithPageSize(state.PageSize).Encode())
	return s.takeErr()
}

// ChangePageSize switches the committed search to size rows per page,
// starting again from page 1
func (s *Synchronizer) ChangePageSize(size int) error {
	if !s.started() {
		return ErrNotStarted
	}
	if !search.IsValidPageSize(size) {
		return fmt.Errorf("%w: %d", search.ErrInvalidPageSize, size)
	}

	state := s.store.Snapshot()
	if size == state.PageSize {
		return nil
	}

	s.history.Push(state.Criteria.WithPage(1).WithPageSize(size).Encode())
	return s.takeErr()
}

// Back navigates to the previous history entry. It reports false when
// there is none.
func (s *Synchronizer) Back() (bool, error) {
	if !s.started() {
		return false, ErrNotStarted
	}
	if !s.history.Back() {
		return false, nil
	}
	return true, s.takeErr()
}

// Forward navigates to the next history entry. It reports false when
// there is none.
func (s *Synchronizer) Forward() (bool, error) {
	if !s.started() {
		return false, ErrNotStarted
	}
	if !s.history.Forward() {
		return false, nil
	}
	return true, s.takeErr()
}
