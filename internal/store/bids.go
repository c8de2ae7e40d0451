package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/rodstewart/bidctl/internal/api"
	"github.com/rodstewart/bidctl/internal/logging"
	"github.com/rodstewart/bidctl/internal/models"
)

// MyBidsState is a point-in-time copy of the bids store
type MyBidsState struct {
	Bids   []models.Bid
	Status Status
	Error  string
}

// MyBidsStore holds the logged-in user's bid history
type MyBidsStore struct {
	mu    sync.Mutex
	api   BidsAPI
	creds Credentials

	bids   []models.Bid
	status Status
	err    string
	owner  string
	seq    uint64
}

// NewMyBidsStore creates an idle bids store
func NewMyBidsStore(client BidsAPI, creds Credentials) *MyBidsStore {
	return &MyBidsStore{api: client, creds: creds, status: StatusIdle}
}

func (s *MyBidsStore) userID() string {
	if s.creds == nil {
		return ""
	}
	return s.creds.UserID()
}

// resetLocked drops held bids and invalidates in-flight fetches
func (s *MyBidsStore) resetLocked() {
	s.seq++
	s.bids = nil
	s.status = StatusIdle
	s.err = ""
	s.owner = ""
}

// dropForeignLocked resets when the held bids belong to another user
func (s *MyBidsStore) dropForeignLocked() {
	if s.owner != "" && s.owner != s.userID() {
		logging.Log.Debug("session user changed, resetting bids", zap.String("previous", s.owner))
		s.resetLocked()
	}
}

// Reset restores the store to idle with no bids
func (s *MyBidsStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Snapshot returns a copy of the current state. Bids fetched for a
// different user than the current session's are never returned.
func (s *MyBidsStore) Snapshot() MyBidsState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropForeignLocked()
	return MyBidsState{
		Bids:   append([]models.Bid(nil), s.bids...),
		Status: s.status,
		Error:  s.err,
	}
}

// FetchMyBids loads the user's bid history. It fails without a request
// when no session token is present.
func (s *MyBidsStore) FetchMyBids(ctx context.Context) ([]models.Bid, error) {
	s.mu.Lock()
	s.dropForeignLocked()
	if s.creds == nil || s.creds.Token() == "" {
		s.bids = nil
		s.status = StatusFailed
		s.err = api.ErrNoSession.Error()
		s.mu.Unlock()
		return nil, api.ErrNoSession
	}
	s.seq++
	seq := s.seq
	s.status = StatusLoading
	s.err = ""
	s.owner = s.userID()
	s.mu.Unlock()

	bids, err := s.api.ListMyBids(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		logging.Log.Debug("discarding stale bids response", zap.Uint64("seq", seq))
		return nil, ErrSuperseded
	}
	if err != nil {
		s.bids = nil
		s.status = StatusFailed
		s.err = err.Error()
		return nil, err
	}

	s.bids = bids
	s.status = StatusSucceeded
	logging.Log.Debug("bids loaded", zap.Int("count", len(bids)))
	return append([]models.Bid(nil), bids...), nil
}
