package store

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rodstewart/bidctl/internal/models"
)

type fakeCreds struct {
	token  string
	userID string
}

func (c *fakeCreds) Token() string  { return c.token }
func (c *fakeCreds) UserID() string { return c.userID }

// fakeAPI records calls and answers from canned responses. A non-nil gate
// for a call blocks it until the channel is closed or receives.
type fakeAPI struct {
	mu sync.Mutex

	listPage    *models.TenderPage
	searchPages []*models.TenderPage
	listErr     error
	searchErr   error

	favorites    []models.Tender
	favoritesErr error
	flags        map[string]bool
	favoriteErr  error

	bids    []models.Bid
	bidsErr error

	listCalls     int
	searchParams  []url.Values
	favoriteCalls int
	bidsCalls     int
	mutations     []string

	gates []chan struct{}
}

var errBoom = errors.New("HTTP error! status: 500")

func (f *fakeAPI) popGateLocked() chan struct{} {
	if len(f.gates) == 0 {
		return nil
	}
	gate := f.gates[0]
	f.gates = f.gates[1:]
	return gate
}

func block(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeAPI) ListTenders(ctx context.Context, pageNo, numOfRows int) (*models.TenderPage, error) {
	f.mu.Lock()
	f.listCalls++
	page, err := f.listPage, f.listErr
	f.mu.Unlock()
	return page, err
}

func (f *fakeAPI) SearchTenders(ctx context.Context, params url.Values) (*models.TenderPage, error) {
	f.mu.Lock()
	f.searchParams = append(f.searchParams, params)
	var page *models.TenderPage
	if len(f.searchPages) > 0 {
		page = f.searchPages[0]
		if len(f.searchPages) > 1 {
			f.searchPages = f.searchPages[1:]
		}
	}
	err := f.searchErr
	gate := f.popGateLocked()
	f.mu.Unlock()

	if waitErr := block(ctx, gate); waitErr != nil {
		return nil, waitErr
	}
	if page == nil && err == nil {
		page = &models.TenderPage{}
	}
	return page, err
}

func (f *fakeAPI) ListFavorites(ctx context.Context) ([]models.Tender, error) {
	f.mu.Lock()
	f.favoriteCalls++
	tenders, err := f.favorites, f.favoritesErr
	gate := f.popGateLocked()
	f.mu.Unlock()

	if waitErr := block(ctx, gate); waitErr != nil {
		return nil, waitErr
	}
	return tenders, err
}

func (f *fakeAPI) flag(op, id string, fallback bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.favoriteCalls++
	f.mutations = append(f.mutations, op+" "+id)
	if f.favoriteErr != nil {
		return false, f.favoriteErr
	}
	if v, ok := f.flags[id]; ok {
		return v, nil
	}
	return fallback, nil
}

func (f *fakeAPI) CheckFavorite(ctx context.Context, id string) (bool, error) {
	return f.flag("check", id, false)
}

func (f *fakeAPI) AddFavorite(ctx context.Context, id string) (bool, error) {
	return f.flag("add", id, true)
}

func (f *fakeAPI) RemoveFavorite(ctx context.Context, id string) (bool, error) {
	return f.flag("remove", id, false)
}

func (f *fakeAPI) ListMyBids(ctx context.Context) ([]models.Bid, error) {
	f.mu.Lock()
	f.bidsCalls++
	bids, err := f.bids, f.bidsErr
	gate := f.popGateLocked()
	f.mu.Unlock()

	if waitErr := block(ctx, gate); waitErr != nil {
		return nil, waitErr
	}
	return bids, err
}

func (f *fakeAPI) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searchParams)
}

func (f *fakeAPI) favoriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.favoriteCalls
}

func (f *fakeAPI) bidsCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bidsCalls
}

// waitFor polls cond until it holds or a second passes
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}

func tenders(ids ...string) []models.Tender {
	out := make([]models.Tender, len(ids))
	for i, id := range ids {
		out[i] = models.Tender{CltrMnmtNo: id, Title: "Tender " + id}
	}
	return out
}
