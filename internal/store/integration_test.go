package store_test

import (
	"context"
	"testing"

	"github.com/rodstewart/bidctl/internal/api"
	"github.com/rodstewart/bidctl/internal/search"
	"github.com/rodstewart/bidctl/internal/session"
	"github.com/rodstewart/bidctl/internal/store"
	"github.com/rodstewart/bidctl/internal/testutil"
)

func loggedIn(t *testing.T, server *testutil.Server) *session.Session {
	t.Helper()

	sess, err := session.New(session.NewMemoryStorage(nil))
	if err != nil {
		t.Fatalf("session.New() failed: %v", err)
	}
	err = sess.Login(session.LoginPayload{
		AccessToken: server.TokenFor(testutil.Username),
		UserID:      "1",
		Username:    testutil.Username,
		Email:       testutil.Email,
	})
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	return sess
}

func TestIntegration_SearchAndFavorites(t *testing.T) {
	server := testutil.NewServer(t, testutil.SampleTenders(45)...)
	sess := loggedIn(t, server)
	client := api.NewClient(server.URL, sess, api.WithAuthFailureHook(func() { _ = sess.Logout() }))

	tenders := store.NewTenderStore(client, sess)
	history := store.NewHistory("?numOfRows=20&pbctBegnDtm=2025-01-01")
	sync := store.NewSynchronizer(tenders, history)
	ctx := context.Background()

	if err := sync.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer sync.Stop()

	state := tenders.Snapshot()
	if state.TotalCount != 45 || state.PageSize != 20 || state.TotalPages() != 3 {
		t.Fatalf("unexpected first page: total %d size %d pages %d", state.TotalCount, state.PageSize, state.TotalPages())
	}

	if err := sync.ChangePage(3); err != nil {
		t.Fatalf("ChangePage() failed: %v", err)
	}
	if got := len(tenders.Snapshot().Tenders); got != 5 {
		t.Errorf("expected 5 tenders on the last page, got %d", got)
	}

	if err := sync.Submit(search.Criteria{Name: "Tender 4"}); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	state = tenders.Snapshot()
	// "Tender 4" and "Tender 40".."Tender 45"
	if state.TotalCount != 7 || state.CurrentPage != 1 {
		t.Errorf("expected 7 matches on page 1, got %d on page %d", state.TotalCount, state.CurrentPage)
	}
	if server.Requests("GET /api/tenders/search") != 3 {
		t.Errorf("expected 3 search requests, got %d", server.Requests("GET /api/tenders/search"))
	}

	if _, err := tenders.ToggleFavorite(ctx, "T-4", false); err != nil {
		t.Fatalf("ToggleFavorite() failed: %v", err)
	}
	if err := tenders.FetchFavoriteIDs(ctx); err != nil {
		t.Fatalf("FetchFavoriteIDs() failed: %v", err)
	}
	if ids := tenders.Snapshot().FavoriteIDs; len(ids) != 1 || ids[0] != "T-4" {
		t.Errorf("expected favorites [T-4], got %v", ids)
	}
}

func TestIntegration_ExpiredTokenLogsOut(t *testing.T) {
	server := testutil.NewServer(t, testutil.SampleTenders(3)...)

	sess, _ := session.New(session.NewMemoryStorage(nil))
	_ = sess.Login(session.LoginPayload{AccessToken: "expired", UserID: "1", Username: "kim"})
	client := api.NewClient(server.URL, sess, api.WithAuthFailureHook(func() { _ = sess.Logout() }))

	bids := store.NewMyBidsStore(client, sess)
	if _, err := bids.FetchMyBids(context.Background()); api.StatusCode(err) != 401 {
		t.Fatalf("expected 401, got %v", err)
	}
	if sess.IsLoggedIn() {
		t.Error("expected session cleared after 401")
	}

	if _, err := bids.FetchMyBids(context.Background()); err != api.ErrNoSession {
		t.Errorf("expected ErrNoSession after logout, got %v", err)
	}
	if server.Requests("GET /api/mypage/bids") != 1 {
		t.Errorf("expected one request, got %d", server.Requests("GET /api/mypage/bids"))
	}
}
