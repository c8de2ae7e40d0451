package store

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/rodstewart/bidctl/internal/api"
	"github.com/rodstewart/bidctl/internal/logging"
	"github.com/rodstewart/bidctl/internal/models"
	"github.com/rodstewart/bidctl/internal/search"
)

// TenderState is a point-in-time copy of the tender store
type TenderState struct {
	Tenders     []models.Tender
	TotalCount  int
	CurrentPage int
	PageSize    int
	Criteria    search.Criteria
	Status      Status
	Error       string

	FavoriteIDs    []string
	FavoriteStatus Status
	FavoriteError  string
}

// TotalPages returns the page count for the current result
func (s TenderState) TotalPages() int {
	return search.TotalPages(s.TotalCount, s.PageSize)
}

// IsFavorite reports whether id is in the favorite set
func (s TenderState) IsFavorite(id string) bool {
	i := sort.SearchStrings(s.FavoriteIDs, id)
	return i < len(s.FavoriteIDs) && s.FavoriteIDs[i] == id
}

// favoriteSet only changes through confirmed server answers
type favoriteSet map[string]struct{}

func (f favoriteSet) apply(id string, favorite bool) {
	if favorite {
		f[id] = struct{}{}
	} else {
		delete(f, id)
	}
}

func (f favoriteSet) sorted() []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TenderStore owns the displayed page of tenders, pagination metadata,
// the committed search criteria and the favorite-id set.
type TenderStore struct {
	mu    sync.Mutex
	api   TenderAPI
	creds Credentials

	tenders     []models.Tender
	totalCount  int
	currentPage int
	pageSize    int
	criteria    search.Criteria
	status      Status
	err         string

	favorites      favoriteSet
	favoriteStatus Status
	favoriteErr    string

	listSeq     uint64
	favoriteSeq uint64
}

// NewTenderStore creates an idle tender store
func NewTenderStore(client TenderAPI, creds Credentials) *TenderStore {
	return &TenderStore{
		api:            client,
		creds:          creds,
		currentPage:    search.DefaultPage,
		pageSize:       search.DefaultPageSize,
		criteria:       search.Criteria{}.Normalize(),
		status:         StatusIdle,
		favorites:      favoriteSet{},
		favoriteStatus: StatusIdle,
	}
}

// Snapshot returns a copy of the current state
func (s *TenderStore) Snapshot() TenderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return TenderState{
		Tenders:        append([]models.Tender(nil), s.tenders...),
		TotalCount:     s.totalCount,
		CurrentPage:    s.currentPage,
		PageSize:       s.pageSize,
		Criteria:       s.criteria,
		Status:         s.status,
		Error:          s.err,
		FavoriteIDs:    s.favorites.sorted(),
		FavoriteStatus: s.favoriteStatus,
		FavoriteError:  s.favoriteErr,
	}
}

// commitCriteria records the criteria of a navigation. Only the
// Synchronizer calls it.
func (s *TenderStore) commitCriteria(c search.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c = c.Normalize()
	if c.Page != s.currentPage || c.PageSize != s.pageSize {
		logging.Log.Debug("commit pagination",
			zap.Int("page", c.Page), zap.Int("page_size", c.PageSize))
		s.currentPage = c.Page
		s.pageSize = c.PageSize
	}
	s.criteria = c
}

func (s *TenderStore) beginList() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listSeq++
	s.status = StatusLoading
	s.err = ""
	return s.listSeq
}

// finishList applies a list response if seq is still the latest list
// request. adoptSize selects whether numOfRows from the response is used;
// sizes outside search.ValidPageSizes are ignored in favor of fixedSize.
func (s *TenderStore) finishList(seq uint64, page *models.TenderPage, err error, requestedPage, fixedSize int, adoptSize bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.listSeq {
		logging.Log.Debug("discarding stale tender list response", zap.Uint64("seq", seq))
		return ErrSuperseded
	}

	if err != nil {
		s.tenders = nil
		s.status = StatusFailed
		s.err = err.Error()
		logging.Log.Debug("tender list failed", zap.Error(err))
		return err
	}

	s.tenders = page.Rows()
	s.totalCount = max(0, page.TotalCount)
	s.pageSize = fixedSize
	if adoptSize && search.IsValidPageSize(page.NumOfRows) {
		s.pageSize = page.NumOfRows
	} else if adoptSize && page.NumOfRows > 0 {
		logging.Log.Debug("ignoring unsupported page size from server",
			zap.Int("num_of_rows", page.NumOfRows), zap.Int("requested", fixedSize))
	}
	current := page.PageNo
	if current == 0 {
		current = requestedPage
	}
	s.currentPage = search.ClampPage(current, search.TotalPages(s.totalCount, s.pageSize))
	s.status = StatusSucceeded
	logging.Log.Debug("tender list loaded",
		zap.Int("count", len(s.tenders)),
		zap.Int("total", s.totalCount),
		zap.Int("page", s.currentPage),
		zap.Int("page_size", s.pageSize))
	return nil
}

// FetchTenders loads one page of the landing list. The page size stays at
// search.HomePageRows whatever the server reports.
func (s *TenderStore) FetchTenders(ctx context.Context, page, pageSize int) error {
	if page < 1 {
		page = search.DefaultPage
	}
	if pageSize < 1 {
		pageSize = search.HomePageRows
	}

	seq := s.beginList()
	result, err := s.api.ListTenders(ctx, page, pageSize)
	return s.finishList(seq, result, err, page, search.HomePageRows, false)
}

// FetchSearchTenders loads one page of tenders matching c and adopts the
// page size the server reports.
func (s *TenderStore) FetchSearchTenders(ctx context.Context, c search.Criteria) error {
	c = c.Normalize()

	seq := s.beginList()
	result, err := s.api.SearchTenders(ctx, c.WireParams())
	return s.finishList(seq, result, err, c.Page, c.PageSize, true)
}

func (s *TenderStore) beginFavorite(wholesale bool) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.creds == nil || s.creds.Token() == "" {
		return 0, s.failFavoriteLocked(api.ErrNoSession)
	}

	if wholesale {
		s.favoriteSeq++
	}
	s.favoriteStatus = StatusLoading
	s.favoriteErr = ""
	return s.favoriteSeq, nil
}

func (s *TenderStore) failFavorite(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failFavoriteLocked(err)
}

// failFavoriteLocked leaves the favorite set as it was
func (s *TenderStore) failFavoriteLocked(err error) error {
	s.favoriteStatus = StatusFailed
	s.favoriteErr = err.Error()
	logging.Log.Debug("favorite operation failed", zap.Error(err))
	return err
}

// FetchFavoriteIDs replaces the favorite set with the server's. It fails
// without a request when no session token is present.
func (s *TenderStore) FetchFavoriteIDs(ctx context.Context) error {
	seq, err := s.beginFavorite(true)
	if err != nil {
		return err
	}

	tenders, err := s.api.ListFavorites(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.favoriteSeq {
		logging.Log.Debug("discarding stale favorite list response", zap.Uint64("seq", seq))
		return ErrSuperseded
	}
	if err != nil {
		return s.failFavoriteLocked(err)
	}

	s.favorites = favoriteSet{}
	for _, t := range tenders {
		if t.CltrMnmtNo != "" {
			s.favorites[t.CltrMnmtNo] = struct{}{}
		}
	}
	s.favoriteStatus = StatusSucceeded
	logging.Log.Debug("favorite ids loaded", zap.Int("count", len(s.favorites)))
	return nil
}

// ToggleFavorite adds id when it is not a favorite and removes it when it
// is. The flag the server returns decides the set membership.
func (s *TenderStore) ToggleFavorite(ctx context.Context, id string, currentlyFavorite bool) (bool, error) {
	if _, err := s.beginFavorite(false); err != nil {
		return currentlyFavorite, err
	}

	var (
		favorite bool
		err      error
	)
	if currentlyFavorite {
		favorite, err = s.api.RemoveFavorite(ctx, id)
	} else {
		favorite, err = s.api.AddFavorite(ctx, id)
	}
	if err != nil {
		return currentlyFavorite, s.failFavorite(err)
	}

	s.confirmFavorite(id, favorite)
	return favorite, nil
}

// CheckSingleFavoriteStatus asks the server whether id is a favorite and
// folds the answer into the set.
func (s *TenderStore) CheckSingleFavoriteStatus(ctx context.Context, id string) (bool, error) {
	if _, err := s.beginFavorite(false); err != nil {
		return false, err
	}

	favorite, err := s.api.CheckFavorite(ctx, id)
	if err != nil {
		return false, s.failFavorite(err)
	}

	s.confirmFavorite(id, favorite)
	return favorite, nil
}

func (s *TenderStore) confirmFavorite(id string, favorite bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites.apply(id, favorite)
	s.favoriteStatus = StatusSucceeded
	logging.Log.Debug("favorite confirmed", zap.String("id", id), zap.Bool("favorite", favorite))
}

// ClearFavorites empties the favorite set, e.g. after logout
func (s *TenderStore) ClearFavorites() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favoriteSeq++
	s.favorites = favoriteSet{}
	s.favoriteStatus = StatusIdle
	s.favoriteErr = ""
}
