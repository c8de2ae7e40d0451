// Package testutil provides an in-memory bid server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rodstewart/bidctl/internal/models"
)

// Fixed credentials of the account every Server starts with
const (
	Username = "kim"
	Password = "secret"
	Email    = "kim@example.com"
	UserID   = int64(1)
)

type user struct {
	id       int64
	username string
	password string
	email    string
}

// Server is a fake bid server backed by memory
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	tenders   []models.Tender
	users     map[string]*user
	tokens    map[string]*user
	favorites map[int64]map[string]bool
	bids      []models.Bid
	faqs      []models.FAQ
	nextID    int64
	failures  map[string]int
	requests  map[string]int
}

// NewServer starts a fake bid server seeded with tenders, closed when t ends
func NewServer(t testing.TB, tenders ...models.Tender) *Server {
	t.Helper()

	s := &Server{
		tenders:   tenders,
		users:     map[string]*user{},
		tokens:    map[string]*user{},
		favorites: map[int64]map[string]bool{},
		nextID:    100,
		failures:  map[string]int{},
		requests:  map[string]int{},
	}
	s.users[Username] = &user{id: UserID, username: Username, password: Password, email: Email}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// SampleTenders returns n open tenders with ids T-1..T-n
func SampleTenders(n int) []models.Tender {
	tenders := make([]models.Tender, n)
	for i := range tenders {
		price := int64(1000 * (i + 1))
		tenders[i] = models.Tender{
			TenderID:     int64(i + 1),
			CltrMnmtNo:   fmt.Sprintf("T-%d", i+1),
			Title:        fmt.Sprintf("Tender %d", i+1),
			Organization: "Public Auction",
			MinBidPrice:  &price,
			Status:       models.StatusOpen,
			Active:       true,
		}
	}
	return tenders
}

// TokenFor returns a valid access token for the seeded account
func (s *Server) TokenFor(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return ""
	}
	return s.issueTokenLocked(u)
}

// Fail makes requests whose path starts with prefix answer with status
func (s *Server) Fail(prefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[prefix] = status
}

// Requests returns how many requests reached "METHOD /path"
func (s *Server) Requests(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[key]
}

// SetFavorite marks a tender as a favorite of the seeded account
func (s *Server) SetFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favoritesOfLocked(UserID)[id] = true
}

// Favorites returns the sorted favorite ids of the seeded account
func (s *Server) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, ok := range s.favorites[UserID] {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *Server) issueTokenLocked(u *user) string {
	token := fmt.Sprintf("token-%d", u.id)
	s.tokens[token] = u
	return token
}

func (s *Server) favoritesOfLocked(userID int64) map[string]bool {
	if s.favorites[userID] == nil {
		s.favorites[userID] = map[string]bool{}
	}
	return s.favorites[userID]
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tenders", s.listTenders)
		r.Get("/tenders/search", s.searchTenders)
		r.Get("/tenders/{id}", s.getTender)
		r.Post("/login", s.login)
		r.Post("/signup", s.signup)
		r.Get("/faq", s.listFAQs)

		r.Group(func(r chi.Router) {
			r.Use(s.auth)

			r.Get("/favorites", s.listFavorites)
			r.Get("/favorites/check/{id}", s.checkFavorite)
			r.Post("/favorites/{id}", s.addFavorite)
			r.Delete("/favorites/{id}", s.removeFavorite)

			r.Get("/mypage/bids", s.myBids)
			r.Put("/mypage/profile", s.updateProfile)
			r.Put("/mypage/password", s.changePassword)
			r.Post("/bids", s.placeBid)

			r.Get("/faq/{id}", s.getFAQ)
			r.Post("/faq", s.createFAQ)
			r.Put("/faq/{id}", s.updateFAQ)
			r.Delete("/faq/{id}", s.deleteFAQ)
		})
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		status := 0
		for prefix, code := range s.failures {
			if strings.HasPrefix(r.URL.Path, prefix) {
				status = code
			}
		}
		s.mu.Unlock()

		if status != 0 {
			writeMessage(w, status, fmt.Sprintf("injected failure %d", status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxUser struct{}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		s.mu.Lock()
		u, ok := s.tokens[token]
		s.mu.Unlock()

		if !ok {
			writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func pageParams(r *http.Request) (int, int) {
	pageNo, _ := strconv.Atoi(r.URL.Query().Get("pageNo"))
	numOfRows, _ := strconv.Atoi(r.URL.Query().Get("numOfRows"))
	if pageNo < 1 {
		pageNo = 1
	}
	if numOfRows < 1 {
		numOfRows = 10
	}
	return pageNo, numOfRows
}

func paginate(all []models.Tender, pageNo, numOfRows int) []models.Tender {
	start := (pageNo - 1) * numOfRows
	if start >= len(all) {
		return []models.Tender{}
	}
	end := min(len(all), start+numOfRows)
	return append([]models.Tender(nil), all[start:end]...)
}

func (s *Server) listTenders(w http.ResponseWriter, r *http.Request) {
	pageNo, numOfRows := pageParams(r)

	s.mu.Lock()
	rows := paginate(s.tenders, pageNo, numOfRows)
	total := len(s.tenders)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.TenderPage{Tenders: rows, TotalCount: total, PageNo: pageNo, NumOfRows: numOfRows})
}

func (s *Server) searchTenders(w http.ResponseWriter, r *http.Request) {
	pageNo, numOfRows := pageParams(r)
	query := r.URL.Query()
	name := query.Get("cltrNm")
	status, _ := strconv.Atoi(query.Get("currentStatus"))

	for _, key := range []string{"pbctBegnDtm", "pbctClsDtm"} {
		if v := query.Get(key); v != "" {
			if _, err := time.Parse(models.DateTimeLayout, v); err != nil {
				writeMessage(w, http.StatusBadRequest, key+" must be a datetime")
				return
			}
		}
	}

	s.mu.Lock()
	var matched []models.Tender
	for _, t := range s.tenders {
		if name != "" && !strings.Contains(t.Title, name) {
			continue
		}
		if status != 0 && int(t.Status) != status {
			continue
		}
		matched = append(matched, t)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.TenderPage{
		Items:      paginate(matched, pageNo, numOfRows),
		TotalCount: len(matched),
		PageNo:     pageNo,
		NumOfRows:  numOfRows,
	})
}

func (s *Server) findTenderLocked(id string) *models.Tender {
	for i := range s.tenders {
		if s.tenders[i].CltrMnmtNo == id {
			return &s.tenders[i]
		}
	}
	return nil
}

func (s *Server) getTender(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t := s.findTenderLocked(chi.URLParam(r, "id"))
	var out models.Tender
	if t != nil {
		out = *t
	}
	s.mu.Unlock()

	if t == nil {
		writeMessage(w, http.StatusNotFound, "tender not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[req.Username]
	if !ok || u.password != req.Password {
		writeMessage(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: s.issueTokenLocked(u),
		Message:     "login successful",
		Username:    u.username,
		UserID:      u.id,
		Email:       u.email,
	})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[req.Username]; exists {
		writeJSON(w, http.StatusConflict, models.SignupResponse{Message: "username already exists"})
		return
	}
	s.nextID++
	id := s.nextID
	s.users[req.Username] = &user{id: id, username: req.Username, password: req.Password, email: req.Email}
	writeJSON(w, http.StatusCreated, models.SignupResponse{Success: true, Message: "signup successful", UserID: &id, Username: req.Username})
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	s.mu.Lock()
	out := []models.Tender{}
	for _, t := range s.tenders {
		if s.favoritesOfLocked(u.id)[t.CltrMnmtNo] {
			out = append(out, t)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) checkFavorite(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	s.mu.Lock()
	fav := s.favoritesOfLocked(u.id)[chi.URLParam(r, "id")]
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.FavoriteStatus{IsFavorite: fav})
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findTenderLocked(id) == nil {
		writeMessage(w, http.StatusNotFound, "tender not found")
		return
	}
	s.favoritesOfLocked(u.id)[id] = true
	ok := true
	writeJSON(w, http.StatusCreated, models.FavoriteStatus{Success: &ok, IsFavorite: true})
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	s.mu.Lock()
	delete(s.favoritesOfLocked(u.id), chi.URLParam(r, "id"))
	s.mu.Unlock()

	ok := true
	writeJSON(w, http.StatusOK, models.FavoriteStatus{Success: &ok, IsFavorite: false})
}

func (s *Server) myBids(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	s.mu.Lock()
	out := []models.Bid{}
	for _, b := range s.bids {
		if b.UserID == u.id {
			out = append(out, b)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) placeBid(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	var req models.BidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTenderLocked(req.CltrMnmtNo)
	if t == nil {
		writeMessage(w, http.StatusNotFound, "tender not found")
		return
	}
	if !t.Status.Biddable() {
		writeMessage(w, http.StatusBadRequest, "bidding is closed for this tender")
		return
	}
	if t.MinBidPrice != nil && req.BidPrice <= *t.MinBidPrice {
		writeMessage(w, http.StatusBadRequest, "bid price must be higher than the current minimum bid price")
		return
	}

	price := req.BidPrice
	t.MinBidPrice = &price
	s.nextID++
	bid := models.Bid{
		BidID:        s.nextID,
		TenderID:     t.TenderID,
		UserID:       u.id,
		BidPrice:     req.BidPrice,
		BidTime:      models.DateTime{Time: time.Now().Truncate(time.Second)},
		TenderTitle:  t.Title,
		CltrMnmtNo:   t.CltrMnmtNo,
		TenderStatus: t.Status.String(),
	}
	s.bids = append(s.bids, bid)

	writeJSON(w, http.StatusCreated, models.BidResult{Bid: withMessage(bid, "bid placed"), NewMinBidPrice: &price})
}

func withMessage(b models.Bid, msg string) models.Bid {
	b.Message = msg
	return b
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	var req models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "email is required")
		return
	}

	s.mu.Lock()
	u.email = req.Email
	profile := models.UserProfile{UserID: u.id, Username: u.username, Email: u.email}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	var req models.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u.password != req.CurrentPassword {
		writeMessage(w, http.StatusBadRequest, "current password does not match")
		return
	}
	u.password = req.NewPassword
	w.WriteHeader(http.StatusNoContent)
}
