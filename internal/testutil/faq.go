package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rodstewart/bidctl/internal/models"
)

func withUser(ctx context.Context, u *user) context.Context {
	return context.WithValue(ctx, ctxUser{}, u)
}

func userFrom(ctx context.Context) *user {
	u, _ := ctx.Value(ctxUser{}).(*user)
	return u
}

// AddFAQ seeds a FAQ post authored by the seeded account and returns its id
func (s *Server) AddFAQ(title, content string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := models.DateTime{Time: time.Now().Truncate(time.Second)}
	s.faqs = append(s.faqs, models.FAQ{
		ID:             s.nextID,
		Title:          title,
		Content:        content,
		AuthorID:       UserID,
		AuthorUsername: Username,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	return s.nextID
}

func (s *Server) faqIndexLocked(r *http.Request) int {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return -1
	}
	for i := range s.faqs {
		if s.faqs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) listFAQs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.FAQ{}, s.faqs...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getFAQ(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.faqIndexLocked(r)
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "FAQ not found")
		return
	}
	writeJSON(w, http.StatusOK, s.faqs[i])
}

func decodeFAQ(w http.ResponseWriter, r *http.Request) (models.FAQRequest, bool) {
	var req models.FAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Content == "" {
		writeMessage(w, http.StatusBadRequest, "title and content are required")
		return req, false
	}
	return req, true
}

func (s *Server) createFAQ(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	req, ok := decodeFAQ(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	s.nextID++
	now := models.DateTime{Time: time.Now().Truncate(time.Second)}
	faq := models.FAQ{
		ID:             s.nextID,
		Title:          req.Title,
		Content:        req.Content,
		AuthorID:       u.id,
		AuthorUsername: u.username,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.faqs = append(s.faqs, faq)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, faq)
}

func (s *Server) updateFAQ(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	req, ok := decodeFAQ(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.faqIndexLocked(r)
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "FAQ not found")
		return
	}
	if s.faqs[i].AuthorID != u.id {
		writeMessage(w, http.StatusForbidden, "not the author")
		return
	}
	s.faqs[i].Title = req.Title
	s.faqs[i].Content = req.Content
	s.faqs[i].UpdatedAt = models.DateTime{Time: time.Now().Truncate(time.Second)}
	writeJSON(w, http.StatusOK, s.faqs[i])
}

func (s *Server) deleteFAQ(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.faqIndexLocked(r)
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "FAQ not found")
		return
	}
	if s.faqs[i].AuthorID != u.id {
		writeMessage(w, http.StatusForbidden, "not the author")
		return
	}
	s.faqs = append(s.faqs[:i], s.faqs[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}
