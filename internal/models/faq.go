package models

// FAQ represents a post on the FAQ board
type FAQ struct {
	ID             int64    `json:"faqId"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	AuthorID       int64    `json:"authorId"`
	AuthorUsername string   `json:"authorUsername"`
	CreatedAt      DateTime `json:"createdAt"`
	UpdatedAt      DateTime `json:"updatedAt"`
}

// FAQRequest represents the body used to create or update a FAQ post
type FAQRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
