package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rodstewart/bidctl/internal/models"
)

// ListFAQs retrieves every FAQ post
func (c *Client) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	var faqs []models.FAQ
	if err := c.doRequest(ctx, http.MethodGet, "/api/faq", anonymous, nil, &faqs); err != nil {
		return nil, err
	}
	return faqs, nil
}

// GetFAQ retrieves a single FAQ post
func (c *Client) GetFAQ(ctx context.Context, id int64) (*models.FAQ, error) {
	var faq models.FAQ
	err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/faq/%d", id), authenticated, nil, &faq)
	if StatusCode(err) == http.StatusNotFound {
		return nil, fmt.Errorf("FAQ with ID %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

// CreateFAQ publishes a new FAQ post
func (c *Client) CreateFAQ(ctx context.Context, req models.FAQRequest) (*models.FAQ, error) {
	var faq models.FAQ
	if err := c.doRequest(ctx, http.MethodPost, "/api/faq", authenticated, req, &faq); err != nil {
		return nil, err
	}
	return &faq, nil
}

// UpdateFAQ edits a FAQ post owned by the user
func (c *Client) UpdateFAQ(ctx context.Context, id int64, req models.FAQRequest) (*models.FAQ, error) {
	var faq models.FAQ
	err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/faq/%d", id), authorized, req, &faq)
	switch StatusCode(err) {
	case http.StatusNotFound:
		return nil, fmt.Errorf("FAQ with ID %d not found", id)
	case http.StatusForbidden:
		return nil, fmt.Errorf("only the author can edit FAQ %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

// DeleteFAQ removes a FAQ post owned by the user
func (c *Client) DeleteFAQ(ctx context.Context, id int64) error {
	err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/faq/%d", id), authorized, nil, nil)
	switch StatusCode(err) {
	case http.StatusNotFound:
		return fmt.Errorf("FAQ with ID %d not found", id)
	case http.StatusForbidden:
		return fmt.Errorf("only the author can delete FAQ %d", id)
	}
	return err
}
