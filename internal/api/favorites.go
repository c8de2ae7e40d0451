package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rodstewart/bidctl/internal/models"
)

// ListFavorites retrieves the full tender objects the user has favorited
func (c *Client) ListFavorites(ctx context.Context) ([]models.Tender, error) {
	var tenders []models.Tender
	if err := c.doRequest(ctx, http.MethodGet, "/api/favorites", authenticated, nil, &tenders); err != nil {
		return nil, err
	}
	return tenders, nil
}

// CheckFavorite reports whether a single tender is favorited
func (c *Client) CheckFavorite(ctx context.Context, cltrMnmtNo string) (bool, error) {
	var status models.FavoriteStatus
	if err := c.doRequest(ctx, http.MethodGet, "/api/favorites/check/"+url.PathEscape(cltrMnmtNo), authenticated, nil, &status); err != nil {
		return false, err
	}
	return status.IsFavorite, nil
}

// AddFavorite favorites a tender and returns the server's resulting flag
func (c *Client) AddFavorite(ctx context.Context, cltrMnmtNo string) (bool, error) {
	var status models.FavoriteStatus
	if err := c.doRequest(ctx, http.MethodPost, "/api/favorites/"+url.PathEscape(cltrMnmtNo), authenticated, nil, &status); err != nil {
		return false, err
	}
	return status.IsFavorite, nil
}

// RemoveFavorite un-favorites a tender and returns the server's resulting flag
func (c *Client) RemoveFavorite(ctx context.Context, cltrMnmtNo string) (bool, error) {
	var status models.FavoriteStatus
	if err := c.doRequest(ctx, http.MethodDelete, "/api/favorites/"+url.PathEscape(cltrMnmtNo), authenticated, nil, &status); err != nil {
		return false, err
	}
	return status.IsFavorite, nil
}
