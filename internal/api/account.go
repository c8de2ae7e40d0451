package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rodstewart/bidctl/internal/models"
)

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/login", anonymous, creds, &resp); err != nil {
		if code := StatusCode(err); code == http.StatusUnauthorized || code == http.StatusForbidden {
			return nil, fmt.Errorf("login failed: check your username and password")
		}
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.SignupResponse, error) {
	var resp models.SignupResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/signup", anonymous, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile changes profile fields of the logged-in user
func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.doRequest(ctx, http.MethodPut, "/api/mypage/profile", authenticated, update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangePassword changes the logged-in user's password
func (c *Client) ChangePassword(ctx context.Context, change models.PasswordChange) error {
	return c.doRequest(ctx, http.MethodPut, "/api/mypage/password", authenticated, change, nil)
}

// ListMyBids retrieves the logged-in user's bid history
func (c *Client) ListMyBids(ctx context.Context) ([]models.Bid, error) {
	var bids []models.Bid
	if err := c.doRequest(ctx, http.MethodGet, "/api/mypage/bids", authenticated, nil, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

// PlaceBid submits a bid on a tender
func (c *Client) PlaceBid(ctx context.Context, bid models.BidRequest) (*models.BidResult, error) {
	var result models.BidResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/bids", authenticated, bid, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
