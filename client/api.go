package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tindev/tindev-app/internal/entity"
	"github.com/tindev/tindev-app/pkg/http_util"
)

// API is the REST fetch collaborator: candidate loads and swipe
// recording over plain HTTP against the tindev server.
type API struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (a *API) SignIn(ctx context.Context, email, username, password string) (entity.SignInResponse, error) {
	body, err := json.Marshal(entity.SignInRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		return entity.SignInResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/v1/auth/sign-in", bytes.NewBuffer(body))
	if err != nil {
		return entity.SignInResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return entity.SignInResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.SignInResponse{}, fmt.Errorf("sign-in failed with status %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.SignInResponse{}, err
	}

	response, err := http_util.DecodeBody(bodyBytes, http_util.HTTPResponse[entity.SignInResponse]{})
	if err != nil {
		return entity.SignInResponse{}, err
	}

	return response.Data, nil
}

// Candidates fetches the ordered feed for the current session.
func (a *API) Candidates(ctx context.Context) ([]entity.Candidate, error) {
	if a.Token == "" {
		return nil, ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/v1/devs", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("candidates request failed with status %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	response, err := http_util.DecodeBody(bodyBytes, http_util.HTTPResponse[entity.CandidatesResponse]{})
	if err != nil {
		return nil, err
	}

	return response.Data.Candidates, nil
}

// RecordAction posts one like/dislike on targetID.
func (a *API) RecordAction(ctx context.Context, targetID uint, action entity.Action) error {
	if a.Token == "" {
		return ErrNoSession
	}

	verb := "likes"
	if action == entity.ActionDislike {
		verb = "dislikes"
	}

	url := fmt.Sprintf("%s/v1/devs/%d/%s", a.BaseURL, targetID, verb)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrTargetNotFound
	default:
		return fmt.Errorf("action request failed with status %d", resp.StatusCode)
	}
}
