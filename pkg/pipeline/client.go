// Package pipeline is the HTTP client for the managed transcoding service.
// The service assigns its own identifiers (upload id, asset id, playback id)
// and reports lifecycle changes through the signed webhook; this client
// covers the pull side: opening upload sessions and re-fetching upload,
// asset and track state on demand.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Upload struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AssetID string `json:"asset_id"`
	Status  string `json:"status"`
}

type Track struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

type Asset struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Duration    float64      `json:"duration"`
	PlaybackIDs []PlaybackID `json:"playback_ids"`
	Tracks      []Track      `json:"tracks"`
}

// AudioTrack returns the first audio track, if any.
func (a *Asset) AudioTrack() *Track {
	for i := range a.Tracks {
		if a.Tracks[i].Type == "audio" {
			return &a.Tracks[i]
		}
	}
	return nil
}

type Client interface {
	CreateUpload(ctx context.Context, passthrough string) (*Upload, error)
	GetUpload(ctx context.Context, uploadID string) (*Upload, error)
	GetAsset(ctx context.Context, assetID string) (*Asset, error)
}

type client struct {
	baseURL     string
	tokenID     string
	tokenSecret string
	httpClient  *http.Client
}

func NewClient(baseURL, tokenID, tokenSecret string) Client {
	return &client{
		baseURL:     baseURL,
		tokenID:     tokenID,
		tokenSecret: tokenSecret,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadRequest struct {
	CorsOrigin       string           `json:"cors_origin"`
	NewAssetSettings newAssetSettings `json:"new_asset_settings"`
}

type newAssetSettings struct {
	Passthrough    string         `json:"passthrough"`
	PlaybackPolicy []string       `json:"playback_policy"`
	Input          []assetInput   `json:"input"`
}

type assetInput struct {
	GeneratedSubtitles []generatedSubtitle `json:"generated_subtitles"`
}

type generatedSubtitle struct {
	LanguageCode string `json:"language_code"`
	Name         string `json:"name"`
}

func (c *client) CreateUpload(ctx context.Context, passthrough string) (*Upload, error) {
	body := uploadRequest{
		CorsOrigin: "*",
		NewAssetSettings: newAssetSettings{
			Passthrough:    passthrough,
			PlaybackPolicy: []string{"public"},
			Input: []assetInput{
				{GeneratedSubtitles: []generatedSubtitle{{LanguageCode: "en", Name: "English"}}},
			},
		},
	}

	var upload Upload
	if err := c.do(ctx, http.MethodPost, "/video/v1/uploads", body, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

func (c *client) GetUpload(ctx context.Context, uploadID string) (*Upload, error) {
	var upload Upload
	if err := c.do(ctx, http.MethodGet, "/video/v1/uploads/"+uploadID, nil, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

func (c *client) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	var asset Asset
	if err := c.do(ctx, http.MethodGet, "/video/v1/assets/"+assetID, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// envelope wraps every pipeline API response body.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.tokenID, c.tokenSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pipeline request %s %s failed with status %d", method, path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}
	return json.Unmarshal(env.Data, out)
}
