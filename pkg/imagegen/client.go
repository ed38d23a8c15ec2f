// Package imagegen calls the image-generation-from-prompt service used by
// the thumbnail workflow. Input is a prompt, output is a temporary URL of
// the generated image.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type client struct {
	baseURL    string
	apiKey     string
	model      string
	size       string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model, size string) Client {
	return &client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		size:       size,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Model  string `json:"model"`
	Size   string `json:"size"`
}

type generateResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	raw, err := json.Marshal(generateRequest{Prompt: prompt, N: 1, Model: c.model, Size: c.size})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/generations", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image generation failed with status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", errors.New("image generation returned no image URL")
	}
	return out.Data[0].URL, nil
}
