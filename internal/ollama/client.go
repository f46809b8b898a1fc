package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"codeberg.org/mutker/agentctl/internal/errors"
	"codeberg.org/mutker/agentctl/internal/logger"
)

type client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient builds a Client for a local Ollama server. No request timeout is
// set: a generation on a slow model can legitimately take minutes, and the
// caller's context governs cancellation.
func NewClient(cfg Config) (Client, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	return &client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	errFactory := errors.New()

	payload, err := json.Marshal(generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", errFactory.Wrap(ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIBase+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", errFactory.Wrap(ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errFactory.Wrap(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errFactory.WithData(ErrBadStatus, map[string]any{
			"status": resp.StatusCode,
			"body":   string(body),
		})
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errFactory.Wrap(ErrDecodeResponse, err)
	}

	return result.Response, nil
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Verify checks that the server answers and warns when the configured model
// has not been pulled yet. A missing model is not an error: the server will
// report it again at generation time.
func (c *client) Verify(ctx context.Context) error {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIBase+"/api/tags", nil)
	if err != nil {
		return errFactory.Wrap(ErrRequestFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errFactory.Wrap(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errFactory.WithData(ErrBadStatus, map[string]any{"status": resp.StatusCode})
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return errFactory.Wrap(ErrDecodeResponse, err)
	}

	available := make([]string, 0, len(tags.Models))
	found := false
	for _, m := range tags.Models {
		available = append(available, m.Name)
		if m.Name == c.cfg.Model {
			found = true
		}
	}

	if !found {
		logger.Warn().
			Str("model", c.cfg.Model).
			Strs("available", available).
			Msgf("Model not found; pull it with: ollama pull %s", c.cfg.Model)
	} else {
		logger.Info().Str("model", c.cfg.Model).Msg("Connected to Ollama, model is available")
	}

	return nil
}

func (c *client) ModelInfo(ctx context.Context) (map[string]any, error) {
	errFactory := errors.New()

	endpoint := c.cfg.APIBase + "/api/show?name=" + url.QueryEscape(c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errFactory.Wrap(ErrRequestFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errFactory.Wrap(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errFactory.WithData(ErrBadStatus, map[string]any{"status": resp.StatusCode})
	}

	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errFactory.Wrap(ErrDecodeResponse, err)
	}

	return info, nil
}
