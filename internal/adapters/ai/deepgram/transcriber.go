package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.deepgram.com"

// Transcriber sends media to Deepgram's prerecorded listen endpoint and
// returns the transcript of the first channel.
type Transcriber struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewTranscriber(baseURL, apiKey, model string, rps float64, client *http.Client) *Transcriber {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "nova-2"
	}
	if rps <= 0 {
		rps = 2
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Transcriber{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (t *Transcriber) Transcribe(ctx context.Context, media []byte, contentType string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1/listen?%s", t.baseURL, url.Values{
		"model":        []string{t.model},
		"smart_format": []string{"true"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(media))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+t.apiKey)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription failed with status %d", resp.StatusCode)
	}

	var decoded listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(decoded.Results.Channels) == 0 || len(decoded.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}
	return decoded.Results.Channels[0].Alternatives[0].Transcript, nil
}
