package deepgram_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipdeck/internal/adapters/ai/deepgram"
)

func TestTranscribe_SendsMediaAndExtractsTranscript(t *testing.T) {
	var gotAuth, gotContentType, gotModel string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/listen" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotModel = r.URL.Query().Get("model")
		gotBody, _ = io.ReadAll(r.Body)

		fmt.Fprint(w, `{"results":{"channels":[{"alternatives":[{"transcript":"today we learn fractions"}]}]}}`)
	}))
	defer server.Close()

	tr := deepgram.NewTranscriber(server.URL, "dg-key", "nova-2", 100, nil)

	transcript, err := tr.Transcribe(context.Background(), []byte("mp4 bytes"), "video/mp4")
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if transcript != "today we learn fractions" {
		t.Errorf("transcript: got %q", transcript)
	}
	if gotAuth != "Token dg-key" {
		t.Errorf("authorization header: got %q", gotAuth)
	}
	if gotContentType != "video/mp4" {
		t.Errorf("content type: got %q", gotContentType)
	}
	if gotModel != "nova-2" {
		t.Errorf("model param: got %q", gotModel)
	}
	if string(gotBody) != "mp4 bytes" {
		t.Errorf("body should be the raw media, got %q", gotBody)
	}
}

func TestTranscribe_NoSpeechYieldsEmptyTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":{"channels":[]}}`)
	}))
	defer server.Close()

	tr := deepgram.NewTranscriber(server.URL, "dg-key", "", 100, nil)

	transcript, err := tr.Transcribe(context.Background(), []byte("silence"), "audio/wav")
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if transcript != "" {
		t.Errorf("silent media should yield an empty transcript, got %q", transcript)
	}
}

func TestTranscribe_SurfacesAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	tr := deepgram.NewTranscriber(server.URL, "wrong", "", 100, nil)

	if _, err := tr.Transcribe(context.Background(), []byte("x"), "video/mp4"); err == nil {
		t.Error("API failure should surface as an error")
	}
}
