package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestTranscribeService_UploadCreatePoll(t *testing.T) {
	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "test-key" {
			t.Errorf("missing api key header")
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/audio/1"})
	})
	mux.HandleFunc("POST /transcript", func(w http.ResponseWriter, r *http.Request) {
		var req transcriptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode transcript request: %v", err)
		}
		if req.AudioURL != "https://cdn.example/audio/1" {
			t.Errorf("unexpected audio url %q", req.AudioURL)
		}
		if req.LanguageCode != "hi" {
			t.Errorf("unexpected language %q", req.LanguageCode)
		}
		_ = json.NewEncoder(w).Encode(transcriptResponse{ID: "tr_1", Status: "queued"})
	})
	mux.HandleFunc("GET /transcript/tr_1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 2 {
			_ = json.NewEncoder(w).Encode(transcriptResponse{ID: "tr_1", Status: "processing"})
			return
		}
		_ = json.NewEncoder(w).Encode(transcriptResponse{ID: "tr_1", Status: "completed", Text: "dhaan ko kheti"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "voice.wav")
	if err := os.WriteFile(audioPath, []byte("riff"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	svc := NewTranscribeService("test-key", "hi")
	svc.baseURL = server.URL
	svc.pollInterval = time.Millisecond

	text, err := svc.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "dhaan ko kheti" {
		t.Fatalf("unexpected transcript %q", text)
	}
	if polls.Load() < 2 {
		t.Fatalf("expected at least two polls, got %d", polls.Load())
	}
}

func TestTranscribeService_ErrorStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/audio/2"})
	})
	mux.HandleFunc("POST /transcript", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(transcriptResponse{ID: "tr_2", Status: "queued"})
	})
	mux.HandleFunc("GET /transcript/tr_2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(transcriptResponse{ID: "tr_2", Status: "error", Error: "unsupported codec"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "voice.wav")
	if err := os.WriteFile(audioPath, []byte("riff"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	svc := NewTranscribeService("test-key", "hi")
	svc.baseURL = server.URL
	svc.pollInterval = time.Millisecond

	if _, err := svc.Transcribe(context.Background(), audioPath); err == nil {
		t.Fatalf("expected transcription error")
	}
}

func TestTranscribeService_MissingFile(t *testing.T) {
	svc := NewTranscribeService("test-key", "hi")
	if _, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "absent.wav")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
