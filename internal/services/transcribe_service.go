package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultAssemblyBaseURL = "https://api.assemblyai.com/v2"

// TranscribeService converts recorded audio to text via AssemblyAI. The
// upload/create/poll sequence is synchronous; the caller's context bounds
// the whole exchange.
type TranscribeService struct {
	baseURL      string
	apiKey       string
	language     string
	client       *http.Client
	pollInterval time.Duration
}

// NewTranscribeService constructs a TranscribeService.
func NewTranscribeService(apiKey, language string) *TranscribeService {
	return &TranscribeService{
		baseURL:      defaultAssemblyBaseURL,
		apiKey:       apiKey,
		language:     language,
		client:       &http.Client{Timeout: 30 * time.Second},
		pollInterval: 2 * time.Second,
	}
}

type transcriptRequest struct {
	AudioURL     string `json:"audio_url"`
	LanguageCode string `json:"language_code,omitempty"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Transcribe uploads the audio file, creates a transcript and polls until
// it completes.
func (s *TranscribeService) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audioURL, err := s.upload(ctx, audioPath)
	if err != nil {
		return "", err
	}

	id, err := s.createTranscript(ctx, audioURL)
	if err != nil {
		return "", err
	}

	for {
		transcript, err := s.getTranscript(ctx, id)
		if err != nil {
			return "", err
		}

		switch transcript.Status {
		case "completed":
			return transcript.Text, nil
		case "error":
			return "", fmt.Errorf("transcription failed: %s", transcript.Error)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *TranscribeService) upload(ctx context.Context, audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/upload", file)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", s.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var parsed struct {
		UploadURL string `json:"upload_url"`
	}
	if err := s.do(req, &parsed); err != nil {
		return "", err
	}
	return parsed.UploadURL, nil
}

func (s *TranscribeService) createTranscript(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(transcriptRequest{AudioURL: audioURL, LanguageCode: s.language})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transcript", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var parsed transcriptResponse
	if err := s.do(req, &parsed); err != nil {
		return "", err
	}
	return parsed.ID, nil
}

func (s *TranscribeService) getTranscript(ctx context.Context, id string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/transcript/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", s.apiKey)

	var parsed transcriptResponse
	if err := s.do(req, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (s *TranscribeService) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("assemblyai returned status %d: %s", resp.StatusCode, detail)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
