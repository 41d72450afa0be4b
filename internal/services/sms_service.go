package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// SparrowClient sends SMS through the Sparrow gateway.
type SparrowClient struct {
	apiURL string
	token  string
	sender string
	client *http.Client
	log    zerolog.Logger
}

// NewSparrowClient constructs a SparrowClient.
func NewSparrowClient(apiURL, token, sender string, log zerolog.Logger) *SparrowClient {
	return &SparrowClient{
		apiURL: apiURL,
		token:  token,
		sender: sender,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

type sparrowMessage struct {
	Token string `json:"token"`
	From  string `json:"from"`
	To    string `json:"to"`
	Text  string `json:"text"`
}

// SendOtp delivers a verification code to the phone number.
func (s *SparrowClient) SendOtp(ctx context.Context, phone, code string) error {
	if s.token == "" {
		s.log.Debug().Msg("sparrow token not configured, skipping sms")
		return nil
	}

	msg := sparrowMessage{
		Token: s.token,
		From:  s.sender,
		To:    phone,
		Text:  fmt.Sprintf("Here is your otp: %s", code),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sparrow returned status %d: %s", resp.StatusCode, detail)
	}

	return nil
}
