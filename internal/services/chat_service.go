package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const chatSystemPrompt = "You are an expert in agricultural economics with precise knowledge of farming expenses. " +
	"Based on the farm size, location, and type of crops or livestock provided, generate a highly detailed and " +
	"structured breakdown of expected agricultural costs. Your response should be formatted clearly, use specific " +
	"numbers, and include all major expense categories. Adjust the cost estimates based on regional market " +
	"conditions and farming methods and response in nepali"

const defaultChatBaseURL = "https://api.openai.com/v1"

// ChatService asks an OpenAI-compatible chat completion API with a fixed
// agricultural-economics system prompt.
type ChatService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewChatService constructs a ChatService.
func NewChatService(apiKey, model string) *ChatService {
	return &ChatService{
		baseURL: defaultChatBaseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask sends the message and returns the first completion choice.
func (s *ChatService) Ask(ctx context.Context, message string) (string, error) {
	payload := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: message},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, detail)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
