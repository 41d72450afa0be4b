package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/example/kethai/internal/uploader"
)

// Transcriber converts a stored audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Classifier predicts the disease class of a stored plant image.
type Classifier interface {
	Predict(ctx context.Context, imagePath string) (string, error)
}

// ChatBot answers free-form farming questions.
type ChatBot interface {
	Ask(ctx context.Context, message string) (string, error)
}

// AIHandler exposes the transcription, disease-detection and chat endpoints.
// Upstream failures propagate unmodified; there are no retries.
type AIHandler struct {
	voices      *uploader.Uploader
	images      *uploader.Uploader
	transcriber Transcriber
	classifier  Classifier
	chat        ChatBot
}

// NewAIHandler constructs AIHandler.
func NewAIHandler(voices, images *uploader.Uploader, transcriber Transcriber, classifier Classifier, chat ChatBot) *AIHandler {
	return &AIHandler{
		voices:      voices,
		images:      images,
		transcriber: transcriber,
		classifier:  classifier,
		chat:        chat,
	}
}

// UploadVoice stores the recording and returns its transcription.
func (h *AIHandler) UploadVoice(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	path, err := h.voices.Save(file)
	if err != nil {
		return err
	}

	text, err := h.transcriber.Transcribe(c.Context(), path)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(fiber.Map{"text": text})
}

// DiseasesDetect stores the plant image and returns the predicted class.
func (h *AIHandler) DiseasesDetect(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	path, err := h.images.Save(file)
	if err != nil {
		return err
	}

	prediction, err := h.classifier.Predict(c.Context(), path)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(fiber.Map{"prediction": prediction})
}

// Chat forwards the message to the chat completion API.
func (h *AIHandler) Chat(c *fiber.Ctx) error {
	message := c.Query("message")
	if message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}

	res, err := h.chat.Ask(c.Context(), message)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(fiber.Map{"res": res})
}
