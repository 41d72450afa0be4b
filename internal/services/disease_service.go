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

// DiseaseService classifies plant images against the served disease model.
// The model returns a probability vector; the class with the highest score
// is looked up in the class-index mapping shipped alongside the model.
type DiseaseService struct {
	modelURL string
	classes  map[string]string
	client   *http.Client
}

// NewDiseaseService loads the class-index mapping and constructs the service.
func NewDiseaseService(modelURL, classIndexPath string) (*DiseaseService, error) {
	raw, err := os.ReadFile(classIndexPath)
	if err != nil {
		return nil, fmt.Errorf("read class indices: %w", err)
	}

	var classes map[string]string
	if err := json.Unmarshal(raw, &classes); err != nil {
		return nil, fmt.Errorf("parse class indices: %w", err)
	}

	return &DiseaseService{
		modelURL: modelURL,
		classes:  classes,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

// Predict sends the image to the inference server and returns the predicted
// class label.
func (s *DiseaseService) Predict(ctx context.Context, imagePath string) (string, error) {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.modelURL, bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("disease model returned status %d: %s", resp.StatusCode, detail)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Predictions) == 0 || len(parsed.Predictions[0]) == 0 {
		return "", fmt.Errorf("disease model returned no predictions")
	}

	return s.classLabel(parsed.Predictions[0])
}

// classLabel maps the highest-scoring index to its class name.
func (s *DiseaseService) classLabel(scores []float64) (string, error) {
	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}

	label, ok := s.classes[fmt.Sprintf("%d", best)]
	if !ok {
		return "", fmt.Errorf("no class label for index %d", best)
	}
	return label, nil
}
