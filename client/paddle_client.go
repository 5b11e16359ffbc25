package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var ErrNoText = errors.New("OCR extracted no text")

// PaddleClient sends page images to a PaddleOCR serving endpoint
// (ocr_system hub module).
type PaddleClient struct {
	apiURL string
	http   *http.Client
	log    zerolog.Logger
}

func NewPaddleClient(apiURL string, log zerolog.Logger) *PaddleClient {
	return &PaddleClient{
		apiURL: apiURL,
		http:   &http.Client{Timeout: 60 * time.Second},
		log:    log.With().Str("component", "paddleocr").Logger(),
	}
}

type paddleRequest struct {
	Images []string `json:"images"`
}

type paddleResponse struct {
	Results [][]struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"results"`
}

// ExtractTextFromImage returns the recognized lines joined by newlines and
// the mean line confidence scaled to 0-100.
func (p *PaddleClient) ExtractTextFromImage(img image.Image) (string, float64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	payload, err := json.Marshal(paddleRequest{
		Images: []string{base64.StdEncoding.EncodeToString(buf.Bytes())},
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := p.http.Post(p.apiURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", 0, fmt.Errorf("failed to call PaddleOCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, fmt.Errorf("PaddleOCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result paddleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", 0, fmt.Errorf("failed to decode PaddleOCR response: %w", err)
	}

	var text strings.Builder
	var totalConf float64
	lines := 0
	if len(result.Results) > 0 {
		for _, line := range result.Results[0] {
			text.WriteString(line.Text)
			text.WriteString("\n")
			totalConf += line.Confidence
			lines++
		}
	}
	if lines == 0 || strings.TrimSpace(text.String()) == "" {
		return "", 0, ErrNoText
	}

	p.log.Debug().Int("lines", lines).Msg("PaddleOCR recognized page")
	return text.String(), totalConf / float64(lines) * 100, nil
}
