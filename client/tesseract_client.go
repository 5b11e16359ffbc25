package client

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
)

// DefaultOCRLanguage is the Tesseract traineddata used for settlement statements.
const DefaultOCRLanguage = "nor"

type TesseractClient struct {
	dataPath string
	language string
	log      zerolog.Logger
}

func NewTesseractClient(dataPath, language string, log zerolog.Logger) *TesseractClient {
	if language == "" {
		language = DefaultOCRLanguage
	}
	return &TesseractClient{
		dataPath: dataPath,
		language: language,
		log:      log.With().Str("component", "tesseract").Logger(),
	}
}

// ExtractTextFromImage runs OCR on a rendered page and returns the text and
// the mean word confidence (0-100).
func (tc *TesseractClient) ExtractTextFromImage(img image.Image) (string, float64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	return tc.ExtractTextFromBytes(buf.Bytes())
}

// ExtractTextFromBytes runs OCR on an encoded image.
func (tc *TesseractClient) ExtractTextFromBytes(data []byte) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		if err := client.SetTessdataPrefix(tc.dataPath); err != nil {
			return "", 0, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(tc.language); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		tc.log.Warn().Err(err).Msg("bounding boxes unavailable, confidence unknown")
		return text, 0, nil
	}

	var totalConf float64
	for _, box := range boxes {
		totalConf += box.Confidence
	}
	avgConf := 0.0
	if len(boxes) > 0 {
		avgConf = totalConf / float64(len(boxes))
	}

	return text, avgConf, nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	tc.log.Debug().Msg("tesseract client closed")
}
