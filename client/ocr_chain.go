package client

import (
	"errors"
	"image"
	"strings"

	"github.com/rs/zerolog"
)

// OCREngine recognizes the text on one page image.
type OCREngine interface {
	ExtractTextFromImage(img image.Image) (string, float64, error)
}

// OCRChain tries each engine in order and returns the first non-empty result.
type OCRChain []OCREngine

func (c OCRChain) ExtractTextFromImage(img image.Image) (string, float64, error) {
	var errs []error
	for _, engine := range c {
		text, conf, err := engine.ExtractTextFromImage(img)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, conf, nil
		}
	}
	if len(errs) == 0 {
		return "", 0, ErrNoText
	}
	return "", 0, errors.Join(errs...)
}

// NewOCREngine returns Tesseract, followed by PaddleOCR when paddleURL is set.
func NewOCREngine(tesseract *TesseractClient, paddleURL string, log zerolog.Logger) OCRChain {
	chain := OCRChain{tesseract}
	if paddleURL != "" {
		chain = append(chain, NewPaddleClient(paddleURL, log))
	}
	return chain
}
