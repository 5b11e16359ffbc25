package dto

import "errors"

// Custom errors
var (
	ErrUnsupportedFile = errors.New("unsupported file type, expected PDF or TXT")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrEmptyText       = errors.New("text is required")
	ErrUnknownFormat   = errors.New("unknown export format")
	ErrEmptyName       = errors.New("organization name must not be empty")
	ErrUnreadableFile  = errors.New("document could not be read")
	ErrNotFound        = errors.New("organization not on master list")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// TextSource records where the parsed text came from.
type TextSource string

const (
	SourceText TextSource = "text"
	SourcePDF  TextSource = "pdf"
	SourceOCR  TextSource = "ocr"
)

// SettlementResponse is the final response structure
type SettlementResponse struct {
	ID           string           `json:"id"`
	Filename     string           `json:"filename,omitempty"`
	Source       TextSource       `json:"source"`
	Result       ExtractionResult `json:"result"`
	Verification Verification     `json:"verification"`
	MasterList   MasterListView   `json:"master_list"`
	ProcessedAt  string           `json:"processed_at"`
}

// MasterListResponse lists the current master list.
type MasterListResponse struct {
	Organizations []string `json:"organizations"`
	Added         []string `json:"added,omitempty"`
}
