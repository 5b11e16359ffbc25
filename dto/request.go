package dto

import (
	"mime/multipart"
	"path/filepath"
	"strings"
)

// ExtractTextRequest carries already extracted document text.
type ExtractTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// Validate performs basic validation on the request
func (r *ExtractTextRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

// SettlementUploadRequest is a single uploaded settlement document.
type SettlementUploadRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

// Validate checks the file type and size limit.
func (r *SettlementUploadRequest) Validate(maxSize int64) error {
	if r.File == nil {
		return ErrUnsupportedFile
	}
	if !IsSupportedFile(r.File.Filename) {
		return ErrUnsupportedFile
	}
	if maxSize > 0 && r.File.Size > maxSize {
		return ErrFileTooLarge
	}
	return nil
}

// IsSupportedFile reports whether the filename has a PDF or plain text extension.
func IsSupportedFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".txt":
		return true
	}
	return false
}

// MasterListRequest replaces or extends the master list.
type MasterListRequest struct {
	Organizations []string `json:"organizations"`
}

// Validate rejects blank names.
func (r *MasterListRequest) Validate() error {
	for _, name := range r.Organizations {
		if strings.TrimSpace(name) == "" {
			return ErrEmptyName
		}
	}
	return nil
}
