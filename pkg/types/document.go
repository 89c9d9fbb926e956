// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Language codes recognized by the prompt builders.
const (
	LanguageEnglish = "en"
	LanguageArabic  = "ar"
)

// Document is an uploaded source document and the identifiers the query
// service uses to reach it.
type Document struct {
	// ID identifies the document within the workspace.
	ID string `json:"id" yaml:"id"`

	// Filename is the base name of the uploaded file.
	Filename string `json:"filename" yaml:"filename"`

	// SourcePath is where the file was read from.
	SourcePath string `json:"source_path,omitempty" yaml:"source_path,omitempty"`

	// Title is the first heading of the document, or the filename without extension.
	Title string `json:"title" yaml:"title"`

	// Language is the detected language code ("en" or "ar").
	Language string `json:"language" yaml:"language"`

	// FileID is the identifier of the file in the query service.
	FileID string `json:"file_id" yaml:"file_id"`

	// StoreID is the query service store that indexes the file.
	StoreID string `json:"store_id" yaml:"store_id"`

	// Text is the converted plain text, used for ratio checks during validation.
	Text string `json:"-" yaml:"-"`

	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`
}
