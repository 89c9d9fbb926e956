// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns an uploaded file into a Document: plain text, detected
// language, title and the identifiers the query service needs.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/pdiddy/transform-engine/pkg/types"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyDocument     = errors.New("document has no text")
)

// arabicShare is the fraction of Arabic letters above which a document is
// treated as Arabic.
const arabicShare = 0.3

// Converter extracts text from a binary document such as PDF or DOCX.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// textExtensions are read directly without a conversion backend.
var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// IsText reports whether path is read directly without a converter.
func IsText(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// Ingest reads the file at path and builds its Document. Text files are read
// directly; other formats go through conv, which may be nil when only text
// files are expected.
func Ingest(ctx context.Context, conv Converter, path string, cfg types.IngestConfig) (types.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var text string
	switch {
	case IsText(path):
		text = string(raw)
	case conv != nil:
		text, err = conv.Convert(ctx, path)
		if err != nil {
			return types.Document{}, err
		}
	default:
		return types.Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}

	if strings.TrimSpace(text) == "" {
		return types.Document{}, fmt.Errorf("%w: %s", ErrEmptyDocument, filepath.Base(path))
	}

	filename := filepath.Base(path)
	return types.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		SourcePath: path,
		Title:      Title(text, filename),
		Language:   DetectLanguage(text),
		FileID:     FileID(raw),
		StoreID:    cfg.StoreID,
		Text:       text,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// DetectLanguage returns "ar" when at least 30% of the letters in text are
// Arabic and "en" otherwise.
func DetectLanguage(text string) string {
	var letters, arabic int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Arabic, r) {
			arabic++
		}
	}
	if letters > 0 && float64(arabic)/float64(letters) >= arabicShare {
		return types.LanguageArabic
	}
	return types.LanguageEnglish
}

// Title returns the first Markdown heading of text, or filename without its
// extension when there is none.
func Title(text, filename string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		if heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#")); heading != "" {
			return heading
		}
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// FileID derives a stable identifier from the file content, so re-uploading
// the same bytes yields the same identifier.
func FileID(content []byte) string {
	sum := sha256.Sum256(content)
	return "file-" + hex.EncodeToString(sum[:8])
}
