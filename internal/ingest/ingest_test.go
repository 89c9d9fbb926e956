// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// fakeRuntime implements container.Runtime without a container engine.
type fakeRuntime struct {
	hasImage bool
	output   string
	runErr   error
}

func (f *fakeRuntime) Name() string { return "fake" }
func (f *fakeRuntime) Available(context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	if !f.hasImage {
		return errors.New("no such image: " + image)
	}
	return nil
}

func (f *fakeRuntime) Run(_ context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	if f.runErr != nil {
		return f.runErr
	}
	_, _ = io.Copy(io.Discard, stdin)
	_, err := io.WriteString(stdout, f.output)
	return err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestMarkdown(t *testing.T) {
	path := writeFile(t, "policy.md", "# Water Policy 2027\n\nHousehold use is capped.\n")

	doc, err := Ingest(context.Background(), nil, path, types.IngestConfig{StoreID: "store-1"})
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "policy.md", doc.Filename)
	assert.Equal(t, path, doc.SourcePath)
	assert.Equal(t, "Water Policy 2027", doc.Title)
	assert.Equal(t, types.LanguageEnglish, doc.Language)
	assert.Equal(t, "store-1", doc.StoreID)
	assert.Contains(t, doc.Text, "Household use")
	assert.Regexp(t, `^file-[0-9a-f]{16}$`, doc.FileID)
	assert.False(t, doc.UploadedAt.IsZero())
}

func TestIngestFileIDIsStable(t *testing.T) {
	a := writeFile(t, "a.txt", "same content")
	b := writeFile(t, "b.txt", "same content")
	c := writeFile(t, "c.txt", "other content")

	docA, err := Ingest(context.Background(), nil, a, types.IngestConfig{})
	require.NoError(t, err)
	docB, err := Ingest(context.Background(), nil, b, types.IngestConfig{})
	require.NoError(t, err)
	docC, err := Ingest(context.Background(), nil, c, types.IngestConfig{})
	require.NoError(t, err)

	assert.Equal(t, docA.FileID, docB.FileID)
	assert.NotEqual(t, docA.FileID, docC.FileID)
	assert.NotEqual(t, docA.ID, docB.ID)
}

func TestIngestArabic(t *testing.T) {
	path := writeFile(t, "brief.txt", "سياسة المياه الجديدة تحدد الاستهلاك المنزلي")

	doc, err := Ingest(context.Background(), nil, path, types.IngestConfig{})
	require.NoError(t, err)
	assert.Equal(t, types.LanguageArabic, doc.Language)
	assert.Equal(t, "brief", doc.Title)
}

func TestIngestBinaryNeedsConverter(t *testing.T) {
	path := writeFile(t, "report.pdf", "%PDF-1.7")

	_, err := Ingest(context.Background(), nil, path, types.IngestConfig{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	conv, err := NewMarkitdownConverter(context.Background(), &fakeRuntime{hasImage: true, output: "# Annual Report\n\nRevenue grew."})
	require.NoError(t, err)

	doc, err := Ingest(context.Background(), conv, path, types.IngestConfig{})
	require.NoError(t, err)
	assert.Equal(t, "Annual Report", doc.Title)
	assert.Equal(t, "# Annual Report\n\nRevenue grew.", doc.Text)
}

func TestIngestEmpty(t *testing.T) {
	path := writeFile(t, "empty.txt", "  \n\n ")
	_, err := Ingest(context.Background(), nil, path, types.IngestConfig{})
	require.ErrorIs(t, err, ErrEmptyDocument)

	_, err = Ingest(context.Background(), nil, filepath.Join(t.TempDir(), "missing.txt"), types.IngestConfig{})
	require.Error(t, err)
}

func TestMarkitdownConverter(t *testing.T) {
	ctx := context.Background()

	_, err := NewMarkitdownConverter(ctx, &fakeRuntime{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markitdown image not available in fake")

	path := writeFile(t, "deck.pptx", "binary")

	conv, err := NewMarkitdownConverter(ctx, &fakeRuntime{hasImage: true})
	require.NoError(t, err)
	_, err = conv.Convert(ctx, path)
	require.ErrorIs(t, err, ErrEmptyDocument)

	conv, err = NewMarkitdownConverter(ctx, &fakeRuntime{hasImage: true, runErr: errors.New("exit status 2")})
	require.NoError(t, err)
	_, err = conv.Convert(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 2")
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", types.LanguageEnglish},
		{"12345 !!!", types.LanguageEnglish},
		{"The quick brown fox", types.LanguageEnglish},
		{"abcdefghمم", types.LanguageEnglish},
		{"abمم", types.LanguageArabic},
		{"مرحبا بكم", types.LanguageArabic},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.text), tt.text)
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Overview", Title("intro\n## Overview\n# Later", "x.md"))
	assert.Equal(t, "notes", Title("no headings here", "notes.txt"))
	assert.Equal(t, "notes", Title("#\n#   \n", "notes.txt"))
}

func TestIsText(t *testing.T) {
	assert.True(t, IsText("notes.md"))
	assert.True(t, IsText("/tmp/README.MARKDOWN"))
	assert.True(t, IsText("plain.txt"))
	assert.False(t, IsText("policy.pdf"))
	assert.False(t, IsText("noext"))
}
