package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/starman154/syllabus-scanner-server/internal/extract"
	"github.com/starman154/syllabus-scanner-server/internal/parser"
	"github.com/starman154/syllabus-scanner-server/internal/store"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.Open(context.Background(), store.Config{
		SQLitePath: filepath.Join(t.TempDir(), "processor-test.db"),
	}, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	claude := extract.NewClaudeClient("unused", "unused-model")
	return NewProcessor(claude, st, parser.NewRasterizer(150), logger)
}

func TestParserFor_PDFFallbackSetting(t *testing.T) {
	p := newTestProcessor(t)

	for _, enabled := range []bool{true, false} {
		p.PDFFallbackPdftotext = enabled
		prs, err := p.parserFor("syllabus.pdf")
		if err != nil {
			t.Fatalf("parserFor: %v", err)
		}
		pp, ok := prs.(*parser.PDFParser)
		if !ok {
			t.Fatalf("expected *parser.PDFParser, got %T", prs)
		}
		if pp.FallbackPdftotext != enabled {
			t.Errorf("FallbackPdftotext = %v, want %v", pp.FallbackPdftotext, enabled)
		}
	}
}

func TestProcessFile_UnsupportedExtension(t *testing.T) {
	p := newTestProcessor(t)
	if _, err := p.ProcessFile(context.Background(), "archive.zip", []byte("PK")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestProcessFile_EmptyTextDocument(t *testing.T) {
	p := newTestProcessor(t)
	_, err := p.ProcessFile(context.Background(), "empty.txt", []byte("   \n  "))
	if !errors.Is(err, parser.ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
	// The message tells the user what to do, not just what broke.
	if err != nil && len(err.Error()) < len(parser.ErrNoText.Error())+10 {
		t.Errorf("expected actionable message, got %q", err.Error())
	}
}

func TestProcessPath_MissingFile(t *testing.T) {
	p := newTestProcessor(t)
	if _, err := p.ProcessPath(context.Background(), "gone.pdf", "/nonexistent/gone.pdf"); err == nil {
		t.Fatal("expected error for missing spooled file")
	}
}
