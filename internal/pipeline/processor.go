package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starman154/syllabus-scanner-server/internal/extract"
	"github.com/starman154/syllabus-scanner-server/internal/parser"
	"github.com/starman154/syllabus-scanner-server/internal/store"
	"github.com/starman154/syllabus-scanner-server/internal/syllabus"
)

// Processor runs one uploaded document through the whole pipeline:
// parse, analyze with the model, merge pages, persist.
type Processor struct {
	claude *extract.ClaudeClient
	store  *store.Store
	raster *parser.Rasterizer
	log    *slog.Logger

	// PDFFallbackPdftotext enables the external pdftotext fallback when
	// the in-process PDF text extraction comes up empty.
	PDFFallbackPdftotext bool

	callTimeout time.Duration
}

func NewProcessor(claude *extract.ClaudeClient, st *store.Store, raster *parser.Rasterizer, log *slog.Logger) *Processor {
	return &Processor{
		claude:               claude,
		store:                st,
		raster:               raster,
		log:                  log,
		PDFFallbackPdftotext: true,
		callTimeout:          CallTimeout,
	}
}

// ProcessFile analyzes one uploaded document and persists the outcome.
// Persistence failure does not fail the document; it is reported through
// the Result counts instead.
func (p *Processor) ProcessFile(ctx context.Context, filename string, data []byte) (*Result, error) {
	log := p.log.With("filename", filename)

	if mediaType, ok := parser.ImageMediaType(filename); ok {
		return p.processImage(ctx, log, data, mediaType)
	}

	prs, err := p.parserFor(filename)
	if err != nil {
		return nil, err
	}
	doc, err := prs.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	if text := doc.Text(); text != "" {
		return p.processText(ctx, log, filename, text)
	}

	// No extractable text. A scanned PDF can still go through the vision
	// path; anything else is a dead end the user has to fix.
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		log.Info("pdf has no text layer, switching to vision")
		return p.processScannedPDF(ctx, log, data)
	}
	return nil, fmt.Errorf("%w: %s contains no readable text, try uploading a PDF or a clearer copy", parser.ErrNoText, filename)
}

// parserFor picks the parser for a filename and applies the processor's
// PDF fallback setting.
func (p *Processor) parserFor(filename string) (parser.Parser, error) {
	prs, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if pp, ok := prs.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = p.PDFFallbackPdftotext
	}
	return prs, nil
}

// ProcessPath is the worker-variant entry point: the upload was spooled to
// disk by the API when the job was enqueued.
func (p *Processor) ProcessPath(ctx context.Context, filename, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spooled upload: %w", err)
	}
	return p.ProcessFile(ctx, filename, data)
}

func (p *Processor) processText(ctx context.Context, log *slog.Logger, filename, text string) (*Result, error) {
	prompt := extract.BuildTextPrompt(filename, text)
	resp, err := callModel(ctx, p.callTimeout, func(ctx context.Context) (string, error) {
		return p.claude.AnalyzeText(ctx, prompt)
	})
	if err != nil {
		return nil, fmt.Errorf("analyze text: %w", err)
	}

	page := syllabus.NormalizePage(1, resp, true)
	if page.ParseFailed {
		log.Warn("model response was not valid json, fell back to free-text extraction")
	}
	sum := syllabus.Merge([]syllabus.PageAnalysis{page})

	result := &Result{Summary: &sum, PagesAnalyzed: 1}
	p.persist(ctx, log, result)
	return result, nil
}

func (p *Processor) processImage(ctx context.Context, log *slog.Logger, image []byte, mediaType string) (*Result, error) {
	resp, err := callModel(ctx, p.callTimeout, func(ctx context.Context) (string, error) {
		return p.claude.AnalyzePage(ctx, extract.VisionPrompt, image, mediaType)
	})
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	page := syllabus.NormalizePage(1, resp, false)
	sum := syllabus.Merge([]syllabus.PageAnalysis{page})

	result := &Result{Summary: &sum, PagesAnalyzed: 1, UsedVision: true}
	p.persist(ctx, log, result)
	return result, nil
}

func (p *Processor) processScannedPDF(ctx context.Context, log *slog.Logger, data []byte) (*Result, error) {
	scratch, err := os.MkdirTemp("", "syllabus-pages-*")
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			log.Warn("scratch cleanup failed", "dir", scratch, "error", rmErr)
		}
	}()

	pdfPath := filepath.Join(scratch, "source.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write scratch pdf: %w", err)
	}

	pageCount, err := p.raster.PageCount(pdfPath)
	if err != nil {
		return nil, err
	}
	pages := parser.SelectPages(pageCount)
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: pdf has no pages", parser.ErrNoText)
	}
	log.Info("vision analysis", "page_count", pageCount, "pages_selected", len(pages))

	// One model call per selected page, in parallel. Any page failure
	// fails the document; silently dropping a page would degrade the
	// merge without the caller ever knowing.
	analyses := make([]syllabus.PageAnalysis, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	for i, pageNum := range pages {
		g.Go(func() error {
			image, err := p.raster.RenderPage(gctx, pdfPath, pageNum, scratch)
			if err != nil {
				return err
			}
			resp, err := callModel(gctx, p.callTimeout, func(ctx context.Context) (string, error) {
				return p.claude.AnalyzePage(ctx, extract.VisionPrompt, image, "image/png")
			})
			if err != nil {
				return fmt.Errorf("analyze page %d: %w", pageNum, err)
			}
			analyses[i] = syllabus.NormalizePage(pageNum, resp, false)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// First-wins merging depends on document order, not completion order.
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].Page < analyses[j].Page })
	sum := syllabus.Merge(analyses)

	result := &Result{Summary: &sum, PagesAnalyzed: len(pages), UsedVision: true}
	p.persist(ctx, log, result)
	return result, nil
}

// persist writes the summary to the store. Failures are logged and
// surfaced through the result, never returned; losing a database write
// must not cost the caller an already-computed summary.
func (p *Processor) persist(ctx context.Context, log *slog.Logger, result *Result) {
	sum := result.Summary
	result.AssignmentsTotal = len(sum.Assignments)

	courseID, err := p.store.SaveCourse(ctx, sum)
	if err != nil {
		log.Error("course save failed", "error", err)
		result.PersistWarning = fmt.Sprintf("course not saved: %s", err)
		return
	}
	result.CourseID = courseID

	ids, err := p.store.SaveAssignments(ctx, courseID, sum.Assignments)
	result.AssignmentsSaved = len(ids)
	if err != nil {
		log.Error("some assignments not saved",
			"course_id", courseID, "saved", len(ids), "total", len(sum.Assignments), "error", err)
		result.PersistWarning = fmt.Sprintf("saved %d of %d assignments", len(ids), len(sum.Assignments))
	}
}
