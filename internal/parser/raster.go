package parser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// maxVisionPages bounds how many pages of a long PDF are sent to the
// vision model for one document.
const maxVisionPages = 4

// SelectPages returns the 1-indexed page numbers to analyze: every page of
// a short document, otherwise the first two and the last two. Course
// information clusters at the front of a syllabus and final-exam dates at
// the back.
func SelectPages(pageCount int) []int {
	if pageCount <= 0 {
		return nil
	}
	if pageCount <= maxVisionPages {
		pages := make([]int, 0, pageCount)
		for i := 1; i <= pageCount; i++ {
			pages = append(pages, i)
		}
		return pages
	}
	return []int{1, 2, pageCount - 1, pageCount}
}

// Rasterizer renders PDF pages to PNG via pdftoppm (poppler-utils).
type Rasterizer struct {
	DPI int
}

func NewRasterizer(dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = 150
	}
	return &Rasterizer{DPI: dpi}
}

// PageCount returns the number of pages in a PDF file.
func (rz *Rasterizer) PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("pdf page count: %w", err)
	}
	return n, nil
}

// RenderPage rasterizes one page into outDir and returns the PNG bytes.
func (rz *Rasterizer) RenderPage(ctx context.Context, pdfPath string, page int, outDir string) ([]byte, error) {
	prefix := filepath.Join(outDir, fmt.Sprintf("page_%04d", page))
	pageStr := fmt.Sprintf("%d", page)

	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", fmt.Sprintf("%d", rz.DPI),
		"-singlefile",
		pdfPath,
		prefix,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm page %d: %w (output: %s)", page, err, string(output))
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("read rendered page %d: %w", page, err)
	}
	return data, nil
}
