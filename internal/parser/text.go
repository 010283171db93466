package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. The whole file becomes one page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sb strings.Builder
	for scanner.Scan() {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := &Document{Title: titleFromFilename(filename)}
	if text := strings.TrimSpace(sb.String()); text != "" {
		doc.Pages = []Page{{Number: 1, Text: text}}
	}
	return doc, nil
}
