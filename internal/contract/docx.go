package contract

import (
	"fmt"
	"os"
	"path/filepath"

	godocx "github.com/lukasjarosch/go-docx"
)

// DocxRenderer substitutes tokens into the office template. Separated out
// so the two-pass service can be exercised without real DOCX files.
type DocxRenderer interface {
	RenderFile(templatePath string, tokens map[string]string, outPath string) error
}

// TemplateRenderer is the production DocxRenderer backed by go-docx.
type TemplateRenderer struct{}

func (TemplateRenderer) RenderFile(templatePath string, tokens map[string]string, outPath string) error {
	doc, err := godocx.Open(templatePath)
	if err != nil {
		return fmt.Errorf("opening template: %w", err)
	}

	placeholders := make(godocx.PlaceholderMap, len(tokens))
	for k, v := range tokens {
		placeholders[k] = v
	}

	if err := doc.ReplaceAll(placeholders); err != nil {
		return fmt.Errorf("substituting tokens: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := doc.WriteToFile(outPath); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	return nil
}
