// Package office wraps the external office-document converter used to turn
// contract DOCX files into PDFs.
package office

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrUnavailable reports that no converter binary could be found. Callers
// decide whether that is fatal: the draft page-counting pass tolerates it,
// the final pass does not.
var ErrUnavailable = errors.New("office converter unavailable")

// Converter turns a DOCX file into a fixed-layout PDF.
type Converter interface {
	ConvertToPDF(ctx context.Context, docxPath, outDir string) (string, error)
}

// LibreOffice shells out to a headless soffice process.
type LibreOffice struct {
	// Binary overrides the soffice binary; empty means autodetect.
	Binary string
}

var sofficeCandidates = []string{
	"soffice",
	"/usr/bin/soffice",
	"/usr/local/bin/soffice",
	"/Applications/LibreOffice.app/Contents/MacOS/soffice",
}

func (l *LibreOffice) binary() (string, error) {
	if l.Binary != "" {
		if _, err := exec.LookPath(l.Binary); err != nil {
			return "", fmt.Errorf("%w: %s not found", ErrUnavailable, l.Binary)
		}

		return l.Binary, nil
	}

	for _, c := range sofficeCandidates {
		if _, err := exec.LookPath(c); err == nil {
			return c, nil
		}
	}

	return "", ErrUnavailable
}

// ConvertToPDF converts docxPath into outDir and returns the resulting PDF
// path. The call blocks for the duration of the external process.
func (l *LibreOffice) ConvertToPDF(ctx context.Context, docxPath, outDir string) (string, error) {
	bin, err := l.binary()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin,
		"--headless", "--convert-to", "pdf", "--outdir", outDir, docxPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("converting %s: %w: %s", filepath.Base(docxPath), err, strings.TrimSpace(string(out)))
	}

	pdfPath := filepath.Join(outDir,
		strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("converter produced no output for %s", filepath.Base(docxPath))
	}

	return pdfPath, nil
}
