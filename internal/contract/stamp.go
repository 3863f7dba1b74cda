package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	qrcode "github.com/skip2/go-qrcode"
)

// stampPageNumbers overlays "Página X de Y" centered near the bottom of
// every page, in place, and returns the page count.
func stampPageNumbers(pdfPath string) (int, error) {
	wm, err := api.TextWatermark(
		"Página %p de %P",
		"fontname:Helvetica, points:10, fillcol:#4D4D4D, pos:bc, off:0 15, rot:0, scale:1 abs",
		true, false, types.POINTS)
	if err != nil {
		return 0, fmt.Errorf("building page-number stamp: %w", err)
	}

	if err := api.AddWatermarksFile(pdfPath, "", nil, wm, nil); err != nil {
		return 0, fmt.Errorf("stamping page numbers: %w", err)
	}

	pages, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}

	return pages, nil
}

// stampQRCode embeds the verification code on the first page, in place.
func stampQRCode(pdfPath, qrText string) error {
	png, err := qrcode.Encode(qrText, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encoding verification code: %w", err)
	}

	qrFile := filepath.Join(filepath.Dir(pdfPath), ".qr_stamp.png")
	if err := os.WriteFile(qrFile, png, 0o644); err != nil {
		return fmt.Errorf("writing code image: %w", err)
	}
	defer os.Remove(qrFile)

	wm, err := api.ImageWatermark(qrFile,
		"pos:tr, off:-20 -20, scale:0.1 abs, rot:0", true, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("building code stamp: %w", err)
	}

	if err := api.AddWatermarksFile(pdfPath, "", []string{"1"}, wm, nil); err != nil {
		return fmt.Errorf("stamping verification code: %w", err)
	}

	return nil
}
