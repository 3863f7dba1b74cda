// Package audit computes the pre/post content hashes of generated
// documents and persists tamper-evident audit records, one file per
// document.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ShortHashLen is the number of hex characters of the pre-stamp hash
// embedded in a note's verification code.
const ShortHashLen = 10

// SHA256Hex hashes a byte slice to lowercase hex.
func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)

	return hex.EncodeToString(sum[:])
}

// HashFile hashes the current content of a file on disk.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return SHA256Hex(data), nil
}

// ShortHash returns the verification-code fragment of a full hash.
func ShortHash(full string) string {
	if len(full) < ShortHashLen {
		return full
	}

	return full[:ShortHashLen]
}

// NoteRecord is the audit trail of a single promissory note. Field names
// follow the verification documents handed to third parties.
type NoteRecord struct {
	Type      string `json:"tipo"`
	BatchID   string `json:"base_doc_id"`
	DocID     string `json:"doc_id"`
	Slug      string `json:"cliente_slug"`
	SaleID    string `json:"venta_id"`
	Folio     string `json:"folio"`
	Debtor    string `json:"deudor"`
	Amount    string `json:"monto"`
	DueISO    string `json:"vence_iso"`
	DueDMY    string `json:"vence_dmy"`
	PreHash   string `json:"hash_sha256_pre_qr"`
	ShortHash string `json:"hash_corto_pre_qr"`
	PostHash  string `json:"hash_sha256_post_qr"`
	PDFPath   string `json:"pdf_path"`
	CreatedAt string `json:"created_at"`
}

// Writer persists audit records into a directory, creating it on demand.
type Writer struct {
	dir string
	now func() time.Time
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// WriteNote persists the record under a name derived from the document id
// and creation timestamp, so concurrent runs never collide.
func (w *Writer) WriteNote(rec NoteRecord) (string, error) {
	createdAt := w.now().UTC().Format(time.RFC3339)

	rec.Type = "PAGARE"
	rec.ShortHash = ShortHash(rec.PreHash)
	rec.CreatedAt = createdAt

	name := fmt.Sprintf("audit_%s_%s.json", rec.DocID, sanitizeTimestamp(createdAt))
	path := filepath.Join(w.dir, name)

	if err := WriteJSON(path, rec); err != nil {
		return "", err
	}

	return path, nil
}

// WriteJSON serializes v and writes it through a temp-file-then-rename
// sequence, so a crash never leaves a partial file under the final name.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating audit directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding audit record: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing audit record: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)

		return fmt.Errorf("publishing audit record: %w", err)
	}

	return nil
}

func sanitizeTimestamp(ts string) string {
	ts = strings.ReplaceAll(ts, ":", "-")

	return strings.ReplaceAll(ts, ".", "-")
}
