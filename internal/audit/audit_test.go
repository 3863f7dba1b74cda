package audit_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JJ950407/lia-pagare/internal/audit"
)

func TestSHA256Hex(t *testing.T) {
	// Known vector for the empty input.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		audit.SHA256Hex(nil))
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	got, err := audit.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, audit.SHA256Hex([]byte("content")), got)

	_, err = audit.HashFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0123456789", audit.ShortHash("0123456789abcdef"))
	assert.Equal(t, "abc", audit.ShortHash("abc"))
}

func TestWriter_WriteNote(t *testing.T) {
	dir := t.TempDir()
	w := audit.NewWriter(dir)

	path, err := w.WriteNote(audit.NoteRecord{
		BatchID: "LIA-JOSE-2024-03-04-1700000000000",
		DocID:   "LIA-JOSE-2024-03-04-1700000000000-P01",
		Folio:   "01",
		Debtor:  "JOSE PEREZ",
		Amount:  "$13,000.00",
		PreHash: "aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899",
	})
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "audit_LIA-JOSE-2024-03-04-1700000000000-P01_")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec audit.NoteRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "PAGARE", rec.Type)
	assert.Equal(t, "aabbccddee", rec.ShortHash)
	assert.NotEmpty(t, rec.CreatedAt)

	// No temp residue once the record is published.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
