// Package verify recomputes document hashes so a third party holding an
// audit record can check a PDF without trusting anything else.
package verify

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JJ950407/lia-pagare/internal/audit"
)

type Handler struct {
	// roots are the canonicalized document trees the handler may read.
	// Anything outside them is refused, so the endpoint cannot be used to
	// probe or digest arbitrary host files.
	roots []string
}

func NewHandler(roots ...string) *Handler {
	h := &Handler{}

	for _, r := range roots {
		if r == "" {
			continue
		}

		if abs, err := filepath.Abs(r); err == nil {
			h.roots = append(h.roots, abs)
		}
	}

	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.verify)
}

// resolve canonicalizes a requested path and checks it against the
// configured roots. With no roots configured every request is refused.
func (h *Handler) resolve(path string) (string, bool) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", false
	}

	for _, root := range h.roots {
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return abs, true
		}
	}

	return "", false
}

type verifyRequest struct {
	Path string `json:"path"`
	// ExpectedHash is optional; when present the response says whether the
	// file matches it.
	ExpectedHash string `json:"expected_hash,omitempty"`
}

type verifyResponse struct {
	Path      string `json:"path"`
	Hash      string `json:"hash_sha256"`
	Short     string `json:"hash_corto"`
	Algorithm string `json:"algoritmo"`
	Matches   *bool  `json:"matches,omitempty"`
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	path, ok := h.resolve(req.Path)
	if !ok {
		http.Error(w, "path outside document root", http.StatusForbidden)
		return
	}

	hash, err := audit.HashFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	resp := verifyResponse{
		Path:      path,
		Hash:      hash,
		Short:     audit.ShortHash(hash),
		Algorithm: "SHA-256",
	}

	if req.ExpectedHash != "" {
		matches := strings.EqualFold(req.ExpectedHash, hash)
		resp.Matches = &matches
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
