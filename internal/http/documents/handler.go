package documents

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JJ950407/lia-pagare/internal/batch"
	"github.com/JJ950407/lia-pagare/internal/contract"
	"github.com/JJ950407/lia-pagare/internal/schedule"
)

type Handler struct {
	batches   *batch.Service
	contracts *contract.Service
}

func NewHandler(batches *batch.Service, contracts *contract.Service) *Handler {
	return &Handler{batches: batches, contracts: contracts}
}

func (h *Handler) BatchRoutes(r chi.Router) {
	r.Post("/", h.createBatch)
}

func (h *Handler) ContractRoutes(r chi.Router) {
	r.Post("/", h.createContract)
}

type batchResponse struct {
	BatchID  string           `json:"batch_id"`
	SaleID   string           `json:"sale_id"`
	BaseDir  string           `json:"base_dir"`
	LotPDF   string           `json:"lot_pdf"`
	Manifest string           `json:"manifest"`
	Notes    []batch.NoteMeta `json:"notes"`
}

func (h *Handler) createBatch(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := req.toRecord()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.batches.Generate(r.Context(), rec)
	if err != nil {
		var invalid *schedule.InvalidScheduleError
		if errors.As(err, &invalid) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := batchResponse{
		BatchID:  res.BatchID,
		SaleID:   res.SaleID,
		BaseDir:  res.BaseDir,
		LotPDF:   res.LotPath,
		Manifest: res.ManifestPath,
		Notes:    res.Manifest.Notes,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type contractResponse struct {
	PDF   string `json:"pdf"`
	Docx  string `json:"docx"`
	Audit string `json:"audit"`
	Pages int    `json:"pages"`
}

func (h *Handler) createContract(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := req.toRecord()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.contracts.Generate(r.Context(), rec, nil)
	if err != nil {
		var invalid *schedule.InvalidScheduleError
		if errors.As(err, &invalid) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := contractResponse{
		PDF:   res.PDFPath,
		Docx:  res.DocxPath,
		Audit: res.AuditPath,
		Pages: res.Pages,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
