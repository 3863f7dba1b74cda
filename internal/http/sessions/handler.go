// Package sessions exposes the capture flow over HTTP: one session per
// sale, one message per answer. Approving the summary generates the
// documents the operator asked for at the start of the flow.
package sessions

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JJ950407/lia-pagare/internal/batch"
	"github.com/JJ950407/lia-pagare/internal/capture"
	"github.com/JJ950407/lia-pagare/internal/contract"
	"github.com/JJ950407/lia-pagare/internal/session"
)

type Handler struct {
	store     *session.Store
	batches   *batch.Service
	contracts *contract.Service
}

func NewHandler(store *session.Store, batches *batch.Service, contracts *contract.Service) *Handler {
	return &Handler{store: store, batches: batches, contracts: contracts}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/messages", h.message)
	r.Delete("/{id}", h.delete)
}

type sessionResponse struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	state, prompt := capture.Start()
	sess := h.store.Create(state)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(sessionResponse{ID: sess.ID.String(), Prompt: prompt}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := sessionResponse{ID: sess.ID.String(), Prompt: sess.State.Summary()}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Prompt string `json:"prompt,omitempty"`
	Reject string `json:"reject,omitempty"`
	Done   bool   `json:"done"`

	Batch    *batchSummary    `json:"batch,omitempty"`
	Contract *contractSummary `json:"contract,omitempty"`
}

type batchSummary struct {
	BatchID  string `json:"batch_id"`
	LotPDF   string `json:"lot_pdf"`
	Manifest string `json:"manifest"`
	Notes    int    `json:"notes"`
}

type contractSummary struct {
	PDF   string `json:"pdf"`
	Audit string `json:"audit"`
	Pages int    `json:"pages"`
}

func (h *Handler) message(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prompt, err := sess.State.Advance(req.Text)
	h.store.Touch(sess.ID)

	switch {
	case errors.Is(err, capture.ErrCanceled):
		h.store.Delete(sess.ID)
		writeJSON(w, messageResponse{Done: true, Reject: "capture canceled"})

		return
	case err != nil:
		// A parse rejection is part of the conversation, not a transport
		// failure: repeat the question with the reason attached.
		writeJSON(w, messageResponse{Prompt: prompt, Reject: err.Error()})

		return
	}

	if !sess.State.Done {
		writeJSON(w, messageResponse{Prompt: prompt})
		return
	}

	h.generate(w, r, sess)
}

// generate runs the pipelines the approved session asked for and retires
// the session.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	resp := messageResponse{Done: true}
	state := sess.State

	if state.DocType != capture.DocContract {
		res, err := h.batches.Generate(r.Context(), state.Record)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp.Batch = &batchSummary{
			BatchID:  res.BatchID,
			LotPDF:   res.LotPath,
			Manifest: res.ManifestPath,
			Notes:    len(res.Manifest.Notes),
		}
	}

	if state.NeedsContract() {
		res, err := h.contracts.Generate(r.Context(), state.Record, nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp.Contract = &contractSummary{
			PDF:   res.PDFPath,
			Audit: res.AuditPath,
			Pages: res.Pages,
		}
	}

	h.store.Delete(sess.ID)
	writeJSON(w, resp)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	h.store.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	sess, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return nil, false
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return nil, false
	}

	return sess, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
