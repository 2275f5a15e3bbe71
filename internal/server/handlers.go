package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marek/biopsy-classifier/internal/core"
	"github.com/marek/biopsy-classifier/internal/dataset"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 20

// Handler holds the HTTP handlers and their dependencies
type Handler struct {
	service     *core.DiagnosisService
	datasetPath string
	logger      *zap.Logger
}

// NewHandler creates a new handler set
func NewHandler(service *core.DiagnosisService, datasetPath string, logger *zap.Logger) *Handler {
	return &Handler{
		service:     service,
		datasetPath: datasetPath,
		logger:      logger,
	}
}

// RegisterRoutes attaches all routes to the router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/predict", h.Predict)
	r.Get("/sample-data", h.SampleData)
	r.Get("/api/health", h.Health)
	r.Get("/api/schema", h.Schema)
	r.Get("/api/history", h.History)
}

type diagnosisResponse struct {
	Success    bool    `json:"success"`
	Diagnosis  string  `json:"diagnosis"`
	IsBenign   bool    `json:"is_benign"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
	Disclaimer string  `json:"disclaimer"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type sampleDataResponse struct {
	Success         bool               `json:"success"`
	BenignSample    core.FeatureVector `json:"benign_sample"`
	MalignantSample core.FeatureVector `json:"malignant_sample"`
}

type historyEntry struct {
	ID         string             `json:"id"`
	Diagnosis  string             `json:"diagnosis"`
	Confidence float64            `json:"confidence"`
	Features   core.FeatureVector `json:"features"`
	CreatedAt  time.Time          `json:"created_at"`
}

type historyResponse struct {
	Success bool           `json:"success"`
	Records []historyEntry `json:"records"`
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// Schema returns the ordered feature names the model expects
func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"features": core.FeatureNames()})
}

// Predict evaluates biopsy metrics and returns the tumor classification.
// All outcomes respond 200; the success flag distinguishes failures.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, errorResponse{Error: "request body must be a JSON object"})
		return
	}

	features, err := h.service.Validate(payload)
	if err != nil {
		var validationErr *core.ValidationError
		if errors.As(err, &validationErr) {
			h.logger.Debug("Rejected prediction input",
				zap.String("field", validationErr.Field),
				zap.String("reason", validationErr.Error()))
		}
		writeJSON(w, errorResponse{Error: err.Error()})
		return
	}

	report, err := h.service.Diagnose(r.Context(), features)
	if err != nil {
		h.logger.Error("Diagnosis failed", zap.Error(err))
		writeJSON(w, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, diagnosisResponse{
		Success:    true,
		Diagnosis:  report.Diagnosis,
		IsBenign:   report.IsBenign,
		Confidence: report.Confidence,
		Message:    report.Message,
		Disclaimer: report.Disclaimer,
	})
}

// SampleData returns one historical benign and one historical malignant
// case for demo pre-fill, with the label column stripped
func (h *Handler) SampleData(w http.ResponseWriter, r *http.Request) {
	ds, err := dataset.Load(h.datasetPath)
	if err != nil {
		h.logger.Error("Failed to load sample data", zap.Error(err))
		writeJSON(w, errorResponse{Error: err.Error()})
		return
	}

	benign, malignant, err := ds.Samples()
	if err != nil {
		h.logger.Error("Failed to extract sample cases", zap.Error(err))
		writeJSON(w, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, sampleDataResponse{
		Success:         true,
		BenignSample:    benign.Features,
		MalignantSample: malignant.Features,
	})
}

// History returns recent prediction records, newest first
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.service.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to load prediction history", zap.Error(err))
		writeJSON(w, errorResponse{Error: err.Error()})
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, historyEntry{
			ID:         record.ID,
			Diagnosis:  record.Diagnosis,
			Confidence: record.Confidence,
			Features:   record.Features,
			CreatedAt:  record.CreatedAt,
		})
	}
	writeJSON(w, historyResponse{Success: true, Records: entries})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
