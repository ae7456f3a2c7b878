package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/services"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"
)

type PodcastHandler struct {
	service     services.PodcastService
	maxFileSize int64
	logger      *utils.Logger
}

func NewPodcastHandler(service services.PodcastService, maxFileSize int64, logger *utils.Logger) *PodcastHandler {
	return &PodcastHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// GeneratePodcast accepts one uploaded PDF and responds with a ZIP archive
// of per-line audio clips plus an X-Podcast-Metrics header. The caller gets
// either a complete archive or a single JSON error, never a partial result.
func (h *PodcastHandler) GeneratePodcast(w http.ResponseWriter, r *http.Request) {
	// Reject oversized requests before reading the body.
	if r.ContentLength > h.maxFileSize {
		h.respondError(w, utils.NewBadRequestError(fmt.Sprintf("O arquivo excede o limite de %dMB", h.maxFileSize>>20)))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, utils.NewBadRequestError(fmt.Sprintf("O arquivo excede o limite de %dMB", h.maxFileSize>>20)))
			return
		}
		h.respondError(w, utils.NewBadRequestError("Formulário inválido"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("Nenhum arquivo enviado"))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		h.respondError(w, utils.NewBadRequestError("Apenas arquivos PDF são permitidos."))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, utils.NewInternalError("Falha ao ler o arquivo"))
		return
	}
	if len(data) == 0 {
		h.respondError(w, utils.NewBadRequestError("O arquivo enviado está vazio"))
		return
	}

	h.logger.Info("Podcast generation requested",
		"filename", header.Filename,
		"file_size", len(data))

	resp, err := h.service.GeneratePodcast(r.Context(), &models.GenerateRequest{
		File:     data,
		Filename: header.Filename,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	archive, err := zipSegments(resp.Segments)
	if err != nil {
		h.logger.Error("Failed to build ZIP archive", "error", err)
		h.respondError(w, utils.NewInternalError("Falha ao empacotar os arquivos de áudio"))
		return
	}

	metricsJSON, err := json.Marshal(resp.Metrics)
	if err != nil {
		h.respondError(w, utils.NewInternalError("Falha ao codificar as métricas"))
		return
	}

	base := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=podcast_segments_%s.zip", base))
	w.Header().Set("X-Podcast-Metrics", string(metricsJSON))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(archive); err != nil {
		h.logger.Error("Failed to write ZIP response", "error", err)
	}
}

// zipSegments packs every clip into an in-memory ZIP, one entry per line.
func zipSegments(segments []models.AudioSegment) ([]byte, error) {
	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	for _, seg := range segments {
		entry, err := zw.Create(seg.Filename)
		if err != nil {
			return nil, err
		}
		if _, err := entry.Write(seg.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (h *PodcastHandler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch e := err.(type) {
	case *utils.AppError:
		status = e.StatusCode
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
