package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/pkg/logger"
	"github.com/futig/qagen/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase DatasetUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase DatasetUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// CreateRun handles POST /runs
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateRun")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, err := parseCreateRunForm(r)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if files := r.MultipartForm.File["file"]; len(files) > 0 {
		req.File = files[0]
	}

	run, err := h.usecase.StartRun(ctx, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "run accepted",
		zap.String("run_id", run.ID),
		zap.String("filename", run.Filename),
	)

	response.Accepted(w, &entity.CreateRunResponse{
		Status: "accepted",
		RunID:  run.ID,
	})
}

// ListRuns handles GET /runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListRuns")

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	resp, err := h.usecase.ListRuns(ctx, &entity.ListRunsRequest{
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "runs listed", zap.Int("count", len(resp.Runs)))
	response.Success(w, resp)
}

// GetRun handles GET /runs/{run_id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("run_id", runID),
		zap.String("action", "GetRun"),
	)

	run, err := h.usecase.GetRun(ctx, runID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, run)
}

// DownloadArtifact handles GET /runs/{run_id}/artifacts/{format}
func (h *Handler) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")
	format := entity.OutputFormat(chi.URLParam(r, "format"))
	ctx := logger.AddFields(r.Context(),
		zap.String("run_id", runID),
		zap.String("format", string(format)),
		zap.String("action", "DownloadArtifact"),
	)

	if !format.IsValid() {
		h.handleUsecaseError(ctx, w, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format))
		return
	}

	art, err := h.usecase.OpenArtifact(ctx, runID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	defer art.Body.Close()

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Name))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, art.Body); err != nil {
		ctxzap.Warn(ctx, "artifact download interrupted", zap.Error(err))
	}
}

// parseCreateRunForm reads the optional run parameters of the upload form.
func parseCreateRunForm(r *http.Request) (*entity.CreateRunRequest, error) {
	req := &entity.CreateRunRequest{
		CallbackURL: r.FormValue("callback_url"),
	}
	req.Options.APIKey = r.FormValue("api_key")

	var err error
	if req.Options.ChunkSize, err = formInt(r, "chunk_size"); err != nil {
		return nil, err
	}
	overlap, err := formInt(r, "overlap")
	if err != nil {
		return nil, err
	}
	if r.FormValue("overlap") != "" {
		req.Options = req.Options.WithOverlap(overlap)
	}

	if v := r.FormValue("is_pdf"); v != "" {
		req.Options.IsPDF, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: is_pdf must be a boolean", entity.ErrInvalidParameter)
		}
	}

	if v := r.FormValue("formats"); v != "" {
		names := strings.Split(v, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		if req.Formats, err = entity.ParseOutputFormats(names); err != nil {
			return nil, err
		}
	}

	return req, nil
}

func formInt(r *http.Request, key string) (int, error) {
	v := r.FormValue(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", entity.ErrInvalidParameter, key)
	}
	return n, nil
}

// Helper methods
func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Error(ctx, message)
	}

	if err != nil && status < http.StatusInternalServerError {
		message = err.Error()
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrRunNotFound) || errors.Is(err, entity.ErrArtifactNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrFileTooLarge):
		h.respondError(ctx, w, http.StatusRequestEntityTooLarge, "file too large", err)
	case errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) ||
		errors.Is(err, entity.ErrUnsupportedFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrInvalidFile) || errors.Is(err, entity.ErrInvalidExtension):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
