package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/entity"
	datasetuc "github.com/futig/qagen/internal/usecase/dataset"
	"github.com/go-chi/chi/v5"
)

type fakeUsecase struct {
	startReq *entity.CreateRunRequest
	startErr error

	runs    map[string]*entity.Run
	listReq *entity.ListRunsRequest

	artifact    string
	artifactErr error
}

func (f *fakeUsecase) StartRun(_ context.Context, req *entity.CreateRunRequest) (*entity.Run, error) {
	f.startReq = req
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &entity.Run{ID: "run-1", Filename: req.File.Filename, Status: entity.RunStatusPending}, nil
}

func (f *fakeUsecase) GetRun(_ context.Context, id string) (*entity.Run, error) {
	if run, ok := f.runs[id]; ok {
		return run, nil
	}
	return nil, entity.ErrRunNotFound
}

func (f *fakeUsecase) ListRuns(_ context.Context, req *entity.ListRunsRequest) (*entity.ListRunsResponse, error) {
	f.listReq = req
	return &entity.ListRunsResponse{Runs: []*entity.RunSummary{{ID: "run-1", Status: entity.RunStatusDone}}}, nil
}

func (f *fakeUsecase) OpenArtifact(_ context.Context, id string, format entity.OutputFormat) (*datasetuc.Artifact, error) {
	if f.artifactErr != nil {
		return nil, f.artifactErr
	}
	return &datasetuc.Artifact{
		Name:        "qa_dataset.csv",
		ContentType: "text/csv",
		Body:        io.NopCloser(strings.NewReader(f.artifact)),
	}, nil
}

func newRouter(uc DatasetUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, config.FileUploadConfig{MaxFileSize: 1 << 20, MaxUploadSize: 2 << 20}))
	return r
}

func uploadRequest(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withFile {
		fw, err := mw.CreateFormFile("file", "notes.txt")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write([]byte("some document text"))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/runs/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateRunAccepted(t *testing.T) {
	uc := &fakeUsecase{}
	rec := httptest.NewRecorder()

	newRouter(uc).ServeHTTP(rec, uploadRequest(t, map[string]string{
		"chunk_size":   "1000",
		"overlap":      "100",
		"is_pdf":       "true",
		"api_key":      "secret",
		"formats":      "csv, markdown",
		"callback_url": "http://example.com/hook",
	}, true))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp entity.CreateRunResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "accepted" || resp.RunID != "run-1" {
		t.Errorf("response = %+v", resp)
	}

	req := uc.startReq
	if req.File == nil || req.File.Filename != "notes.txt" {
		t.Fatalf("file not forwarded: %+v", req.File)
	}
	opts := req.Options
	if opts.ChunkSize != 1000 || opts.OverlapOf(-1) != 100 || !opts.IsPDF || opts.APIKey != "secret" {
		t.Errorf("options = %+v (overlap %d)", opts, opts.OverlapOf(-1))
	}
	if len(req.Formats) != 2 || req.Formats[0] != entity.FormatCSV || req.Formats[1] != entity.FormatMarkdown {
		t.Errorf("formats = %v", req.Formats)
	}
	if req.CallbackURL != "http://example.com/hook" {
		t.Errorf("callback = %q", req.CallbackURL)
	}
}

func TestCreateRunRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		startErr error
		want     int
	}{
		{name: "non numeric chunk size", fields: map[string]string{"chunk_size": "big"}, want: http.StatusBadRequest},
		{name: "bad boolean", fields: map[string]string{"is_pdf": "maybe"}, want: http.StatusBadRequest},
		{name: "unknown format", fields: map[string]string{"formats": "csv,xml"}, want: http.StatusBadRequest},
		{name: "validation error", startErr: entity.ErrInvalidExtension, want: http.StatusBadRequest},
		{name: "too large", startErr: entity.ErrFileTooLarge, want: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUsecase{startErr: tt.startErr}
			rec := httptest.NewRecorder()

			newRouter(uc).ServeHTTP(rec, uploadRequest(t, tt.fields, true))

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.startErr == nil && uc.startReq != nil {
				t.Error("usecase called for malformed form")
			}
		})
	}
}

func TestGetRun(t *testing.T) {
	uc := &fakeUsecase{runs: map[string]*entity.Run{
		"run-1": {ID: "run-1", Status: entity.RunStatusDone, Message: "ok"},
	}}
	router := newRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/run-1/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var run entity.Run
	if err := json.NewDecoder(rec.Body).Decode(&run); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if run.Status != entity.RunStatusDone || run.Message != "ok" {
		t.Errorf("run = %+v", run)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/missing/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing run status = %d", rec.Code)
	}
}

func TestListRunsPassesPaging(t *testing.T) {
	uc := &fakeUsecase{}
	rec := httptest.NewRecorder()

	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/?skip=5&limit=20", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if uc.listReq.Skip != 5 || uc.listReq.Limit != 20 {
		t.Errorf("paging = %+v", uc.listReq)
	}
}

func TestDownloadArtifact(t *testing.T) {
	uc := &fakeUsecase{artifact: "question,answer\n"}
	router := newRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/run-1/artifacts/csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("content type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "qa_dataset.csv") {
		t.Errorf("content disposition = %q", got)
	}
	if rec.Body.String() != "question,answer\n" {
		t.Errorf("body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/run-1/artifacts/xml", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d", rec.Code)
	}

	uc.artifactErr = entity.ErrArtifactNotFound
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/run-1/artifacts/pdf", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent artifact status = %d", rec.Code)
	}
}
