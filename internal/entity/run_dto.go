package entity

import "mime/multipart"

type CreateRunRequest struct {
	File        *multipart.FileHeader
	Options     ProcessOptions
	Formats     []OutputFormat
	CallbackURL string
}

type CreateRunResponse struct {
	Status string `json:"status"`
	RunID  string `json:"run_id"`
}

type ListRunsRequest struct {
	Skip  int
	Limit int
}

func (lr *ListRunsRequest) Normalize() {
	if lr.Limit <= 0 {
		lr.Limit = 10
	}

	lr.Limit = min(lr.Limit, 100)
	lr.Skip = max(lr.Skip, 0)
}

type ListRunsResponse struct {
	Runs []*RunSummary `json:"runs"`
}

type RunSummary struct {
	ID        string    `json:"run_id"`
	Filename  string    `json:"filename"`
	Status    RunStatus `json:"status"`
	CreatedAt string    `json:"created_at"`
}
