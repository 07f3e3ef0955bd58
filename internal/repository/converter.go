package repository

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/futig/qagen/internal/entity"
)

// runRow mirrors a row of the runs table
type runRow struct {
	ID        string
	Filename  string
	Session   string
	Status    string
	Message   string
	Stats     []byte
	Artifacts []byte
	Digest    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func toRunRow(run *entity.Run) (*runRow, error) {
	row := &runRow{
		ID:        run.ID,
		Filename:  run.Filename,
		Session:   run.Session,
		Status:    string(run.Status),
		Message:   run.Message,
		Digest:    run.Digest,
		CreatedAt: run.CreatedAt,
		UpdatedAt: run.UpdatedAt,
	}

	if run.Stats != nil {
		stats, err := json.Marshal(run.Stats)
		if err != nil {
			return nil, fmt.Errorf("marshal stats: %w", err)
		}
		row.Stats = stats
	}

	if len(run.Artifacts) > 0 {
		artifacts, err := json.Marshal(run.Artifacts)
		if err != nil {
			return nil, fmt.Errorf("marshal artifacts: %w", err)
		}
		row.Artifacts = artifacts
	}

	return row, nil
}

func toEntityRun(row *runRow) (*entity.Run, error) {
	run := &entity.Run{
		ID:        row.ID,
		Filename:  row.Filename,
		Session:   row.Session,
		Status:    entity.RunStatus(row.Status),
		Message:   row.Message,
		Digest:    row.Digest,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if len(row.Stats) > 0 {
		var stats entity.RunStats
		if err := json.Unmarshal(row.Stats, &stats); err != nil {
			return nil, fmt.Errorf("unmarshal stats: %w", err)
		}
		run.Stats = &stats
	}

	if len(row.Artifacts) > 0 {
		if err := json.Unmarshal(row.Artifacts, &run.Artifacts); err != nil {
			return nil, fmt.Errorf("unmarshal artifacts: %w", err)
		}
	}

	return run, nil
}

// cloneRun deep-copies a run so stored records never alias caller memory.
func cloneRun(run *entity.Run) *entity.Run {
	out := *run
	if run.Stats != nil {
		stats := *run.Stats
		out.Stats = &stats
	}
	if run.Artifacts != nil {
		out.Artifacts = maps.Clone(run.Artifacts)
	}
	return &out
}
