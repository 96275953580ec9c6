package domain

import (
	"fmt"
	"strings"
)

// BatchStatus represents the final state of a batch run.
type BatchStatus string

const (
	BatchStatusCompleted      BatchStatus = "COMPLETED"
	BatchStatusPartialFailure BatchStatus = "PARTIAL_FAILURE"
	BatchStatusFailed         BatchStatus = "FAILED"
)

func (s BatchStatus) String() string { return string(s) }

func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusCompleted, BatchStatusPartialFailure, BatchStatusFailed:
		return true
	}
	return false
}

// BatchReport holds per-record outcomes of a batch in input order.
type BatchReport struct {
	BatchID   string             `json:"batchId"`
	Status    BatchStatus        `json:"status"`
	Results   []GenerationResult `json:"results"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}

func (r *BatchReport) Total() int {
	return len(r.Results)
}

// Record appends an outcome and updates the tallies.
func (r *BatchReport) Record(result GenerationResult) {
	r.Results = append(r.Results, result)
	if result.Succeeded {
		r.Succeeded++
	} else {
		r.Failed++
	}

	switch {
	case r.Failed == 0:
		r.Status = BatchStatusCompleted
	case r.Succeeded == 0:
		r.Status = BatchStatusFailed
	default:
		r.Status = BatchStatusPartialFailure
	}
}

func (r *BatchReport) Summary() string {
	return fmt.Sprintf("%d of %d succeeded", r.Succeeded, r.Total())
}

// ParseBatch turns "name,number" lines into records. Blank lines and lines
// without exactly two non-empty fields are dropped without error.
func ParseBatch(text string) []PatientRecord {
	lines := strings.Split(text, "\n")
	records := make([]PatientRecord, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			continue
		}

		name := strings.TrimSpace(parts[0])
		number := strings.TrimSpace(parts[1])
		if name == "" || number == "" {
			continue
		}

		records = append(records, PatientRecord{Name: name, Number: number})
	}

	return records
}
