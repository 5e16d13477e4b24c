package dto

import "certprep/internal/domain"

// ImportResultResponse summarizes one CSV import batch in the API response
// @Description Import batch statistics
type ImportResultResponse struct {
	ContainerID   string         `json:"container_id"`
	TotalRows     int            `json:"total_rows"`
	Imported      int            `json:"imported"`
	Skipped       int            `json:"skipped"`
	Errored       int            `json:"errored"`
	PerTypeCounts map[string]int `json:"per_type_counts"`
	MediaResolved int            `json:"media_resolved_count"`
	RowErrors     []string       `json:"row_errors,omitempty"`
}

// NewImportResultResponse maps a domain import result to its API shape.
func NewImportResultResponse(containerID string, result *domain.ImportResult) ImportResultResponse {
	perType := make(map[string]int, len(result.PerTypeCounts))
	for qtype, count := range result.PerTypeCounts {
		perType[string(qtype)] = count
	}
	return ImportResultResponse{
		ContainerID:   containerID,
		TotalRows:     result.TotalRows,
		Imported:      result.Imported,
		Skipped:       result.Skipped,
		Errored:       result.Errored,
		PerTypeCounts: perType,
		MediaResolved: result.MediaResolved,
		RowErrors:     result.RowErrors,
	}
}
