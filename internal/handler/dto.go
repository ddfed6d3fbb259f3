package handler

import (
	"fmt"
	"time"

	"github.com/hercal-app/hercal/internal/domain"
)

const isoDate = "2006-01-02"

// CycleDTO is the JSON representation of a cycle entry.
type CycleDTO struct {
	ID              int64  `json:"id"`
	LastPeriodStart string `json:"lastPeriodStart"`
	NextPeriodStart string `json:"nextPeriodStart"`
	CycleLength     int    `json:"cycleLength"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

func toCycleDTO(c *domain.Cycle) CycleDTO {
	return CycleDTO{
		ID:              c.ID,
		LastPeriodStart: c.LastPeriodStart.Format(isoDate),
		NextPeriodStart: c.NextPeriodStart.Format(isoDate),
		CycleLength:     c.CycleLength,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       c.UpdatedAt.Format(time.RFC3339),
	}
}

func toCycleDTOs(cycles []domain.Cycle) []CycleDTO {
	dtos := make([]CycleDTO, len(cycles))
	for i := range cycles {
		dtos[i] = toCycleDTO(&cycles[i])
	}
	return dtos
}

// EstimateDTO is the JSON representation of the derived dashboard stats.
// The date fields are omitted when no estimate is available.
type EstimateDTO struct {
	AverageCycleLength int     `json:"averageCycleLength"`
	EstimatedNext      *string `json:"estimatedNextPeriodDate,omitempty"`
	DaysUntilNext      *int    `json:"daysUntilNext,omitempty"`
}

func toEstimateDTO(e domain.Estimate) EstimateDTO {
	dto := EstimateDTO{AverageCycleLength: e.AverageCycleLength}
	if e.NextPeriod != nil {
		s := e.NextPeriod.Format(isoDate)
		dto.EstimatedNext = &s
	}
	dto.DaysUntilNext = e.DaysUntil
	return dto
}

// cycleRequest is the JSON payload for creating or updating a cycle.
type cycleRequest struct {
	LastPeriodStart string `json:"lastPeriodStart"`
	NextPeriodStart string `json:"nextPeriodStart"`
}

func (req cycleRequest) dates() (last, next time.Time, err error) {
	last, err = time.ParseInLocation(isoDate, req.LastPeriodStart, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid lastPeriodStart: expected YYYY-MM-DD")
	}
	next, err = time.ParseInLocation(isoDate, req.NextPeriodStart, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid nextPeriodStart: expected YYYY-MM-DD")
	}
	return last, next, nil
}
