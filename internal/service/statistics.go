package service

import (
	"context"
	"fmt"
)

// StatisticsResponse summarizes the whole collection for the back office.
type StatisticsResponse struct {
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"byStatus"`
	ByType      map[string]int64 `json:"byType"`
	TotalAmount string           `json:"totalAmount"`
}

func (s *submissionService) Statistics(ctx context.Context) (StatisticsResponse, error) {
	byStatus, err := s.repo.CountGroupedByStatus(ctx)
	if err != nil {
		return StatisticsResponse{}, fmt.Errorf("failed to count by status: %w", err)
	}
	byType, err := s.repo.CountGroupedByType(ctx)
	if err != nil {
		return StatisticsResponse{}, fmt.Errorf("failed to count by type: %w", err)
	}
	totalAmount, err := s.repo.SumTotalAmount(ctx)
	if err != nil {
		return StatisticsResponse{}, fmt.Errorf("failed to sum amounts: %w", err)
	}

	resp := StatisticsResponse{
		ByStatus:    make(map[string]int64, len(byStatus)),
		ByType:      make(map[string]int64, len(byType)),
		TotalAmount: totalAmount.StringFixed(2),
	}
	for _, row := range byStatus {
		resp.ByStatus[row.Key] = row.Count
		resp.Total += row.Count
	}
	for _, row := range byType {
		resp.ByType[row.Key] = row.Count
	}
	return resp, nil
}
