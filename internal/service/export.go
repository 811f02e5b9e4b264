package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkordes/trip-explorer/internal/domain"
	"github.com/pkordes/trip-explorer/internal/repo"
)

// ExportService assembles a flat export of one user's saved trips.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per trip owned by owner, sorted by name so
// repeated exports diff cleanly.
func (s *ExportService) Export(ctx context.Context, owner string) ([]domain.ExportRow, error) {
	if err := requireOwner(owner); err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	trips, err := s.trips.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	sort.SliceStable(trips, func(i, j int) bool { return trips[i].Name < trips[j].Name })

	rows := make([]domain.ExportRow, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, domain.ExportRow{
			TripID:    t.ID.String(),
			Name:      t.Name,
			Capital:   t.Capital,
			Region:    t.Region,
			Flag:      t.Flag,
			Notes:     t.Notes,
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows, nil
}
