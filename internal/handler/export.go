package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-explorer/internal/auth"
	"github.com/pkordes/trip-explorer/internal/domain"
	"github.com/pkordes/trip-explorer/internal/handler/gen"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{"id", "name", "capital", "region", "flag", "notes", "created_at"}

// ExportTrips handles GET /trips/export.
// It returns every trip of the caller as a flat table.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportTrips(ctx context.Context, req gen.ExportTripsRequestObject) (gen.ExportTripsResponseObject, error) {
	owner, _ := auth.IdentityFromContext(ctx)

	rows, err := s.export.Export(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return gen.ExportTrips401JSONResponse(unauthorizedBody()), nil
		}
		return nil, err
	}

	if req.Params.Format != nil && domain.ExportFormat(*req.Params.Format) == domain.ExportCSV {
		return buildCSVResponse(rows)
	}
	return buildJSONResponse(rows)
}

// buildJSONResponse converts domain rows to the typed JSON response.
func buildJSONResponse(rows []domain.ExportRow) (gen.ExportTrips200JSONResponse, error) {
	out := make(gen.ExportTrips200JSONResponse, 0, len(rows))
	for _, r := range rows {
		row, err := domainRowToGenRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// buildCSVResponse encodes domain rows as CSV and wraps them in the
// streaming response type.
func buildCSVResponse(rows []domain.ExportRow) (gen.ExportTrips200TextcsvResponse, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := make([][]string, 0, len(rows)+1)
	records = append(records, csvHeaders)
	for _, r := range rows {
		records = append(records, []string{r.TripID, r.Name, r.Capital, r.Region, r.Flag, r.Notes, r.CreatedAt})
	}
	if err := w.WriteAll(records); err != nil {
		return gen.ExportTrips200TextcsvResponse{}, fmt.Errorf("handler.ExportTrips: write csv: %w", err)
	}

	return gen.ExportTrips200TextcsvResponse{
		Body:          &buf,
		ContentLength: int64(buf.Len()),
	}, nil
}

// domainRowToGenRow maps a domain.ExportRow to the generated gen.ExportRow type.
func domainRowToGenRow(r domain.ExportRow) (gen.ExportRow, error) {
	id, err := uuid.Parse(r.TripID)
	if err != nil {
		return gen.ExportRow{}, fmt.Errorf("handler.ExportTrips: trip id %q: %w", r.TripID, err)
	}
	created, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return gen.ExportRow{}, fmt.Errorf("handler.ExportTrips: created_at %q: %w", r.CreatedAt, err)
	}
	return gen.ExportRow{
		Id:        id,
		Name:      r.Name,
		Capital:   r.Capital,
		Region:    r.Region,
		Flag:      r.Flag,
		Notes:     r.Notes,
		CreatedAt: created,
	}, nil
}
