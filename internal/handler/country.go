package handler

import (
	"context"
	"errors"

	"github.com/pkordes/trip-explorer/internal/domain"
	"github.com/pkordes/trip-explorer/internal/handler/gen"
)

// GetRandomCountry handles GET /countries/random.
// Supports ?region= to restrict the draw (e.g. region=Europe).
func (s *Server) GetRandomCountry(ctx context.Context, req gen.GetRandomCountryRequestObject) (gen.GetRandomCountryResponseObject, error) {
	var region string
	if req.Params.Region != nil {
		region = *req.Params.Region
	}

	c, err := s.countries.Random(ctx, region)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return gen.GetRandomCountry404JSONResponse(notFoundBody("no country found")), nil
		case errors.Is(err, domain.ErrUpstream):
			return gen.GetRandomCountry502JSONResponse(errorBody("upstream_error", "country feed unavailable")), nil
		}
		return nil, err
	}

	return gen.GetRandomCountry200JSONResponse{
		Name:    c.Name,
		Capital: c.Capital,
		Region:  c.Region,
		Flag:    c.Flag,
	}, nil
}
