package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pkordes/trip-explorer/internal/auth"
	"github.com/pkordes/trip-explorer/internal/domain"
	"github.com/pkordes/trip-explorer/internal/handler/gen"
)

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(ctx context.Context, req gen.CreateTripRequestObject) (gen.CreateTripResponseObject, error) {
	owner, _ := auth.IdentityFromContext(ctx)

	if req.Body == nil {
		return gen.CreateTrip422JSONResponse(requestBody("request body is required")), nil
	}

	created, err := s.trips.Create(ctx, owner, requestToTrip(req.Body))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return gen.CreateTrip401JSONResponse(unauthorizedBody()), nil
		case errors.Is(err, domain.ErrValidation):
			return gen.CreateTrip422JSONResponse(validationBody(err)), nil
		case errors.Is(err, domain.ErrDuplicate):
			return gen.CreateTrip409JSONResponse(errorBody("duplicate", msgDuplicate)), nil
		}
		return nil, err
	}

	return gen.CreateTrip201JSONResponse(tripToResponse(created)), nil
}

// ListTrips handles GET /trips.
// The response is always a JSON array, empty when the caller has no trips.
func (s *Server) ListTrips(ctx context.Context, _ gen.ListTripsRequestObject) (gen.ListTripsResponseObject, error) {
	owner, _ := auth.IdentityFromContext(ctx)

	trips, err := s.trips.List(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return gen.ListTrips401JSONResponse(unauthorizedBody()), nil
		}
		return nil, err
	}

	out := make(gen.ListTrips200JSONResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, tripToResponse(t))
	}
	return out, nil
}

// UpdateTripNotes handles PUT /trips/notes.
func (s *Server) UpdateTripNotes(ctx context.Context, req gen.UpdateTripNotesRequestObject) (gen.UpdateTripNotesResponseObject, error) {
	owner, _ := auth.IdentityFromContext(ctx)

	if req.Body == nil || req.Body.Id == uuid.Nil {
		return gen.UpdateTripNotes422JSONResponse(requestBody("id is required")), nil
	}

	err := s.trips.UpdateNotes(ctx, owner, req.Body.Id, req.Body.Notes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return gen.UpdateTripNotes401JSONResponse(unauthorizedBody()), nil
		case errors.Is(err, domain.ErrNotFound):
			return gen.UpdateTripNotes404JSONResponse(notFoundBody("trip not found")), nil
		}
		return nil, err
	}

	return gen.UpdateTripNotes200JSONResponse{Message: msgNotesUpdated}, nil
}

// DeleteTrip handles DELETE /trips.
// Deleting a trip the caller does not have still answers 200.
func (s *Server) DeleteTrip(ctx context.Context, req gen.DeleteTripRequestObject) (gen.DeleteTripResponseObject, error) {
	owner, _ := auth.IdentityFromContext(ctx)

	if req.Body == nil || req.Body.Id == uuid.Nil {
		return gen.DeleteTrip422JSONResponse(requestBody("id is required")), nil
	}

	if err := s.trips.Delete(ctx, owner, req.Body.Id); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return gen.DeleteTrip401JSONResponse(unauthorizedBody()), nil
		}
		return nil, err
	}

	return gen.DeleteTrip200JSONResponse{Message: msgTripDeleted}, nil
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a CreateTripRequest body into a domain.Trip.
// Optional fields that are absent become empty strings.
func requestToTrip(body *gen.CreateTripRequest) domain.Trip {
	t := domain.Trip{Name: body.Name}
	if body.Capital != nil {
		t.Capital = *body.Capital
	}
	if body.Region != nil {
		t.Region = *body.Region
	}
	if body.Flag != nil {
		t.Flag = *body.Flag
	}
	return t
}

// tripToResponse converts a domain.Trip into the generated gen.Trip type.
// The owner is deliberately not part of the response.
func tripToResponse(t domain.Trip) gen.Trip {
	return gen.Trip{
		Id:        t.ID,
		Name:      t.Name,
		Capital:   t.Capital,
		Region:    t.Region,
		Flag:      t.Flag,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
