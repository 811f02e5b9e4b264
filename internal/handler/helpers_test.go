package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-explorer/internal/auth"
	"github.com/pkordes/trip-explorer/internal/domain"
	"github.com/pkordes/trip-explorer/internal/handler"
	"github.com/pkordes/trip-explorer/internal/handler/gen"
)

// ---- mocks -----------------------------------------------------------------

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs; an unset field panics when
// called, so a nil field doubles as "must not be called".
type mockTripServicer struct {
	create      func(ctx context.Context, owner string, trip domain.Trip) (domain.Trip, error)
	list        func(ctx context.Context, owner string) ([]domain.Trip, error)
	updateNotes func(ctx context.Context, owner string, id uuid.UUID, notes string) error
	delete      func(ctx context.Context, owner string, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, owner string, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, owner, t)
}
func (m *mockTripServicer) List(ctx context.Context, owner string) ([]domain.Trip, error) {
	return m.list(ctx, owner)
}
func (m *mockTripServicer) UpdateNotes(ctx context.Context, owner string, id uuid.UUID, notes string) error {
	return m.updateNotes(ctx, owner, id, notes)
}
func (m *mockTripServicer) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	return m.delete(ctx, owner, id)
}

type mockExportServicer struct {
	export func(ctx context.Context, owner string) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, owner string) ([]domain.ExportRow, error) {
	return m.export(ctx, owner)
}

type mockCountryPicker struct {
	random func(ctx context.Context, region string) (domain.Country, error)
}

func (m *mockCountryPicker) Random(ctx context.Context, region string) (domain.Country, error) {
	return m.random(ctx, region)
}

// compile-time checks: mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer   = (*mockTripServicer)(nil)
	_ handler.ExportServicer = (*mockExportServicer)(nil)
	_ handler.CountryPicker  = (*mockCountryPicker)(nil)
	_ handler.TokenIssuer    = (*auth.JWTGuard)(nil)
)

// ---- wiring ----------------------------------------------------------------

const (
	testSecret = "handler-test-secret"
	testCookie = "next-auth.session-token"
	testOwner  = "ada@example.com"
)

func newGuard() *auth.JWTGuard {
	return auth.NewJWTGuard(testSecret, testCookie)
}

// deps collects the collaborators of one test server. Zero fields become
// empty mocks, which panic if the handler reaches them.
type deps struct {
	trips     *mockTripServicer
	export    *mockExportServicer
	countries *mockCountryPicker
	tokens    handler.TokenIssuer
}

// newHTTPHandler wires a Server into the generated chi router behind the
// session middleware, exactly as main.go does in production.
func newHTTPHandler(d deps) http.Handler {
	if d.trips == nil {
		d.trips = &mockTripServicer{}
	}
	if d.export == nil {
		d.export = &mockExportServicer{}
	}
	if d.countries == nil {
		d.countries = &mockCountryPicker{}
	}
	srv := handler.NewServer(d.trips, d.export, d.countries, d.tokens)
	return handler.NewRouter(nil, srv, newGuard())
}

// ---- request helpers -------------------------------------------------------

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func tokenFor(t *testing.T, email string) string {
	t.Helper()
	tok, err := newGuard().Issue(email, time.Hour)
	require.NoError(t, err)
	return tok
}

// authedRequest builds a request carrying a valid bearer token for owner.
func authedRequest(t *testing.T, method, target string, body io.Reader, owner string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) gen.ErrorDetail {
	t.Helper()
	var resp gen.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func tripFixture() domain.Trip {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:        uuid.New(),
		Owner:     testOwner,
		Name:      "Portugal",
		Capital:   "Lisbon",
		Region:    "Europe",
		Flag:      "https://flagcdn.com/w320/pt.png",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
