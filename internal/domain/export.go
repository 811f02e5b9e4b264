package domain

// ExportFormat selects the encoding of a trip export.
type ExportFormat string

const (
	// ExportJSON renders the export as a JSON array. It is the default.
	ExportJSON ExportFormat = "json"
	// ExportCSV renders the export as CSV with a header row.
	ExportCSV ExportFormat = "csv"
)

// ExportRow is a single row in a user's trip export.
// It is a flat, client-facing view of a Trip: the owner is omitted because an
// export only ever contains the caller's own trips.
type ExportRow struct {
	TripID    string
	Name      string
	Capital   string
	Region    string
	Flag      string
	Notes     string
	CreatedAt string // RFC 3339, UTC
}
