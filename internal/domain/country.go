package domain

// Country is one candidate destination from the country feed.
// It is read-only reference data and never persisted as such; saving a
// country creates a Trip with the same descriptive fields.
type Country struct {
	Name    string
	Capital string // "N/A" when the feed lists no capital
	Region  string
	Flag    string // URL of a PNG flag image
}
