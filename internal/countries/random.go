package countries

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkordes/trip-explorer/internal/domain"
)

// Lister is the read side of the feed that Picker draws from.
// *Client satisfies it.
type Lister interface {
	All(ctx context.Context) ([]domain.Country, error)
}

// Picker selects a random destination from the feed.
type Picker struct {
	feed Lister
	intn func(n int) int
}

// NewPicker returns a Picker drawing uniformly from feed.
func NewPicker(feed Lister) *Picker {
	return &Picker{feed: feed, intn: rand.IntN}
}

// Random returns a uniformly chosen country. A non-empty region restricts the
// draw to that region (case-insensitive).
// Returns domain.ErrNotFound when nothing matches.
func (p *Picker) Random(ctx context.Context, region string) (domain.Country, error) {
	all, err := p.feed.All(ctx)
	if err != nil {
		return domain.Country{}, fmt.Errorf("countries.Picker.Random: %w", err)
	}

	candidates := all
	if region = strings.TrimSpace(region); region != "" {
		candidates = make([]domain.Country, 0, len(all))
		for _, c := range all {
			if strings.EqualFold(c.Region, region) {
				candidates = append(candidates, c)
			}
		}
	}

	if len(candidates) == 0 {
		return domain.Country{}, fmt.Errorf("countries.Picker.Random: region %q: %w", region, domain.ErrNotFound)
	}
	return candidates[p.intn(len(candidates))], nil
}
