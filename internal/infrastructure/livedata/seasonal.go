package livedata

import (
	"context"
	"time"
)

// SeasonalProvider gives a deterministic month-based note about what
// the park looks like right now. No network, no cache, no failure mode.
type SeasonalProvider struct {
	now func() time.Time
}

func NewSeasonalProvider() *SeasonalProvider {
	return &SeasonalProvider{now: time.Now}
}

func (p *SeasonalProvider) Get(_ context.Context) (string, error) {
	switch p.now().Month() {
	case time.December, time.January, time.February:
		return "Winter season: Paradise is snowbound, most roads beyond Longmire close, " +
			"and snowshoeing conditions are at their best.", nil
	case time.March, time.April, time.May:
		return "Spring season: lower trails are melting out while high country stays " +
			"under deep snow; expect lingering snow above 5,000 feet.", nil
	case time.June, time.July, time.August:
		return "Summer season: wildflower meadows peak in late July and August, all park " +
			"roads typically open, and trailheads fill early on weekends.", nil
	default:
		return "Fall season: golden larches and cooler days, first snows arrive at " +
			"Paradise by late October, and services start winding down.", nil
	}
}
