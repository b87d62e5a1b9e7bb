package core

import (
	"github.com/Digital-Shane/tvshowinfo/internal/provider"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
)

// ClosestEpisode returns the episode whose prepared name has the smallest
// edit distance to the prepared query. The first episode wins ties. It is a
// diagnostic and never decides a lookup.
func ClosestEpisode(show *provider.Show, prepared string) (*provider.Episode, bool) {
	var (
		best     *provider.Episode
		bestDist int
	)
	eachEpisode(show, func(ep *provider.Episode) {
		d := levenshtein.Distance(Prepare(ep.Name), prepared)
		if best == nil || d < bestDist {
			best, bestDist = ep, d
		}
	})
	return best, best != nil
}
