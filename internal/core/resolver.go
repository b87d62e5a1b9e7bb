package core

import (
	"strings"

	"github.com/Digital-Shane/tvshowinfo/internal/log"
	"github.com/Digital-Shane/tvshowinfo/internal/provider"
)

// DefaultThreshold is the lowest fuzzy ratio accepted as a title match.
const DefaultThreshold = 0.90

// Resolver selects one episode of a show for a query.
//
// Scans visit seasons in show order and episodes in season order. Whenever
// more than one episode qualifies (absolute scan, exact-name pass, fuzzy
// pass) the last one visited is returned.
type Resolver struct {
	Threshold  float64
	Similarity func(a, b string) float64
}

// NewResolver returns a resolver using Similarity and DefaultThreshold.
func NewResolver() *Resolver {
	return &Resolver{
		Threshold:  DefaultThreshold,
		Similarity: Similarity,
	}
}

// Resolve returns the episode the query designates or an ErrNotFound error.
func (r *Resolver) Resolve(show *provider.Show, q ShowQuery) (*provider.Episode, error) {
	switch q.Mode() {
	case ModeExact:
		return r.byNumber(show, q)
	case ModeAbsolute:
		return r.byAbsolute(show, q)
	default:
		return r.byName(show, q)
	}
}

func (r *Resolver) byNumber(show *provider.Show, q ShowQuery) (*provider.Episode, error) {
	seasonNumber, episodeNumber := q.Season.MustGet(), q.Episode.MustGet()

	season, ok := show.Season(seasonNumber)
	if ok {
		if ep, ok := season.Episode(episodeNumber); ok {
			return ep, nil
		}
	}
	return nil, notFound("series %s, %d%s%d not found", q.ShowName, seasonNumber, Delimiter, episodeNumber)
}

func (r *Resolver) byAbsolute(show *provider.Show, q ShowQuery) (*provider.Episode, error) {
	want := q.Absolute.MustGet()

	var found *provider.Episode
	eachEpisode(show, func(ep *provider.Episode) {
		if n, ok := ep.Absolute.Get(); ok && n == want {
			found = ep
		}
	})

	if found == nil {
		return nil, notFound("series %s, %d not found", q.ShowName, want)
	}
	return found, nil
}

func (r *Resolver) byName(show *provider.Show, q ShowQuery) (*provider.Episode, error) {
	title := Clean(q.EpisodeTitle)
	log.Debugf("Searching for episode name %s", title)

	lowered := strings.ToLower(title)
	var found *provider.Episode
	eachEpisode(show, func(ep *provider.Episode) {
		if strings.ToLower(ep.Name) == lowered {
			found = ep
		}
	})
	if found != nil {
		return found, nil
	}

	prepared := Prepare(title)
	eachEpisode(show, func(ep *provider.Episode) {
		ratio := r.Similarity(Prepare(ep.Name), prepared)
		if ratio >= r.Threshold {
			log.Debugf("Matched episode %q with fuzzy ratio of %.4f", ep.Name, ratio)
			found = ep
		}
	})
	if found != nil {
		return found, nil
	}

	if closest, ok := ClosestEpisode(show, prepared); ok {
		log.Debugf("Closest candidate was %02dx%02d %q", closest.SeasonNumber, closest.EpisodeNumber, closest.Name)
	}
	return nil, notFound("series %s/%s not found", q.ShowName, title)
}

func eachEpisode(show *provider.Show, fn func(*provider.Episode)) {
	for i := range show.Seasons {
		season := &show.Seasons[i]
		for j := range season.Episodes {
			fn(&season.Episodes[j])
		}
	}
}
