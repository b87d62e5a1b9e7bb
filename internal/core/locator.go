package core

import (
	"context"
	"fmt"

	"github.com/Digital-Shane/tvshowinfo/internal/log"
	"github.com/Digital-Shane/tvshowinfo/internal/provider"
	"github.com/samber/mo"
)

// Locator finds the one show record a lookup works on.
type Locator struct {
	Provider provider.Provider
}

// Locate fetches the show by id when an alias matched. Otherwise it searches
// by name and trusts the provider's first hit; there is no disambiguation.
func (l *Locator) Locate(ctx context.Context, name string, id mo.Option[int], language string) (*provider.Show, error) {
	if showID, ok := id.Get(); ok {
		log.Debugf("Searching for show %d", showID)
		return l.fetch(ctx, showID, language)
	}

	log.Debugf("Searching for show %s", name)
	results, err := l.Provider.SearchShows(ctx, name, language)
	if err != nil {
		return nil, upstream(err)
	}
	if len(results) == 0 {
		return nil, notFound("series %s not found", name)
	}

	first := results[0]
	log.Debugf("Using search result %d %q (%d results)", first.ID, first.Name, len(results))

	return l.fetch(ctx, first.ID, language)
}

func (l *Locator) fetch(ctx context.Context, id int, language string) (*provider.Show, error) {
	show, err := l.Provider.FetchShow(ctx, id, language)
	if err != nil {
		return nil, upstream(err)
	}
	if show == nil {
		return nil, upstream(fmt.Errorf("provider %s returned no record for show %d", l.Provider.Name(), id))
	}

	log.Debugf("Loaded show %d %q with %d episodes", id, show.Name, show.EpisodeCount())
	return show, nil
}
