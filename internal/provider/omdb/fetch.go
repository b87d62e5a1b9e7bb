package omdb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/tvshowinfo/internal/provider"
)

// Series are addressed by the numeric part of their IMDb id, so the shared
// integer show id round-trips through tt-prefixed identifiers.
func imdbID(id int) string {
	return fmt.Sprintf("tt%07d", id)
}

func parseImdbID(value string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(value), "tt"))
	if err != nil {
		return 0
	}
	return n
}

// SearchShows looks a series up by title. OMDb answers a title query with its
// single best match. The API has no language parameter; language is unused.
func (p *Provider) SearchShows(ctx context.Context, name, language string) ([]provider.SearchResult, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(name)
	if title == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "series search requires a title",
		}
	}

	result, err := p.client.SearchByTitle(omdb.QueryData{
		Title:      title,
		SearchType: "series",
	})
	if err != nil {
		mapped := p.mapError(err)
		if provider.IsNotFound(mapped) {
			return nil, nil
		}
		return nil, mapped
	}

	series, ok := asSeries(result)
	if !ok {
		return nil, nil
	}

	id := parseImdbID(series.ImdbID)
	if id == 0 {
		return nil, nil
	}

	return []provider.SearchResult{{
		ID:   id,
		Name: series.Title,
		Year: omdb.FirstYear(series.Year),
	}}, nil
}

// FetchShow loads the series record and then each season up to its
// totalSeasons count. Episode titles are always OMDb's English ones.
func (p *Provider) FetchShow(ctx context.Context, id int, language string) (*provider.Show, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  fmt.Sprintf("invalid series id %d", id),
		}
	}

	result, err := p.client.SearchByImdbID(omdb.QueryData{ImdbID: imdbID(id)})
	if err != nil {
		return nil, p.mapError(err)
	}
	series, ok := asSeries(result)
	if !ok {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  "series not found",
		}
	}

	total, _ := strconv.Atoi(strings.TrimSpace(series.TotalSeasons))
	show := &provider.Show{ID: id, Name: series.Title}

	for number := 1; number <= total; number++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		season, err := p.fetchSeason(id, number)
		if err != nil {
			if provider.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		show.Seasons = append(show.Seasons, season)
	}

	return show, nil
}

func (p *Provider) fetchSeason(id, number int) (provider.Season, error) {
	result, err := p.client.SearchByImdbID(omdb.QueryData{
		ImdbID: imdbID(id),
		Season: strconv.Itoa(number),
	})
	if err != nil {
		return provider.Season{}, p.mapError(err)
	}

	var resp *omdb.SeasonResult
	switch season := result.(type) {
	case omdb.SeasonResult:
		resp = &season
	case *omdb.SeasonResult:
		resp = season
	}
	if resp == nil {
		return provider.Season{}, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  fmt.Sprintf("season %d not found", number),
		}
	}

	episodes := make([]provider.Episode, 0, len(resp.Episodes))
	for _, e := range resp.Episodes {
		n, err := strconv.Atoi(strings.TrimSpace(e.Episode))
		if err != nil {
			continue
		}
		episodes = append(episodes, provider.Episode{
			SeasonNumber:  number,
			EpisodeNumber: n,
			Name:          e.Title,
		})
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].EpisodeNumber < episodes[j].EpisodeNumber
	})

	return provider.Season{Number: number, Episodes: episodes}, nil
}

func asSeries(result any) (omdb.SeriesResult, bool) {
	switch series := result.(type) {
	case omdb.SeriesResult:
		return series, true
	case *omdb.SeriesResult:
		if series != nil {
			return *series, true
		}
	}
	return omdb.SeriesResult{}, false
}
