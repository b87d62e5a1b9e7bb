package tmdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/Digital-Shane/tvshowinfo/internal/provider"
)

// SearchShows searches TMDB for TV shows and keeps TMDB's ranking order
func (p *Provider) SearchShows(ctx context.Context, name, language string) ([]provider.SearchResult, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	options := map[string]string{
		"language": p.getLanguage(language),
	}

	// Apply rate limiting
	if err := p.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}

	results, err := p.client.SearchTv(name, options)
	if err != nil {
		return nil, p.mapError(err)
	}
	if results == nil {
		return nil, nil
	}

	hits := make([]provider.SearchResult, 0, len(results.Results))
	for _, r := range results.Results {
		if r.ID == 0 {
			continue
		}
		hits = append(hits, provider.SearchResult{
			ID:   r.ID,
			Name: r.Name,
			Year: firstAirYear(r.FirstAirDate),
		})
	}

	return hits, nil
}

// FetchShow loads the show and every season listed for it. TMDB serves one
// season per request, so each season goes through the rate limiter.
func (p *Provider) FetchShow(ctx context.Context, id int, language string) (*provider.Show, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	options := map[string]string{
		"language": p.getLanguage(language),
	}

	if err := p.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}
	tv, err := p.client.GetTvInfo(id, options)
	if err != nil {
		return nil, p.mapError(err)
	}
	if tv == nil {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  fmt.Sprintf("show %d not found", id),
			Retry:    false,
		}
	}

	show := &provider.Show{ID: id, Name: tv.Name}
	for _, s := range tv.Seasons {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.rateLimiter.wait(ctx); err != nil {
			return nil, err
		}

		season, err := p.client.GetTvSeasonInfo(id, s.SeasonNumber, options)
		if err != nil {
			return nil, p.mapError(err)
		}
		if season == nil {
			continue
		}

		episodes := make([]provider.Episode, 0, len(season.Episodes))
		for _, e := range season.Episodes {
			episodes = append(episodes, provider.Episode{
				SeasonNumber:  s.SeasonNumber,
				EpisodeNumber: e.EpisodeNumber,
				Name:          e.Name,
			})
		}
		show.Seasons = append(show.Seasons, provider.Season{
			Number:   s.SeasonNumber,
			Episodes: episodes,
		})
	}

	return show, nil
}

// Helper functions

func (p *Provider) ready(ctx context.Context) error {
	if p.client == nil || p.apiKey == "" {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotConfigured,
			Message:  "provider not configured",
			Retry:    false,
		}
	}
	return ctx.Err()
}

func (p *Provider) getLanguage(language string) string {
	if strings.TrimSpace(language) != "" {
		return provider.LocaleCode(language)
	}
	return p.language
}

func firstAirYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}
