package tvdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Digital-Shane/tvshowinfo/internal/log"
	"github.com/Digital-Shane/tvshowinfo/internal/provider"
	tvdbapi "github.com/dashotv/tvdb"
	"github.com/dashotv/tvdb/openapi/models/operations"
	"github.com/dashotv/tvdb/openapi/models/shared"
	"github.com/samber/lo"
)

const (
	providerName = "tvdb"

	// TVDB v4 pages episode listings in blocks of this size.
	pageSize = 500
	maxPages = 40

	// Aired order, the numbering schedulers and guides use.
	seasonType = "default"
)

// TVDBClient captures the dashotv client methods used by this provider.
type TVDBClient interface {
	GetSearchResults(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error)
	GetSeriesExtended(id float64, meta *operations.GetSeriesExtendedQueryParamMeta, short *bool) (*tvdbapi.GetSeriesExtendedResponse, error)
	GetSeriesEpisodes(request operations.GetSeriesEpisodesRequest) (*tvdbapi.GetSeriesEpisodesResponse, error)
	GetSeriesSeasonEpisodesTranslated(request operations.GetSeriesSeasonEpisodesTranslatedRequest) (*tvdbapi.GetSeriesSeasonEpisodesTranslatedResponse, error)
}

// Provider implements the provider.Provider interface for TVDB.
type Provider struct {
	client TVDBClient
	apiKey string
	login  func(apiKey string) (TVDBClient, error)
	config map[string]interface{}
}

// New creates a new TVDB provider instance.
func New() *Provider {
	return &Provider{
		config: make(map[string]interface{}),
		login: func(apiKey string) (TVDBClient, error) {
			return tvdbapi.Login(apiKey)
		},
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "TheTVDB (TVDB) provided metadata"
}

// Capabilities returns what this provider can handle.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		Features: []provider.Feature{
			provider.FeatureSearch,
			provider.FeatureFetchByID,
			provider.FeatureAbsoluteNumbers,
		},
		RequiresAuth: true,
		Priority:     100,
	}
}

// ConfigSchema returns the configuration schema for this provider.
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "api_key",
				DisplayName: "API Key",
				Type:        provider.ConfigFieldTypePassword,
				Required:    true,
				Description: "TVDB API key. Generate one from your thetvdb.com account dashboard",
				Sensitive:   true,
				Validation: &provider.ConfigFieldValidation{
					MinLength: 8,
					MaxLength: 128,
					Pattern:   "^[A-Za-z0-9-]+$",
				},
			},
		},
	}
}

// Configure applies configuration to the provider and logs in.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok {
		return fmt.Errorf("api_key is required")
	}

	apiKey := strings.TrimSpace(apiKeyRaw)
	if apiKey == "" {
		return fmt.Errorf("api_key is required")
	}

	client, err := p.login(apiKey)
	if err != nil {
		return p.mapError(err)
	}

	p.apiKey = apiKey
	p.config = config
	p.client = client

	return nil
}

// SearchShows runs a free-text series search and returns the hits in TVDB's
// ranking order. Non-series hits are skipped. The language narrows the
// search to series translated into it.
func (p *Provider) SearchShows(ctx context.Context, name, language string) ([]provider.SearchResult, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	query := strings.TrimSpace(name)
	if query == "" {
		return nil, &provider.ProviderError{Provider: providerName, Code: provider.CodeInvalidRequest, Message: "series search requires a title", Retry: false}
	}

	req := operations.GetSearchResultsRequest{Query: &query}
	typeSeries := "series"
	req.Type = &typeSeries
	if lang := provider.ThreeLetterCode(language); lang != "" {
		req.Language = &lang
	}

	resp, err := p.client.GetSearchResults(req)
	if err != nil {
		return nil, p.mapError(err)
	}
	if resp == nil {
		return nil, nil
	}

	results := make([]provider.SearchResult, 0, len(resp.Data))
	for _, candidate := range resp.Data {
		r := toSearchResult(candidate)
		if r.ID == 0 {
			continue
		}
		if t := pointerToString(candidate.Type); t != "" && !strings.EqualFold(t, "series") {
			continue
		}
		results = append(results, r)
	}

	return results, nil
}

// FetchShow loads a series and its complete aired-order episode listing with
// episode names in the requested language where TVDB has them.
func (p *Provider) FetchShow(ctx context.Context, id int, language string) (*provider.Show, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, &provider.ProviderError{Provider: providerName, Code: provider.CodeInvalidRequest, Message: fmt.Sprintf("invalid series id %d", id), Retry: false}
	}

	series, err := p.client.GetSeriesExtended(float64(id), nil, nil)
	if err != nil {
		return nil, p.mapError(err)
	}
	if series == nil || series.Data == nil {
		return nil, &provider.ProviderError{Provider: providerName, Code: provider.CodeNotFound, Message: fmt.Sprintf("series %d not found", id), Retry: false}
	}

	episodes, err := p.fetchEpisodes(ctx, id, language)
	if err != nil {
		return nil, err
	}

	return &provider.Show{
		ID:      id,
		Name:    pointerToString(series.Data.Name),
		Seasons: provider.GroupEpisodes(episodes),
	}, nil
}

// episodePage loads one page of a series' episode listing.
type episodePage func(page int64) ([]shared.EpisodeBaseRecord, error)

// fetchEpisodes prefers the translated listing. Untranslated episodes keep
// their default name; a missing translation falls back to the default
// listing.
func (p *Provider) fetchEpisodes(ctx context.Context, id int, language string) ([]provider.Episode, error) {
	lang := provider.ThreeLetterCode(language)
	if lang == "" {
		return p.collectEpisodes(ctx, id, p.defaultPage(id))
	}

	translated, err := p.collectEpisodes(ctx, id, p.translatedPage(id, lang))
	switch {
	case provider.IsNotFound(err):
		log.Debugf("No %s episode listing for series %d, using the default", lang, id)
		return p.collectEpisodes(ctx, id, p.defaultPage(id))
	case err != nil:
		return nil, err
	case len(translated) == 0:
		return p.collectEpisodes(ctx, id, p.defaultPage(id))
	}

	if !lo.SomeBy(translated, func(e provider.Episode) bool { return e.Name == "" }) {
		return translated, nil
	}

	fallback, err := p.collectEpisodes(ctx, id, p.defaultPage(id))
	if err != nil {
		return nil, err
	}
	return fillNames(translated, fallback), nil
}

func (p *Provider) collectEpisodes(ctx context.Context, id int, fetch episodePage) ([]provider.Episode, error) {
	var episodes []provider.Episode
	for page := int64(0); page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := fetch(page)
		if err != nil {
			return nil, err
		}
		for _, e := range records {
			episodes = append(episodes, toEpisode(e))
		}
		if len(records) < pageSize {
			return episodes, nil
		}
	}

	return nil, &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeUnknown,
		Message:  fmt.Sprintf("episode listing of series %d exceeds %d pages", id, maxPages),
		Retry:    false,
	}
}

func (p *Provider) defaultPage(id int) episodePage {
	return func(page int64) ([]shared.EpisodeBaseRecord, error) {
		resp, err := p.client.GetSeriesEpisodes(operations.GetSeriesEpisodesRequest{
			ID:         float64(id),
			Page:       page,
			SeasonType: seasonType,
		})
		if err != nil {
			return nil, p.mapError(err)
		}
		if resp == nil || resp.Data == nil {
			return nil, nil
		}
		return resp.Data.Episodes, nil
	}
}

func (p *Provider) translatedPage(id int, lang string) episodePage {
	return func(page int64) ([]shared.EpisodeBaseRecord, error) {
		resp, err := p.client.GetSeriesSeasonEpisodesTranslated(operations.GetSeriesSeasonEpisodesTranslatedRequest{
			ID:         float64(id),
			Lang:       lang,
			Page:       page,
			SeasonType: seasonType,
		})
		if err != nil {
			return nil, p.mapError(err)
		}
		if resp == nil || resp.Data == nil || resp.Data.Series == nil {
			return nil, nil
		}
		return resp.Data.Series.Episodes, nil
	}
}

// fillNames copies default names onto translated episodes that have none.
func fillNames(translated, fallback []provider.Episode) []provider.Episode {
	type key struct{ season, episode int }
	names := make(map[key]string, len(fallback))
	for _, e := range fallback {
		names[key{e.SeasonNumber, e.EpisodeNumber}] = e.Name
	}
	for i, e := range translated {
		if e.Name == "" {
			translated[i].Name = names[key{e.SeasonNumber, e.EpisodeNumber}]
		}
	}
	return translated
}

func (p *Provider) ready(ctx context.Context) error {
	if p.client == nil || p.apiKey == "" {
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeNotConfigured, Message: "provider not configured", Retry: false}
	}
	return ctx.Err()
}

func toEpisode(e shared.EpisodeBaseRecord) provider.Episode {
	return provider.Episode{
		SeasonNumber:  int(pointerToInt64(e.SeasonNumber)),
		EpisodeNumber: int(pointerToInt64(e.Number)),
		Absolute:      provider.AbsoluteNumber(int(pointerToInt64(e.AbsoluteNumber))),
		Name:          pointerToString(e.Name),
	}
}

func toSearchResult(result shared.SearchResult) provider.SearchResult {
	id := parseInt64(pointerToString(result.TvdbID))
	if id == 0 {
		id = parseInt64(strings.TrimPrefix(pointerToString(result.ID), "series-"))
	}

	name := firstNonEmptyString(pointerToString(result.Name), pointerToString(result.NameTranslated), pointerToString(result.Title))
	year := pointerToString(result.Year)

	return provider.SearchResult{ID: int(id), Name: name, Year: year}
}

func pointerToString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func pointerToInt64(value *int64) int64 {
	if value == nil {
		return 0
	}
	return *value
}

func parseInt64(value string) int64 {
	parsed, _ := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	return parsed
}

func firstNonEmptyString(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "401"), strings.Contains(lower, "unauthorized"), strings.Contains(lower, "apikey"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeAuthFailed, Message: "TVDB authentication failed: " + msg, Retry: false}
	case strings.Contains(lower, "429"), strings.Contains(lower, "too many"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeRateLimited, Message: msg, Retry: true, RetryAfter: 5}
	case strings.Contains(lower, "404"), strings.Contains(lower, "not found"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeNotFound, Message: msg, Retry: false}
	case strings.Contains(lower, "503"), strings.Contains(lower, "unavailable"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeUnavailable, Message: msg, Retry: true, RetryAfter: 30}
	default:
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeUnknown, Message: msg, Retry: false}
	}
}
