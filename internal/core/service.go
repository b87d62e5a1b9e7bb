package core

import (
	"context"
	"fmt"

	"github.com/Digital-Shane/tvshowinfo/internal/log"
	"github.com/Digital-Shane/tvshowinfo/internal/provider"
	"github.com/samber/mo"
)

// AliasSource maps a show name to a provider id. No mapping is not an error.
type AliasSource interface {
	Lookup(showName string) (mo.Option[int], error)
}

// Service runs the whole lookup pipeline: validate, alias, locate, resolve,
// format.
type Service struct {
	Provider provider.Provider
	Aliases  AliasSource
	Resolver *Resolver
}

// NewService wires a service with the default resolver. aliases may be nil.
func NewService(p provider.Provider, aliases AliasSource) *Service {
	return &Service{
		Provider: p,
		Aliases:  aliases,
		Resolver: NewResolver(),
	}
}

// Lookup returns the formatted result line for q.
func (s *Service) Lookup(ctx context.Context, q ShowQuery) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	if q.Mode() == ModeAbsolute && !s.Provider.Capabilities().Supports(provider.FeatureAbsoluteNumbers) {
		log.Debugf("provider %s does not publish absolute episode numbers", s.Provider.Name())
	}

	id := mo.None[int]()
	if s.Aliases != nil {
		found, err := s.Aliases.Lookup(q.ShowName)
		if err != nil {
			return "", fmt.Errorf("alias lookup: %w", err)
		}
		id = found
	}

	locator := &Locator{Provider: s.Provider}
	show, err := locator.Locate(ctx, q.ShowName, id, q.language())
	if err != nil {
		return "", err
	}

	resolver := s.Resolver
	if resolver == nil {
		resolver = NewResolver()
	}
	ep, err := resolver.Resolve(show, q)
	if err != nil {
		return "", err
	}

	log.WithField("mode", q.Mode()).Debugf("Resolved %02dx%02d %q", ep.SeasonNumber, ep.EpisodeNumber, ep.Name)
	return FormatResult(q.ShowName, ep, q.ForceUnderscores), nil
}
