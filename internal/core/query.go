package core

import (
	"strings"
	"unicode/utf8"

	"github.com/Digital-Shane/tvshowinfo/internal/provider"
	"github.com/samber/mo"
)

// Mode is the episode resolution strategy a query selects.
type Mode int

const (
	ModeName Mode = iota
	ModeExact
	ModeAbsolute
)

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeAbsolute:
		return "absolute"
	default:
		return "name"
	}
}

// ShowQuery is one lookup request. Numbers are optional; a present zero is a
// real value (season 0 holds specials).
type ShowQuery struct {
	ShowName         string
	EpisodeTitle     string
	Season           mo.Option[int]
	Episode          mo.Option[int]
	Absolute         mo.Option[int]
	Language         string
	ForceUnderscores bool
}

// Mode picks the strategy: season and episode together win, then the
// absolute number, then the title.
func (q ShowQuery) Mode() Mode {
	if q.Season.IsPresent() && q.Episode.IsPresent() {
		return ModeExact
	}
	if q.Absolute.IsPresent() {
		return ModeAbsolute
	}
	return ModeName
}

// Validate runs before any provider access.
func (q ShowQuery) Validate() error {
	if utf8.RuneCountInString(q.ShowName) <= 1 {
		return validationError("show name %q is too short", q.ShowName)
	}
	if utf8.RuneCountInString(q.EpisodeTitle) <= 1 && !q.Absolute.IsPresent() {
		return validationError("episode name %q is too short", q.EpisodeTitle)
	}
	if _, err := provider.ParseLanguage(q.Language); err != nil {
		return validationError("%v", err)
	}
	return nil
}

// language returns the requested language or the default.
func (q ShowQuery) language() string {
	if l := strings.TrimSpace(q.Language); l != "" {
		return l
	}
	return provider.DefaultLanguage
}
