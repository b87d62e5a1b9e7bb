package core

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/tvshowinfo/internal/provider"
)

const (
	// Prefix opens every result line.
	Prefix = "Serien"
	// Delimiter separates the fields of a result line.
	Delimiter = "~"
)

var germanTransliteration = strings.NewReplacer(
	"ä", "ae",
	"Ä", "Ae",
	"ü", "ue",
	"Ü", "Ue",
	"ö", "oe",
	"Ö", "Oe",
	"ß", "ss",
)

// FormatResult renders the result line, for example
// "Serien~The Wire~01x01 - The Target". The show name is printed as given.
// Spaces become underscores before umlauts are transliterated.
func FormatResult(showName string, ep *provider.Episode, forceUnderscores bool) string {
	out := fmt.Sprintf("%s%s%s%s%02dx%02d - %s",
		Prefix, Delimiter, showName, Delimiter, ep.SeasonNumber, ep.EpisodeNumber, ep.Name)

	if forceUnderscores {
		out = strings.ReplaceAll(out, " ", "_")
	}
	return germanTransliteration.Replace(out)
}
