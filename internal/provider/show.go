package provider

import (
	"sort"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Show is the canonical series record returned by a provider. Seasons and
// the episodes inside them keep the order the provider iterates them in.
type Show struct {
	ID      int
	Name    string
	Seasons []Season
}

// Season groups the episodes that share a season number.
type Season struct {
	Number   int
	Episodes []Episode
}

// Episode is a single episode record. Absolute is the provider's running
// episode count across all seasons and is frequently unset.
type Episode struct {
	SeasonNumber  int
	EpisodeNumber int
	Absolute      mo.Option[int]
	Name          string
}

// Season returns the season with the given number.
func (s *Show) Season(number int) (*Season, bool) {
	for i := range s.Seasons {
		if s.Seasons[i].Number == number {
			return &s.Seasons[i], true
		}
	}
	return nil, false
}

// Episode returns the episode with the given number inside the season.
func (s *Season) Episode(number int) (*Episode, bool) {
	for i := range s.Episodes {
		if s.Episodes[i].EpisodeNumber == number {
			return &s.Episodes[i], true
		}
	}
	return nil, false
}

// EpisodeCount returns the number of episodes across all seasons.
func (s *Show) EpisodeCount() int {
	return lo.SumBy(s.Seasons, func(season Season) int {
		return len(season.Episodes)
	})
}

// GroupEpisodes builds the season list for a flat episode listing. Seasons
// are ordered by number and episodes by number inside each season, which is
// the iteration order TVDB clients have always exposed. Equal numbers keep
// their listing order.
func GroupEpisodes(episodes []Episode) []Season {
	grouped := lo.GroupBy(episodes, func(e Episode) int {
		return e.SeasonNumber
	})

	numbers := lo.Keys(grouped)
	sort.Ints(numbers)

	seasons := make([]Season, 0, len(numbers))
	for _, number := range numbers {
		eps := grouped[number]
		sort.SliceStable(eps, func(i, j int) bool {
			return eps[i].EpisodeNumber < eps[j].EpisodeNumber
		})
		seasons = append(seasons, Season{Number: number, Episodes: eps})
	}
	return seasons
}

// AbsoluteNumber converts a provider absolute number into an optional value.
// Zero and negative numbers are what providers send for "not assigned".
func AbsoluteNumber(n int) mo.Option[int] {
	if n <= 0 {
		return mo.None[int]()
	}
	return mo.Some(n)
}
