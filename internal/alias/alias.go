// Package alias reads the naming exception table that maps alternate show
// titles to provider ids.
//
// Each line has the form
//
//	<id>:'alias one','alias two',...
//
// Aliases are single-quoted; a quote inside an alias is escaped with a
// backslash. Lines without an alias list are ignored.
package alias

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Digital-Shane/tvshowinfo/internal/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/afero"
)

// FileName is the table's file name inside each search directory.
const FileName = "exceptions.txt"

// DefaultPath is the colon-separated directory list searched for FileName.
const DefaultPath = "/etc/tvshowinfo:/etc/vdr/plugins/tvshowinfo"

// Entry is one line of the table.
type Entry struct {
	ID      int
	Aliases []string
}

// Table is the parsed file in line order.
type Table []Entry

var escaped = regexp.MustCompile(`\\(.)`)

// Parse reads a table. Lines whose id is not an integer are skipped with a
// warning.
func Parse(r io.Reader) (Table, error) {
	var table Table

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		idPart, aliasPart, _ := strings.Cut(line, ":")
		if aliasPart == "" {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(idPart))
		if err != nil {
			log.Debugf("%s line %d: invalid show id %q", FileName, lineNo, idPart)
			continue
		}

		table = append(table, Entry{ID: id, Aliases: parseAliases(aliasPart)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read alias table: %w", err)
	}

	return table, nil
}

// parseAliases extracts every quoted alias. A quote preceded by a backslash
// does not close an alias.
func parseAliases(s string) []string {
	var aliases []string
	for i := 0; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}

		closing := -1
		for j := i + 1; j < len(s); j++ {
			if s[j] == '\'' && s[j-1] != '\\' {
				closing = j
				break
			}
		}
		if closing < 0 {
			continue
		}

		aliases = append(aliases, escaped.ReplaceAllString(s[i+1:closing], "$1"))
		i = closing
	}
	return aliases
}

// Lookup returns the id of the first entry listing name. The comparison is
// exact and case-sensitive.
func (t Table) Lookup(name string) mo.Option[int] {
	entry, ok := lo.Find(t, func(e Entry) bool {
		return lo.Contains(e.Aliases, name)
	})
	if !ok {
		return mo.None[int]()
	}
	return mo.Some(entry.ID)
}

// FindFile returns the first existing dir/name for the colon-separated
// directory list, or name itself when no directory has it.
func FindFile(fs afero.Fs, path, name string) string {
	if path == "" {
		path = DefaultPath
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if abs, err := filepath.Abs(candidate); err == nil {
			candidate = abs
		}
		if ok, _ := afero.Exists(fs, candidate); ok {
			return candidate
		}
	}
	return name
}

// Load finds and parses the table. A missing file is an empty table.
func Load(fs afero.Fs, path, name string) (Table, error) {
	file := FindFile(fs, path, name)

	f, err := fs.Open(file)
	if err != nil {
		if ok, _ := afero.Exists(fs, file); !ok {
			log.Debugf("no alias table found (%s)", file)
			return nil, nil
		}
		return nil, fmt.Errorf("open alias table: %w", err)
	}
	defer f.Close()

	log.Debugf("using alias table %s", file)
	return Parse(f)
}

// Source loads the table on every lookup so edits apply to the next run
// without any cache.
type Source struct {
	Fs   afero.Fs
	Path string
	Name string
}

// NewSource returns a Source searching path for the default file name.
func NewSource(fs afero.Fs, path string) *Source {
	return &Source{Fs: fs, Path: path, Name: FileName}
}

// Lookup loads the table and looks name up in it.
func (s *Source) Lookup(name string) (mo.Option[int], error) {
	file := s.Name
	if file == "" {
		file = FileName
	}

	table, err := Load(s.Fs, s.Path, file)
	if err != nil {
		return mo.None[int](), err
	}

	id := table.Lookup(name)
	if v, ok := id.Get(); ok {
		log.Debugf("show %q maps to id %d", name, v)
	}
	return id, nil
}
