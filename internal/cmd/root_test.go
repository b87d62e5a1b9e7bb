package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Digital-Shane/tvshowinfo/internal/core"
	"github.com/Digital-Shane/tvshowinfo/internal/provider"
	"github.com/Digital-Shane/tvshowinfo/internal/provider/catalog"
	"github.com/google/go-cmp/cmp"
	"github.com/samber/mo"
	"github.com/spf13/afero"
)

type fakeProvider struct {
	searchErr error

	searched  []string
	fetched   []int
	languages []string
}

func (f *fakeProvider) Name() string        { return "fake" }
func (f *fakeProvider) Description() string { return "fake provider" }
func (f *fakeProvider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		Features: []provider.Feature{provider.FeatureSearch, provider.FeatureFetchByID, provider.FeatureAbsoluteNumbers},
	}
}
func (f *fakeProvider) ConfigSchema() provider.ConfigSchema           { return provider.ConfigSchema{} }
func (f *fakeProvider) Configure(config map[string]interface{}) error { return nil }

func (f *fakeProvider) SearchShows(ctx context.Context, name, language string) ([]provider.SearchResult, error) {
	f.searched = append(f.searched, name)
	f.languages = append(f.languages, language)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []provider.SearchResult{{ID: 79126, Name: "The Wire", Year: "2002"}}, nil
}

func (f *fakeProvider) FetchShow(ctx context.Context, id int, language string) (*provider.Show, error) {
	f.fetched = append(f.fetched, id)
	episodes := []provider.Episode{
		{SeasonNumber: 1, EpisodeNumber: 1, Absolute: mo.Some(1), Name: "The Target"},
		{SeasonNumber: 1, EpisodeNumber: 2, Absolute: mo.Some(2), Name: "The Detail"},
		{SeasonNumber: 1, EpisodeNumber: 3, Absolute: mo.Some(3), Name: "The Buys"},
		{SeasonNumber: 2, EpisodeNumber: 1, Absolute: mo.Some(14), Name: "Ebb Tide"},
	}
	return &provider.Show{ID: id, Name: "The Wire", Seasons: provider.GroupEpisodes(episodes)}, nil
}

type harness struct {
	name   string
	fake   *fakeProvider
	fs     afero.Fs
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{name: "tvdb", fake: &fakeProvider{}, fs: afero.NewMemMapFs()}
	return h
}

func (h *harness) run(t *testing.T, args ...string) int {
	t.Helper()
	reg := provider.NewRegistry()
	if err := reg.Register(h.name, h.fake, 100); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	args = append([]string{"--provider", h.name, "--alias-path", "/etc/tvshowinfo"}, args...)
	return Run(context.Background(), args, Options{
		Registry: reg,
		Fs:       h.fs,
		Stdout:   &h.stdout,
		Stderr:   &h.stderr,
	})
}

func TestRunByEpisodeTitle(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, "-s", "The Wire", "-e", "the detail")
	if code != core.ExitOK {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, core.ExitOK, h.stderr.String())
	}
	if got, want := h.stdout.String(), "Serien~The Wire~01x02 - The Detail\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"en"}, h.fake.languages); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}
}

func TestRunLegacyFlags(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, "-s", "The Wire", "-e", "Buys", "-sn", "1", "-en", "3", "-fus", "-lang=de")
	if code != core.ExitOK {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, core.ExitOK, h.stderr.String())
	}
	if got, want := h.stdout.String(), "Serien~The_Wire~01x03_-_The_Buys\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"de"}, h.fake.languages); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAbsoluteNumber(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, "-s", "The Wire", "-oen", "14")
	if code != core.ExitOK {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, core.ExitOK, h.stderr.String())
	}
	if got, want := h.stdout.String(), "Serien~The Wire~02x01 - Ebb Tide\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunUsesAliasTable(t *testing.T) {
	h := newHarness(t)
	if err := afero.WriteFile(h.fs, "/etc/tvshowinfo/exceptions.txt", []byte("1234:'Foo','Bar'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code := h.run(t, "-s", "Bar", "-e", "The Target")
	if code != core.ExitOK {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, core.ExitOK, h.stderr.String())
	}
	if got, want := h.stdout.String(), "Serien~Bar~01x01 - The Target\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if len(h.fake.searched) != 0 {
		t.Errorf("searched = %v, want no search for an aliased show", h.fake.searched)
	}
	if diff := cmp.Diff([]int{1234}, h.fake.fetched); diff != "" {
		t.Errorf("fetched mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAliasTableOnlyForTVDB(t *testing.T) {
	h := newHarness(t)
	h.name = "tmdb"
	if err := afero.WriteFile(h.fs, "/etc/tvshowinfo/exceptions.txt", []byte("1234:'Foo','Bar'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code := h.run(t, "-s", "Bar", "-e", "The Target")
	if code != core.ExitOK {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, core.ExitOK, h.stderr.String())
	}
	if diff := cmp.Diff([]string{"Bar"}, h.fake.searched); diff != "" {
		t.Errorf("searched mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{79126}, h.fake.fetched); diff != "" {
		t.Errorf("fetched mismatch (-want +got):\n%s", diff)
	}
}

func TestRunProviderAliasTable(t *testing.T) {
	t.Setenv("TVSHOWINFO_TMDB_ALIAS_FILE", "tmdb-exceptions.txt")

	h := newHarness(t)
	h.name = "tmdb"
	if err := afero.WriteFile(h.fs, "/etc/tvshowinfo/exceptions.txt", []byte("1234:'Bar'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(h.fs, "/etc/tvshowinfo/tmdb-exceptions.txt", []byte("1438:'Bar'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code := h.run(t, "-s", "Bar", "-e", "The Target")
	if code != core.ExitOK {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, core.ExitOK, h.stderr.String())
	}
	if diff := cmp.Diff([]int{1438}, h.fake.fetched); diff != "" {
		t.Errorf("fetched mismatch (-want +got):\n%s", diff)
	}
}

func TestRunLogsRetryHint(t *testing.T) {
	h := newHarness(t)
	h.fake.searchErr = &provider.ProviderError{
		Provider:   "fake",
		Code:       provider.CodeUnavailable,
		Message:    "down",
		Retry:      true,
		RetryAfter: 30,
	}

	if code := h.run(t, "-v", "-s", "The Wire", "-e", "The Target"); code != core.ExitUpstream {
		t.Fatalf("exit code = %d, want %d", code, core.ExitUpstream)
	}
	if !strings.Contains(h.stderr.String(), "retry_after=30") {
		t.Errorf("stderr = %q, want retry_after=30", h.stderr.String())
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		searchErr error
		want      int
		noCalls   bool
	}{
		{
			name: "episode not found",
			args: []string{"-s", "The Wire", "-e", "ZZZNoSuchEpisode"},
			want: core.ExitNotFound,
		},
		{
			name:    "show name too short",
			args:    []string{"-s", "W", "-e", "The Target"},
			want:    core.ExitValidation,
			noCalls: true,
		},
		{
			name:    "missing show",
			args:    []string{"-e", "The Target"},
			want:    core.ExitValidation,
			noCalls: true,
		},
		{
			name:    "no lookup mode",
			args:    []string{"-s", "The Wire"},
			want:    core.ExitValidation,
			noCalls: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"-s", "The Wire", "--bogus"},
			want:    core.ExitValidation,
			noCalls: true,
		},
		{
			name: "upstream failure",
			args: []string{"-s", "The Wire", "-e", "The Target"},
			searchErr: &provider.ProviderError{
				Provider: "fake",
				Code:     provider.CodeUnavailable,
				Message:  "down",
			},
			want: core.ExitUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.fake.searchErr = tt.searchErr

			if code := h.run(t, tt.args...); code != tt.want {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.want, h.stderr.String())
			}
			if h.stdout.Len() != 0 {
				t.Errorf("stdout = %q, want nothing", h.stdout.String())
			}
			if tt.noCalls && (len(h.fake.searched) != 0 || len(h.fake.fetched) != 0) {
				t.Errorf("provider called: searched %v fetched %v", h.fake.searched, h.fake.fetched)
			}
		})
	}
}

func TestRunVerboseWritesDebugOutput(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, "-v", "-s", "The Wire", "-e", "ZZZNoSuchEpisode")
	if code != core.ExitNotFound {
		t.Fatalf("exit code = %d, want %d", code, core.ExitNotFound)
	}
	if !strings.Contains(h.stderr.String(), "level=debug") {
		t.Errorf("stderr = %q, want debug output", h.stderr.String())
	}
}

func TestRunQuietWithoutVerbose(t *testing.T) {
	h := newHarness(t)

	h.run(t, "-s", "The Wire", "-e", "ZZZNoSuchEpisode")
	if h.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want nothing", h.stderr.String())
	}
}

func TestRunBuiltinProviderWithoutKey(t *testing.T) {
	t.Setenv("TVSHOWINFO_TVDB_API_KEY", "")

	reg := provider.NewRegistry()
	if err := catalog.LoadBuiltinProviders(reg); err != nil {
		t.Fatalf("LoadBuiltinProviders() error = %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-s", "The Wire", "-e", "The Target", "--alias-path", "/nowhere"}, Options{
		Registry: reg,
		Fs:       afero.NewMemMapFs(),
		Stdout:   &stdout,
		Stderr:   &stderr,
	})
	if code != core.ExitValidation {
		t.Errorf("exit code = %d, want %d", code, core.ExitValidation)
	}
	if !strings.Contains(stderr.String(), "api_key is required") {
		t.Errorf("stderr = %q, want missing key error", stderr.String())
	}
}

func TestSelectProviderWrapsProviderErrors(t *testing.T) {
	reg := provider.NewRegistry()
	if err := reg.Register("fake", &failingProvider{}, 1); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadTestConfig("fake")
	if err != nil {
		t.Fatal(err)
	}

	_, err = selectProvider(reg, cfg)
	if !errors.Is(err, core.ErrUpstream) {
		t.Errorf("selectProvider() error = %v, want ErrUpstream", err)
	}
	if got := core.ExitCode(err); got != core.ExitUpstream {
		t.Errorf("ExitCode() = %d, want %d", got, core.ExitUpstream)
	}
}

func TestSelectProviderUnknown(t *testing.T) {
	cfg, err := loadTestConfig("nope")
	if err != nil {
		t.Fatal(err)
	}
	_, err = selectProvider(provider.NewRegistry(), cfg)
	if err == nil || core.ExitCode(err) != core.ExitValidation {
		t.Errorf("selectProvider() error = %v, want a configuration error", err)
	}
}

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{
			in:   []string{"-s", "Lost", "-sn", "1", "-en", "2"},
			want: []string{"-s", "Lost", "--seasonnumber", "1", "--episodenumber", "2"},
		},
		{
			in:   []string{"-oen=7", "-lang=de", "-fus"},
			want: []string{"--overallepisodenumber=7", "--language=de", "--forceunderscores"},
		},
		{
			in:   []string{"-s", "-sn", "-e", "-en"},
			want: []string{"-s", "-sn", "-e", "-en"},
		},
		{
			in:   []string{"-fus", "-s", "Lost", "-e", "Pilot"},
			want: []string{"--forceunderscores", "-s", "Lost", "-e", "Pilot"},
		},
		{
			in:   []string{"--sn", "2", "--en=5", "--lang", "fr", "--fus"},
			want: []string{"--seasonnumber", "2", "--episodenumber=5", "--language", "fr", "--forceunderscores"},
		},
		{
			in:   []string{"--", "-sn"},
			want: []string{"--", "-sn"},
		},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, NormalizeArgs(tt.in)); diff != "" {
			t.Errorf("NormalizeArgs(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
