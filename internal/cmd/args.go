package cmd

import "strings"

// legacyFlags are the abbreviated flags older epgsearch setups pass.
// pflag would read the single-dash spellings as shorthand clusters.
var legacyFlags = map[string]string{
	"-sn":    "--seasonnumber",
	"-en":    "--episodenumber",
	"-oen":   "--overallepisodenumber",
	"-lang":  "--language",
	"-fus":   "--forceunderscores",
	"--sn":   "--seasonnumber",
	"--en":   "--episodenumber",
	"--oen":  "--overallepisodenumber",
	"--lang": "--language",
	"--fus":  "--forceunderscores",
}

// NormalizeArgs rewrites legacy flags to their long form. Values that
// follow a flag and everything after "--" are left alone.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	takesValue := false
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if takesValue {
			out = append(out, arg)
			takesValue = false
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if long, ok := legacyFlags[name]; ok {
			if hasValue {
				arg = long + "=" + value
			} else {
				arg = long
				takesValue = long != "--forceunderscores"
			}
		} else if !hasValue && valueFlags[arg] {
			takesValue = true
		}
		out = append(out, arg)
	}
	return out
}

// valueFlags are the flags whose value is the next argument.
var valueFlags = map[string]bool{
	"-s": true, "--show": true,
	"-e": true, "--episode": true,
	"--seasonnumber": true, "--episodenumber": true, "--overallepisodenumber": true,
	"--language": true, "--provider": true, "--alias-path": true,
}
