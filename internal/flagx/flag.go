// Package flagx lets several components parse their own subset of the
// command line without tripping over flags owned by others.
package flagx

import (
	"flag"
	"strings"
)

// Spec names the flags a component owns. Value flags consume the following
// argument unless it looks like another flag; bool flags never do.
type Spec struct {
	Values []string
	Bools  []string
}

func flagName(arg string) string {
	return strings.TrimLeft(arg, "-")
}

// Filter returns the arguments belonging to the flags in spec, keeping their
// order. Both "-name" and "--name" spellings are recognised, as well as the
// "-name=value" form.
func (s Spec) Filter(args []string) []string {
	values := make(map[string]struct{}, len(s.Values))
	for _, f := range s.Values {
		values[flagName(f)] = struct{}{}
	}
	bools := make(map[string]struct{}, len(s.Bools))
	for _, f := range s.Bools {
		bools[flagName(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(flagName(arg), "=")
		if _, ok := bools[name]; ok {
			filtered = append(filtered, arg)
			continue
		}
		if _, ok := values[name]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// FilterArgs is Spec{Values: allowed}.Filter(args).
func FilterArgs(args []string, allowed []string) []string {
	return Spec{Values: allowed}.Filter(args)
}

// ConfigFile extracts the JSON config path given with -c or -config.
// The last occurrence wins; an empty string means no file was requested.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
