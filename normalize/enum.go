package normalize

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// fuzzyThreshold is the Jaro-Winkler score above which a near miss is
// taken as its label.
const fuzzyThreshold = 0.92

// Label is one canonical value of an enum field.
type Label struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func enumExact(s string, opts Options) (any, Confidence, bool) {
	key := foldKey(s)
	for _, l := range opts.Labels {
		if foldKey(l.Name) == key {
			return l.Name, Exact, true
		}
		for _, a := range l.Aliases {
			if foldKey(a) == key {
				return l.Name, Exact, true
			}
		}
	}

	return nil, Missing, false
}

func enumFuzzy(s string, opts Options) (any, Confidence, bool) {
	key := foldKey(s)
	best, score := "", 0.0
	for _, l := range opts.Labels {
		for _, cand := range append([]string{l.Name}, l.Aliases...) {
			if sc := matchr.JaroWinkler(key, foldKey(cand), false); sc > score {
				best, score = l.Name, sc
			}
		}
	}
	if score < fuzzyThreshold {
		return nil, Missing, false
	}

	return best, Inferred, true
}

// enumVerbatim keeps unknown labels rather than dropping them.
func enumVerbatim(s string, _ Options) (any, Confidence, bool) {
	return s, Inferred, s != ""
}
