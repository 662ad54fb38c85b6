package sidebar

import (
	"regexp"
	"sort"
	"strconv"
)

// LandingPage is the filename treated as a section's home page. It always
// sorts first regardless of any digits in surrounding entries.
const LandingPage = "index.md"

// IgnoreArtifact is the filesystem marker file excluded from sidebar
// generation entirely.
const IgnoreArtifact = ".DS_Store"

const (
	orderKeyLanding  = 0
	orderKeySentinel = 999
	// orderKeyOverflow is assigned when a digit run exceeds the int64 range.
	// It places pathological names after every well-formed numeric prefix
	// and after the no-digit sentinel, without failing the build.
	orderKeyOverflow = int64(1) << 62
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// OrderKey ranks a filename for sidebar display.
//
// The landing page maps to 0. Any other name maps to the integer value of
// its leftmost run of decimal digits ("10-install.md" -> 10, "a2b30.md" -> 2,
// "007-intro.md" -> 7). Names without digits map to the sentinel 999 so they
// sort after every numbered entry. The function is total: it never errors,
// for any input string.
func OrderKey(filename string) int64 {
	if filename == LandingPage {
		return orderKeyLanding
	}
	run := digitRun.FindString(filename)
	if run == "" {
		return orderKeySentinel
	}
	n, err := strconv.ParseInt(run, 10, 64)
	if err != nil {
		return orderKeyOverflow
	}
	return n
}

// FilterAndSort removes every occurrence of the ignore artifact and returns
// the remaining filenames stably sorted ascending by OrderKey. The input
// slice is not modified; ties keep their relative input order.
func FilterAndSort(filenames []string) []string {
	out := make([]string, 0, len(filenames))
	for _, name := range filenames {
		if name == IgnoreArtifact {
			continue
		}
		out = append(out, name)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return OrderKey(out[i]) < OrderKey(out[j])
	})
	return out
}
