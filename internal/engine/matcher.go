package engine

import (
	"strings"

	"github.com/Norgate-AV/ontop/internal/windows"
)

// Match returns the first record whose title contains substr, ignoring case.
// Scan order decides ties; there is no scoring. An empty substr matches nothing.
func Match(substr string, records []windows.WindowInfo) (windows.WindowInfo, bool) {
	needle := strings.ToLower(substr)
	if needle == "" {
		return windows.WindowInfo{}, false
	}

	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Title), needle) {
			return r, true
		}
	}

	return windows.WindowInfo{}, false
}

// MatchAll returns every record Match would consider, in scan order. The
// first element, if any, is what Match returns.
func MatchAll(substr string, records []windows.WindowInfo) []windows.WindowInfo {
	needle := strings.ToLower(substr)
	if needle == "" {
		return nil
	}

	var matches []windows.WindowInfo

	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Title), needle) {
			matches = append(matches, r)
		}
	}

	return matches
}
