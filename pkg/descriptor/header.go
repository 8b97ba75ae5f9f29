package descriptor

import "strings"

// HeaderLines is the number of preamble lines in a CSF list.
const HeaderLines = 5

const peelMarker = "Peel subshells"

// PeelFromHeader extracts the peel subshell list from a CSF list preamble.
// The list is the line following the "Peel subshells:" marker. It reports
// false when the header has no marker or the list is empty.
func PeelFromHeader(header []string) ([]string, bool) {
	for i, line := range header {
		if !strings.HasPrefix(strings.TrimSpace(line), peelMarker) {
			continue
		}
		if i+1 >= len(header) {
			return nil, false
		}
		peel := strings.Fields(header[i+1])
		return peel, len(peel) > 0
	}
	return nil, false
}
