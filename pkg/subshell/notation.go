package subshell

import "strings"

// ToAngular converts a subshell name to its 2-character angular code.
// The principal quantum number and surrounding blanks are dropped and the
// flavor character is normalized to '-' or ' ':
//
//	ToAngular("4d-") == "d-"
//	ToAngular("5s")  == "s "
//	ToAngular("p-")  == "p-"
//
// Codes already in angular form are returned unchanged. Anything other than
// a letter optionally followed by '-' is returned trimmed but otherwise
// untouched, so that the subsequent table lookup reports it.
func ToAngular(name string) string {
	s := strings.TrimLeft(name, " \t")
	s = strings.TrimLeft(s, "0123456789")
	s = strings.TrimRight(s, " \t")
	switch {
	case s == "":
		return "  "
	case len(s) == 1 && isLetter(s[0]):
		return s + " "
	}
	// "d-" is already angular, anything else is unknown
	return s
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// ToAngularList maps ToAngular over names, preserving order and length.
func ToAngularList(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = ToAngular(n)
	}
	return out
}
