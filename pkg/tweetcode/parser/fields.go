package parser

import (
	"regexp"
	"strings"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
)

// HierarchySeparator separates segments of a hierarchical label.
const HierarchySeparator = ">"

// UnknownVisitStatus is returned when a visit status has no segments.
const UnknownVisitStatus = "Unknown"

// binaryFlagPattern matches "Name: 0" / "Name: 1". The name is any run of
// non-colon characters, so it may contain spaces.
var binaryFlagPattern = regexp.MustCompile(`([^:]+):\s*([01])`)

// ParseHierarchy splits s on ">" and returns the trimmed, non-empty segments
// in order. Inputs made only of separators and blanks yield an empty slice.
func ParseHierarchy(s string) []string {
	parts := strings.Split(s, HierarchySeparator)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// HierarchyMarkdown renders s as a nested bullet list, one bold item per
// segment, each indented four spaces per level of depth.
func HierarchyMarkdown(s string) string {
	segments := ParseHierarchy(s)
	lines := make([]string, len(segments))
	for depth, seg := range segments {
		lines[depth] = strings.Repeat(" ", 4*depth) + "- **" + seg + "**"
	}
	return strings.Join(lines, "\n")
}

// ParseVisitStatus returns the most specific (last) segment of s.
func ParseVisitStatus(s string) string {
	segments := ParseHierarchy(s)
	if len(segments) == 0 {
		return UnknownVisitStatus
	}
	return segments[len(segments)-1]
}

// ParseBinaryFlags extracts every "Name: 0|1" pair from s in order of
// appearance. Fragments that do not match are skipped. Names are neither
// deduplicated nor checked against a known set.
func ParseBinaryFlags(s string) []models.Flag {
	matches := binaryFlagPattern.FindAllStringSubmatch(s, -1)
	flags := make([]models.Flag, 0, len(matches))
	for _, m := range matches {
		flags = append(flags, models.Flag{
			Name:  trimFlagName(m[1]),
			Value: m[2] == "1",
		})
	}
	return flags
}

// trimFlagName drops surrounding whitespace and the list separators that
// precede a name when pairs are written as "A: 1, B: 0".
func trimFlagName(name string) string {
	return strings.Trim(name, " \t\r\n,;")
}
