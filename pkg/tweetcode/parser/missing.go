package parser

import (
	"strings"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
)

// MissingMarker is the placeholder coders write into a cell that has no value.
const MissingMarker = "//"

var nullTokens = map[string]bool{
	"na":   true,
	"nan":  true,
	"null": true,
}

// IsMissing reports whether c carries no real data: a Null cell, blank text,
// the "//" marker, or one of na, nan, null in any letter case.
func IsMissing(c models.Cell) bool {
	if c.IsNull() {
		return true
	}
	return IsMissingString(c.String())
}

// IsMissingString applies the IsMissing rules to a non-null string.
func IsMissingString(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == MissingMarker || nullTokens[strings.ToLower(s)]
}
