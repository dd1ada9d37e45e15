package vocab

import (
	"strings"

	"golang.org/x/text/language"
)

// ValidLanguage reports whether tag is a well-formed and registered BCP47
// language tag.
func ValidLanguage(tag string) bool {
	if tag == "" {
		return false
	}
	_, err := language.Parse(tag)
	return err == nil
}

// RefinesLanguage reports whether child is equal to or a refinement of
// parent ("en-US" refines "en"). Comparison is case-insensitive.
func RefinesLanguage(child, parent string) bool {
	c, p := strings.ToLower(child), strings.ToLower(parent)
	if p == "" || p == "und" {
		return true
	}
	return c == p || strings.HasPrefix(c, p+"-")
}
