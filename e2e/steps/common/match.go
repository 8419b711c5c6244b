package common

import (
	"fmt"
	"regexp"
	"strings"
)

func matchString(got, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if !re.MatchString(got) {
		return fmt.Errorf("%q does not match %q", got, pattern)
	}
	return nil
}

func containsString(haystack, needle string) bool {
	return needle != "" && strings.Contains(haystack, needle)
}
