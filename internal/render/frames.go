package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hashRun     = regexp.MustCompile(`#+`)
	printfToken = regexp.MustCompile(`%0?\d*d`)
)

// SequencePattern translates an output path's frame token to printf form:
// "####" becomes "%04d" and "%0Nd" is kept. ok is false when the path has no
// frame token, so every frame writes the same file.
func SequencePattern(path string) (string, bool) {
	if printfToken.MatchString(path) {
		return path, true
	}
	loc := hashRun.FindAllStringIndex(path, -1)
	if len(loc) == 0 {
		return path, false
	}
	last := loc[len(loc)-1]
	width := last[1] - last[0]
	return path[:last[0]] + fmt.Sprintf("%%0%dd", width) + path[last[1]:], true
}

// NukePattern translates printf frame tokens to the "####" form.
func NukePattern(path string) string {
	return printfToken.ReplaceAllStringFunc(path, func(token string) string {
		digits := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(token, "%"), "0"), "d")
		width, err := strconv.Atoi(digits)
		if err != nil || width < 1 {
			width = 1
		}
		return strings.Repeat("#", width)
	})
}
