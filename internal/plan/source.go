package plan

import (
	"regexp"
	"strings"
)

var (
	// pgAdmin3 wraps every exported line in quotes.
	doubleQuotedLineRe = regexp.MustCompile(`(?m)^"(.*)"[ \t]*\r?$`)
	singleQuotedLineRe = regexp.MustCompile(`(?m)^'(.*)'[ \t]*\r?$`)

	// psql's default config appends a + continuation marker to wrapped lines.
	continuationRe = regexp.MustCompile(`(?m)[ \t]*\+[ \t]*\r?$`)

	jsonOpenLineRe = regexp.MustCompile(`^(\s*)([\[{])\s*$`)
)

// FromSource parses EXPLAIN output in either format. The source is
// cleaned of common copy/paste artifacts first, then routed to the JSON
// parser when it contains a bracketed block whose opening and closing
// lines share the same indentation, and to the text parser otherwise.
func FromSource(source string) (Node, error) {
	source = CleanupSource(source)
	if start, end, _ := jsonBlockBounds(source); start >= 0 && end > start {
		return FromJSON(source)
	}
	return FromText(source)
}

// CleanupSource strips whole-line quoting (pgAdmin3 exports) and
// trailing + continuation markers (psql) from a raw source.
func CleanupSource(source string) string {
	source = doubleQuotedLineRe.ReplaceAllString(source, "$1")
	source = singleQuotedLineRe.ReplaceAllString(source, "$1")
	source = continuationRe.ReplaceAllString(source, "")
	return source
}

// jsonBlockBounds locates the outermost bracketed block: the first line
// holding a lone [ or { and the first later line holding the matching
// close bracket at the same indentation. Line indexes are returned, or
// -1 when no such block exists.
func jsonBlockBounds(source string) (start, end int, lines []string) {
	lines = splitLines(source)
	start, end = -1, -1

	var prefix, closing string
	for i, line := range lines {
		m := jsonOpenLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start = i
		prefix = m[1]
		if m[2] == "[" {
			closing = "]"
		} else {
			closing = "}"
		}
		break
	}
	if start < 0 {
		return -1, -1, lines
	}

	for i := start + 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == prefix+closing {
			end = i
			break
		}
	}
	return start, end, lines
}

func splitLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
