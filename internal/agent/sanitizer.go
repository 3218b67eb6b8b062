package agent

import (
	"regexp"
	"strings"
)

// The backend, despite instruction, sometimes echoes citation-like lines
// mid-body. Sanitize guarantees exactly one citations presentation in the
// final output, at the end.

var (
	footerRx    = regexp.MustCompile(`(?i)\*\*Citations:\*\*`)
	citationRx  = regexp.MustCompile(`(?i)^\s*(?:[-*]\s*)?(?:citations|sources?)\s*:\s*(.*)$`)
	blankRunsRx = regexp.MustCompile(`\n{3,}`)
)

// Sanitize strips citation-like lines from the body while preserving the
// canonical **Citations:** footer, and collapses runs of 3+ blank lines to 2.
func Sanitize(text string) string {
	body, footer := splitFooter(text)

	body = stripCitationLines(body)
	body = strings.TrimSpace(blankRunsRx.ReplaceAllString(body, "\n\n"))

	if footer != "" {
		return strings.TrimSpace(body + "\n\n" + footer)
	}
	return body
}

// splitFooter separates the text at the first canonical footer marker.
func splitFooter(text string) (body, footer string) {
	loc := footerRx.FindStringIndex(text)
	if loc == nil {
		return text, ""
	}
	return text[:loc[0]], strings.TrimSpace(text[loc[0]:])
}

// stripCitationLines removes any optionally bulleted "Citations:" /
// "Source:" / "Sources:" line. A marker line without inline content also
// takes its indented or bulleted continuation block with it.
func stripCitationLines(body string) string {
	lines := strings.Split(body, "\n")
	var kept []string

	for i := 0; i < len(lines); i++ {
		m := citationRx.FindStringSubmatch(lines[i])
		if m == nil {
			kept = append(kept, lines[i])
			continue
		}
		if strings.TrimSpace(m[1]) != "" {
			continue // marker with inline content: drop just this line
		}
		// Bare marker: drop the continuation block beneath it
		for i+1 < len(lines) && isContinuation(lines[i+1]) {
			i++
		}
	}
	return strings.Join(kept, "\n")
}

// isContinuation reports whether a line belongs to the block under a bare
// citation marker: blank, indented, or bulleted.
func isContinuation(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return true
	}
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ")
}
