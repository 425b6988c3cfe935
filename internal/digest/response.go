package digest

import (
	"regexp"
	"strings"
)

// Defaults used when a section of the model response is missing.
const (
	NoSummary     = "No summary provided."
	NoActionItems = "No action items."
)

var (
	summaryHeaderRe = regexp.MustCompile(`(?i)summary of changes`)
	actionHeaderRe  = regexp.MustCompile(`(?i)action items?\**\s*(\([^)]*\))?\s*\**\s*:`)
	noActionsRe     = regexp.MustCompile(`(?i)no action items?\.?`)
)

// ParsedResponse holds the two sections of a summarization response.
type ParsedResponse struct {
	Summary string
	Actions string
}

// ParseResponse splits a model response into its summary and action item sections.
// Header lines switch the active section and are dropped; lines before any header
// belong to the summary. It never fails: missing sections get default text.
func ParseResponse(raw string) ParsedResponse {
	var summary, actions []string
	inActions := false

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if actionHeaderRe.MatchString(trimmed) {
			inActions = true
			continue
		}
		if summaryHeaderRe.MatchString(trimmed) {
			inActions = false
			continue
		}
		if inActions {
			actions = append(actions, trimmed)
		} else {
			summary = append(summary, trimmed)
		}
	}

	out := ParsedResponse{
		Summary: strings.TrimSpace(strings.Join(summary, "\n")),
		Actions: strings.TrimSpace(strings.Join(actions, "\n")),
	}
	if out.Summary == "" {
		out.Summary = NoSummary
	}
	if out.Actions == "" || noActionsRe.MatchString(out.Actions) {
		out.Actions = NoActionItems
	}
	return out
}
