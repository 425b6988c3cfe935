package digest

import (
	"fmt"
	"strings"
)

// SystemMessage is sent with every section summarization request.
const SystemMessage = "You are an assistant summarizing document sections."

// DefaultTemperature is the sampling temperature for section summaries.
const DefaultTemperature float32 = 0.3

const noContext = "None provided."

// contextSeparator joins related section titles in the prompt.
const contextSeparator = " \n "

// BuildPrompt returns the summarization prompt for a changed section.
// relatedContext may be empty.
func BuildPrompt(content, relatedContext string) string {
	if strings.TrimSpace(relatedContext) == "" {
		relatedContext = noContext
	}
	return fmt.Sprintf(`1. Review the "New Content" and the "Relevant Context" below, which may include historical summaries or prior discussions.
2. Identify and explicitly connect ongoing threads, unresolved issues, or recurring themes. If any previous action items are now resolved or still pending, mention their status.
3. Prioritize and summarize the most important decisions, blockers, or new directions. Group related updates under themes or projects when possible.
4. When referencing a channel or thread, include the channel name or a citation for traceability.
5. List all current and outstanding action items, marking any carried over from previous context as "Still Pending".

Respond in exactly three labeled sections:

Summary of Changes (with Context and Progress):
- [Concise, prioritized summary connecting new information to historical context, highlighting progress, blockers, and ongoing themes]

Outstanding Action Items:
- [Pending action item 1 (Owner: X, Deadline: Y, Still Pending)]
- [Pending action item 2]
- (Mark as "Still Pending" if carried over from previous summaries)

New Action Items:
- [New action item 1 (Owner: X, Deadline: Y)]
- [New action item 2]
- (Use "No new action items." if none are present)

---
Relevant Context (related sections of this document):
%s
---
New Content:
%s
---`, relatedContext, content)
}

// UnknownTitle stands in for a related match stored without a title.
const UnknownTitle = "Unknown Title"

// FormatContext renders related section titles for the prompt.
func FormatContext(titles []string) string {
	parts := make([]string, 0, len(titles))
	for _, t := range titles {
		if t == "" {
			continue
		}
		parts = append(parts, "("+t+")")
	}
	return strings.Join(parts, contextSeparator)
}
