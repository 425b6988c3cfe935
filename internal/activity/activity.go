// Package activity summarizes recent chat messages into a short digest.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"docdigest/internal/contextutil"
	"docdigest/internal/digest"
	"docdigest/internal/llm"
	"docdigest/internal/slack"
)

// Placeholder summaries.
const (
	NoActivity    = "No Slack activity in the past 24 hours."
	ErrorSummary  = "Error: Failed to summarize chat activity."
	FetchError    = "Error: Failed to fetch chat activity."
	NotConfigured = "Slack activity was not collected (no bot token configured)."
)

const systemMessage = "You are a helpful assistant summarizing team chat."

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// Digest is the summary of chat activity.
type Digest struct {
	Summary string `json:"summary"`
	Actions string `json:"actions"`
}

// Summarizer turns chat messages into a Digest using a completion provider.
type Summarizer struct {
	completer digest.Completer
	loc       *time.Location
}

// NewSummarizer creates a Summarizer. Message times are rendered in loc, or
// in the local zone when loc is nil.
func NewSummarizer(completer digest.Completer, loc *time.Location) *Summarizer {
	if loc == nil {
		loc = time.Local
	}
	return &Summarizer{completer: completer, loc: loc}
}

// Summarize returns the digest of msgs. It never fails: provider errors yield
// a placeholder summary.
func (s *Summarizer) Summarize(ctx context.Context, msgs []slack.Message) Digest {
	if len(msgs) == 0 {
		return Digest{Summary: NoActivity}
	}
	logger := contextutil.LoggerFromContext(ctx)

	reply, err := s.completer.Complete(ctx, BuildPrompt(s.dump(msgs)), llm.CompletionOptions{
		SystemMessage: systemMessage,
		Temperature:   digest.DefaultTemperature,
	})
	if err != nil {
		logger.WarnContext(ctx, "chat activity summary failed", "error", err)
		return Digest{Summary: ErrorSummary}
	}

	return ParseDigest(reply)
}

func (s *Summarizer) dump(msgs []slack.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, fmt.Sprintf("[%s @ %s] %s", m.Channel, m.Time().In(s.loc).Format("2006-01-02 15:04:05"), m.Text))
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt asks for a JSON digest of the message dump.
func BuildPrompt(dump string) string {
	return fmt.Sprintf(`You are a helpful assistant. Here's a dump of all Slack messages across every public channel in the last 24 hours:

---
%s
---

Your job:
1. Provide a concise *summary* of the major discussions or events.
2. Extract any *action items* (assignments, follow-ups, decisions) implied by the messages.

Respond in JSON exactly as:
{
  "summary": "...",
  "actions": "..."
}`, dump)
}

// ParseDigest reads a {"summary","actions"} JSON reply, optionally wrapped in a
// fenced code block. Anything else becomes the summary verbatim.
func ParseDigest(reply string) Digest {
	text := strings.TrimSpace(reply)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var raw struct {
		Summary json.RawMessage `json:"summary"`
		Actions json.RawMessage `json:"actions"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Digest{Summary: strings.TrimSpace(reply)}
	}
	return Digest{Summary: flatten(raw.Summary), Actions: flatten(raw.Actions)}
}

// flatten renders a JSON string or list of strings as text.
func flatten(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(v, &list); err == nil {
		items := make([]string, 0, len(list))
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, "- "+item)
			}
		}
		return strings.Join(items, "\n")
	}
	return ""
}
