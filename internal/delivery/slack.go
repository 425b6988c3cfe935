package delivery

import (
	"context"
	"fmt"

	"docdigest/internal/apperrors"
)

// Block is a Slack layout block.
type Block struct {
	Type string     `json:"type"`
	Text *BlockText `json:"text,omitempty"`
}

// BlockText is the text object of a section block.
type BlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// WebhookMessage is the payload posted to the webhook.
type WebhookMessage struct {
	Channel string  `json:"channel,omitempty"`
	Blocks  []Block `json:"blocks"`
}

// WebhookPoster posts a JSON payload.
type WebhookPoster interface {
	Post(ctx context.Context, payload any) error
}

func section(text string) Block {
	return Block{Type: "section", Text: &BlockText{Type: "mrkdwn", Text: text}}
}

func divider() Block {
	return Block{Type: "divider"}
}

// SlackBlocks lays out d as Slack blocks.
func SlackBlocks(d Digest) []Block {
	var blocks []Block

	results := d.Results()
	if len(results) > 0 {
		blocks = append(blocks, section("*📄 Document Summaries*"))
		for _, r := range results {
			blocks = append(blocks, section(fmt.Sprintf("*%s*\n%s", r.Title, r.Summary)))
			if r.Actions != "" {
				blocks = append(blocks, section("*Action Items:*\n"+r.Actions))
			}
			blocks = append(blocks, divider())
		}
	} else {
		blocks = append(blocks, section("*📄 Document Summaries*\n_No changes detected._"), divider())
	}

	blocks = append(blocks, section("*💬 Slack Summary*"))
	if d.Activity.Summary != "" {
		blocks = append(blocks, section(d.Activity.Summary))
	}
	if d.Activity.Actions != "" {
		blocks = append(blocks, section("*Action Items:*\n"+d.Activity.Actions))
	}
	return blocks
}

// SlackPublisher posts the digest to a Slack incoming webhook.
type SlackPublisher struct {
	webhook WebhookPoster
	channel string
}

// NewSlackPublisher creates a SlackPublisher. webhook may be nil when no
// webhook is configured; Publish then reports a configuration error.
func NewSlackPublisher(webhook WebhookPoster, channel string) *SlackPublisher {
	return &SlackPublisher{webhook: webhook, channel: channel}
}

// Name implements Publisher.
func (p *SlackPublisher) Name() string { return "slack" }

// Publish implements Publisher.
func (p *SlackPublisher) Publish(ctx context.Context, d Digest) error {
	if p.webhook == nil {
		return apperrors.MissingConfig("SLACK_WEBHOOK_URL")
	}
	msg := WebhookMessage{Channel: p.channel, Blocks: SlackBlocks(d)}
	if err := p.webhook.Post(ctx, msg); err != nil {
		return fmt.Errorf("failed to post digest to slack: %w", err)
	}
	return nil
}
