// Package slack reads recent channel history and posts to incoming webhooks.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"docdigest/internal/apperrors"
	"docdigest/internal/contextutil"
)

// DefaultBaseURL is the Slack Web API root.
const DefaultBaseURL = "https://slack.com/api"

// listPageSize is the conversations.list page size.
const listPageSize = 1000

// Channel is a public channel of the workspace.
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`
}

// Message is one channel message.
type Message struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
	Text    string `json:"text"`
	TS      string `json:"ts"`
}

// Time returns the message timestamp, or the zero time when TS is malformed.
func (m Message) Time() time.Time {
	f, err := strconv.ParseFloat(m.TS, 64)
	if err != nil {
		return time.Time{}
	}
	sec := int64(f)
	return time.Unix(sec, int64((f-float64(sec))*1e9))
}

// APIError is returned when Slack answers with ok=false.
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack %s: %s", e.Method, e.Code)
}

type responseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

type apiResponse struct {
	OK               bool             `json:"ok"`
	Error            string           `json:"error"`
	Channels         []Channel        `json:"channels"`
	Messages         []Message        `json:"messages"`
	HasMore          bool             `json:"has_more"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}

// Client is a client for the Slack Web API using a bot token.
type Client struct {
	BaseURL string
	Token   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Slack client.
func NewClient(token string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		Token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

// ListMemberChannels lists every public channel, joins the ones the bot is not
// a member of, and returns the channels the bot can read.
func (c *Client) ListMemberChannels(ctx context.Context) ([]Channel, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var all []Channel
	cursor := ""
	for {
		params := url.Values{}
		params.Set("types", "public_channel")
		params.Set("limit", strconv.Itoa(listPageSize))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		resp, err := c.call(ctx, http.MethodGet, "conversations.list", params)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Channels...)

		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			break
		}
	}

	members := make([]Channel, 0, len(all))
	for _, ch := range all {
		if !ch.IsMember {
			if err := c.Join(ctx, ch.ID); err != nil {
				logger.WarnContext(ctx, "failed to join channel", "channel", ch.Name, "error", err)
				continue
			}
			ch.IsMember = true
		}
		members = append(members, ch)
	}

	logger.DebugContext(ctx, "listed member channels", "total", len(all), "members", len(members))
	return members, nil
}

// Join adds the bot to a channel.
func (c *Client) Join(ctx context.Context, channelID string) error {
	params := url.Values{}
	params.Set("channel", channelID)
	_, err := c.call(ctx, http.MethodPost, "conversations.join", params)
	return err
}

// History returns the messages of a channel posted after oldest.
func (c *Client) History(ctx context.Context, channelID string, oldest time.Time) ([]Message, error) {
	var out []Message
	cursor := ""
	for {
		params := url.Values{}
		params.Set("channel", channelID)
		params.Set("oldest", formatTS(oldest))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		resp, err := c.call(ctx, http.MethodPost, "conversations.history", params)
		if err != nil {
			return nil, err
		}
		out = append(out, resp.Messages...)

		cursor = resp.ResponseMetadata.NextCursor
		if !resp.HasMore || cursor == "" {
			break
		}
	}
	return out, nil
}

// FetchRecentMessages returns messages posted after since in every readable
// public channel, labeled with the channel name. Channels whose history cannot
// be read are logged and skipped.
func (c *Client) FetchRecentMessages(ctx context.Context, since time.Time) ([]Message, error) {
	if c.Token == "" {
		return nil, apperrors.MissingConfig("SLACK_BOT_TOKEN")
	}
	logger := contextutil.LoggerFromContext(ctx)

	channels, err := c.ListMemberChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	var all []Message
	for _, ch := range channels {
		msgs, err := c.History(ctx, ch.ID, since)
		if err != nil {
			logger.WarnContext(ctx, "failed to fetch channel history", "channel", ch.Name, "error", err)
			continue
		}
		label := ch.Name
		if label == "" {
			label = ch.ID
		}
		for _, m := range msgs {
			m.Channel = label
			all = append(all, m)
		}
	}

	logger.InfoContext(ctx, "fetched chat activity", "channels", len(channels), "messages", len(all))
	return all, nil
}

func (c *Client) call(ctx context.Context, method, endpoint string, params url.Values) (*apiResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := fmt.Sprintf("%s/%s", strings.TrimRight(c.BaseURL, "/"), endpoint)

	var req *http.Request
	var err error
	if method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, method, u+"?"+params.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u, strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !out.OK {
		return nil, &APIError{Method: endpoint, Code: out.Error}
	}
	return &out, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// formatTS renders t as a Slack timestamp.
func formatTS(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', 6, 64)
}
