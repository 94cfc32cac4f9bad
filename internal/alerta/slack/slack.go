// Package slack implements the alerta Adapter using the Slack Web API.
package slack

import (
	"context"
	"fmt"

	"github.com/gbarbosa/visionplan/internal/alerta"
	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Adapter implements alerta.Adapter for Slack.
type Adapter struct {
	client    slackClient
	channelID string
}

// AdapterOpts holds parameters for creating a Slack Adapter.
type AdapterOpts struct {
	BotToken  string // xoxb-... Slack bot token
	ChannelID string // channel to post to
	// For testing: inject a mock client instead of the real Slack API.
	Client slackClient
}

// New creates a Slack Adapter.
func New(opts AdapterOpts) (*Adapter, error) {
	if opts.Client == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel ID is required")
	}

	client := opts.Client
	if client == nil {
		client = slackapi.New(opts.BotToken)
	}
	return &Adapter{client: client, channelID: opts.ChannelID}, nil
}

// Send posts the alert as an attachment with a severity color sidebar.
func (a *Adapter) Send(ctx context.Context, al alerta.Alerta) error {
	fields := make([]slackapi.AttachmentField, len(al.Campos))
	for i, c := range al.Campos {
		fields[i] = slackapi.AttachmentField{
			Title: c.Nome,
			Value: c.Valor,
			Short: true,
		}
	}

	attachment := slackapi.Attachment{
		Color:  alerta.ColorFor(al.Severidade),
		Title:  al.Titulo,
		Text:   al.Corpo,
		Fields: fields,
	}

	_, _, err := a.client.PostMessageContext(ctx, a.channelID,
		slackapi.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}

// Close is a no-op: the Web API client holds no persistent connection.
func (a *Adapter) Close() error {
	return nil
}
