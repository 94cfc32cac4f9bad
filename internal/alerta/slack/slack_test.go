package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/gbarbosa/visionplan/internal/alerta"
	slackapi "github.com/slack-go/slack"
)

type mockClient struct {
	channels []string
	options  [][]slackapi.MsgOption
	err      error
}

func (m *mockClient) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	m.channels = append(m.channels, channelID)
	m.options = append(m.options, options)
	return channelID, "1234.5678", nil
}

func TestNewValidation(t *testing.T) {
	if _, err := New(AdapterOpts{ChannelID: "C123"}); err == nil {
		t.Error("expected error when bot token missing")
	}
	if _, err := New(AdapterOpts{BotToken: "xoxb-test"}); err == nil {
		t.Error("expected error when channel ID missing")
	}
	if _, err := New(AdapterOpts{Client: &mockClient{}, ChannelID: "C123"}); err != nil {
		t.Errorf("unexpected error with injected client: %v", err)
	}
}

func TestSend(t *testing.T) {
	client := &mockClient{}
	a, err := New(AdapterOpts{Client: client, ChannelID: "C123"})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	al := alerta.Alerta{
		Titulo:     "Restrição atrasada: res-1a2b3",
		Corpo:      "Aguardando liberação de aço",
		Severidade: alerta.SeverityWarning,
		Campos:     []alerta.Campo{{Nome: "Prioridade", Valor: "ALTA"}},
	}
	if err := a.Send(context.Background(), al); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	if len(client.channels) != 1 || client.channels[0] != "C123" {
		t.Errorf("expected one post to C123, got %v", client.channels)
	}
}

func TestSendError(t *testing.T) {
	client := &mockClient{err: errors.New("channel_not_found")}
	a, err := New(AdapterOpts{Client: client, ChannelID: "C123"})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	if err := a.Send(context.Background(), alerta.Alerta{Titulo: "teste"}); err == nil {
		t.Error("expected send error to propagate")
	}
}
