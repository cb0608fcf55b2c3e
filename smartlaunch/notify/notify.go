// Package notify sends best-effort messages to a Discord webhook when the
// server launches and when it shuts down.
package notify

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Message kinds, as passed to Webhook.Sent.
const (
	KindLaunch   = "launching"
	KindShutdown = "shutdown"
)

// DefaultAvatarURL is the avatar shown on webhook messages.
const DefaultAvatarURL = "https://i.imgur.com/KeSlNUv.png"

const (
	embedColor   = 3451439
	footerIcon   = "https://i.imgur.com/DHgRvnF.png"
	footerText   = "Server Info"
	launchText   = "Launching server..."
	shutdownText = "Server has shutdown."
)

// ErrNoWebhook is returned when the webhook file is empty.
var ErrNoWebhook = errors.New("webhook URL missing")

// ReadWebhookURL reads the webhook URL from the given file.
func ReadWebhookURL(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrapf(ErrNoWebhook, "%s not found", path)
		}
		return "", errors.Wrap(err, "failed to read webhook URL")
	}

	url := strings.TrimSpace(string(b))
	if url == "" {
		return "", errors.Wrapf(ErrNoWebhook, "%s is empty", path)
	}

	return url, nil
}

// Message is a webhook message.
type Message struct {
	Content   string  `json:"content"`
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url"`
	Embeds    []Embed `json:"embeds,omitempty"`
}

// Embed is a rich embed within a message.
type Embed struct {
	Color  int          `json:"color"`
	Footer EmbedFooter  `json:"footer"`
	Fields []EmbedField `json:"fields"`
}

// EmbedFooter is the footer of an embed.
type EmbedFooter struct {
	IconURL string `json:"icon_url"`
	Text    string `json:"text"`
}

// EmbedField is a labeled field within an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Launch describes the server being launched.
type Launch struct {
	LevelName  string
	Version    string
	Host       string
	ShutdownAt string
}

// Webhook posts messages to a Discord webhook. Failures are never returned;
// they are reported to Warn instead.
type Webhook struct {
	URL       string
	AppName   string
	AvatarURL string

	// Client defaults to http.DefaultClient.
	Client *http.Client
	// Warn is called when a message could not be delivered.
	Warn func(error)
	// Sent is called with the message kind when a message was delivered.
	Sent func(kind string)
}

// LaunchMessage returns the message announcing a launch.
func (w *Webhook) LaunchMessage(l Launch) Message {
	return Message{
		Content:   launchText,
		Username:  w.AppName,
		AvatarURL: w.avatarURL(),
		Embeds: []Embed{{
			Color: embedColor,
			Footer: EmbedFooter{
				IconURL: footerIcon,
				Text:    footerText,
			},
			Fields: []EmbedField{
				{Name: "Level Name:", Value: code(l.LevelName), Inline: true},
				{Name: "Minecraft Version:", Value: code(l.Version), Inline: true},
				{Name: "Server Host:", Value: code(l.Host), Inline: true},
				{Name: "Shutdown scheduled for:", Value: code(l.ShutdownAt)},
			},
		}},
	}
}

// ShutdownMessage returns the message announcing a shutdown.
func (w *Webhook) ShutdownMessage() Message {
	return Message{
		Content:   shutdownText,
		Username:  w.AppName,
		AvatarURL: w.avatarURL(),
	}
}

// Launched announces that the server is being launched.
func (w *Webhook) Launched(ctx context.Context, l Launch) {
	w.send(ctx, KindLaunch, w.LaunchMessage(l))
}

// Shutdown announces that the server has shut down.
func (w *Webhook) Shutdown(ctx context.Context) {
	w.send(ctx, KindShutdown, w.ShutdownMessage())
}

func (w *Webhook) send(ctx context.Context, kind string, msg Message) {
	if err := w.post(ctx, msg); err != nil {
		if w.Warn != nil {
			w.Warn(errors.Wrapf(err, "failed to send %s message to Discord webhook", kind))
		}
		return
	}

	if w.Sent != nil {
		w.Sent(kind)
	}
}

func (w *Webhook) post(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to encode message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused; the body is otherwise unused.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("unexpected status %s", resp.Status)
	}

	return nil
}

func (w *Webhook) avatarURL() string {
	if w.AvatarURL != "" {
		return w.AvatarURL
	}
	return DefaultAvatarURL
}

func code(s string) string {
	return "`" + s + "`"
}
