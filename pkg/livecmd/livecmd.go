// Package livecmd relays live admin commands to running game servers through
// the Open Cloud Messaging Service. Delivery is fire-and-forget: one publish
// attempt, no retries, nothing queued for servers that are not running.
package livecmd

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox"
)

// SuccessText is the reply shown when a publish was accepted.
const SuccessText = "Request sent to Roblox game servers."

// CommandType selects the handler on the game side.
type CommandType string

const (
	RunCommand      CommandType = "RUN_COMMAND"
	GetPlayerList   CommandType = "GET_PLAYER_LIST"
	GetServerUptime CommandType = "GET_SERVER_UPTIME"
)

// Issuer is the Discord user a command is attributed to.
type Issuer struct {
	ID          string
	DisplayName string
}

// Payload is the message body the game servers decode.
type Payload struct {
	CommandType     CommandType
	DiscordUserID   string
	DiscordUserName string
	Command         string
	Target          string
	Arguments       string
	InternalSecret  string
}

type basePayload struct {
	CommandType     CommandType `json:"command_type"`
	DiscordUserID   string      `json:"discord_user_id"`
	DiscordUserName string      `json:"discord_user_name"`
	InternalSecret  string      `json:"internal_secret"`
}

type runPayload struct {
	CommandType     CommandType `json:"command_type"`
	DiscordUserID   string      `json:"discord_user_id"`
	DiscordUserName string      `json:"discord_user_name"`
	Command         *string     `json:"command"`
	Target          *string     `json:"target"`
	Arguments       *string     `json:"arguments"`
	InternalSecret  string      `json:"internal_secret"`
}

// nullable maps an empty string to JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// MarshalJSON encodes the wire form. RUN_COMMAND always carries command,
// target and arguments, null when empty; the info requests carry neither.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.CommandType != RunCommand {
		return json.Marshal(basePayload{
			CommandType:     p.CommandType,
			DiscordUserID:   p.DiscordUserID,
			DiscordUserName: p.DiscordUserName,
			InternalSecret:  p.InternalSecret,
		})
	}
	return json.Marshal(runPayload{
		CommandType:     p.CommandType,
		DiscordUserID:   p.DiscordUserID,
		DiscordUserName: p.DiscordUserName,
		Command:         nullable(p.Command),
		Target:          nullable(p.Target),
		Arguments:       nullable(p.Arguments),
		InternalSecret:  p.InternalSecret,
	})
}

// UnmarshalJSON accepts both wire forms.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var w runPayload
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Payload{
		CommandType:     w.CommandType,
		DiscordUserID:   w.DiscordUserID,
		DiscordUserName: w.DiscordUserName,
		Command:         deref(w.Command),
		Target:          deref(w.Target),
		Arguments:       deref(w.Arguments),
		InternalSecret:  w.InternalSecret,
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Publisher is the Messaging Service surface the dispatcher needs.
type Publisher interface {
	PublishMessage(ctx context.Context, topic, message string) error
}

// Mirror receives a copy of every published payload, secret stripped.
type Mirror interface {
	Mirror(p Payload)
}

// Dispatcher builds payloads and publishes them to one topic.
type Dispatcher struct {
	publisher Publisher
	topic     string
	secret    string
	mirror    Mirror
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(publisher Publisher, topic, secret string) *Dispatcher {
	return &Dispatcher{publisher: publisher, topic: topic, secret: secret}
}

// SetMirror registers a listener for published payloads.
func (d *Dispatcher) SetMirror(m Mirror) {
	d.mirror = m
}

// RunCommand sends a RUN_COMMAND. target and arguments may be empty.
func (d *Dispatcher) RunCommand(ctx context.Context, issuer Issuer, command, target, arguments string) (string, error) {
	return d.send(ctx, Payload{
		CommandType: RunCommand,
		Command:     command,
		Target:      target,
		Arguments:   arguments,
	}, issuer)
}

// RequestPlayerList asks every server to log its player list.
func (d *Dispatcher) RequestPlayerList(ctx context.Context, issuer Issuer) (string, error) {
	return d.send(ctx, Payload{CommandType: GetPlayerList}, issuer)
}

// RequestServerUptime asks every server to log its uptime.
func (d *Dispatcher) RequestServerUptime(ctx context.Context, issuer Issuer) (string, error) {
	return d.send(ctx, Payload{CommandType: GetServerUptime}, issuer)
}

func (d *Dispatcher) send(ctx context.Context, p Payload, issuer Issuer) (string, error) {
	p.DiscordUserID = issuer.ID
	p.DiscordUserName = issuer.DisplayName
	p.InternalSecret = d.secret

	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	if err := d.publisher.PublishMessage(ctx, d.topic, string(data)); err != nil {
		logger.Error(fmt.Sprintf("Error sending %s to Roblox: %v", p.CommandType, err), "LiveCmd")
		return "", err
	}

	logger.Info(fmt.Sprintf("Sent %s %s from %s", p.CommandType, p.Command, issuer.DisplayName), "LiveCmd")
	if d.mirror != nil {
		p.InternalSecret = ""
		d.mirror.Mirror(p)
	}
	return SuccessText, nil
}

// FailureText renders a dispatch error for the issuer.
func FailureText(err error) string {
	msg := fmt.Sprintf("Failed to send command to Roblox: %v", err)
	apiErr, ok := roblox.AsAPIError(err)
	if !ok || apiErr.StatusCode == 0 {
		return msg
	}
	if apiErr.Message != "" {
		return msg + "\nDetails: " + apiErr.Message
	}
	return msg + "\nResponse: " + apiErr.Body
}
