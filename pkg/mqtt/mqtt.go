// Package mqtt mirrors bridge activity onto an MQTT broker so local consumers
// (dashboards, log bots) can follow every live command and ban change.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

const publishTimeout = 2 * time.Second

// client is the part of mqtt.Client the communicator uses.
type client interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// CommandEvent is published for every live command that reached Roblox.
type CommandEvent struct {
	CommandType string    `json:"command_type"`
	Command     string    `json:"command,omitempty"`
	Target      string    `json:"target,omitempty"`
	Arguments   string    `json:"arguments,omitempty"`
	UserID      string    `json:"discord_user_id"`
	UserName    string    `json:"discord_user_name"`
	SentAt      time.Time `json:"sent_at"`
}

// BanEvent is published for every ban and unban.
type BanEvent struct {
	Action    string    `json:"action"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Actor     string    `json:"actor"`
	ChangedAt time.Time `json:"changed_at"`
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client client
	prefix string
	now    func() time.Time
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID, prefix string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID, prefix)
	})
	return communicator
}

// NewMqttCommunicator creates a new MQTT communicator
func NewMqttCommunicator(host, port, username, password, clientID, prefix string) *MqttCommunicator {
	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Connected to MQTT broker as %s", clientID), "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("MQTT connection lost: %v", err), "MQTT")
		})

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("MQTT connection error: %v", token.Error()), "MQTT")
	}

	return newCommunicator(c, prefix)
}

func newCommunicator(c client, prefix string) *MqttCommunicator {
	return &MqttCommunicator{
		client: c,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("MQTT connection closed.", "MQTT")
	} else {
		logger.Warn("MQTT client was not connected, nothing to close.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Topic joins parts under the configured prefix.
func (mc *MqttCommunicator) Topic(parts ...string) string {
	all := make([]string, 0, len(parts)+1)
	if mc.prefix != "" {
		all = append(all, mc.prefix)
	}
	all = append(all, parts...)
	return strings.Join(all, "/")
}

func (mc *MqttCommunicator) send(topic string, payload interface{}) (mqtt.Token, error) {
	if !mc.IsConnected() {
		return nil, fmt.Errorf("mqtt: not connected")
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return mc.client.Publish(topic, 0, false, jsonData), nil
}

func wait(token mqtt.Token, topic string) error {
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: publish to %s timed out", topic)
	}
	return token.Error()
}

// Publish sends a message to a topic and waits for the broker.
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	token, err := mc.send(topic, payload)
	if err != nil {
		return err
	}
	return wait(token, topic)
}

// publishAsync hands the message to the client and returns; delivery is
// checked in the background.
func (mc *MqttCommunicator) publishAsync(topic string, payload interface{}, what string) {
	token, err := mc.send(topic, payload)
	if err != nil {
		logger.Debug(fmt.Sprintf("%s mirror skipped: %v", what, err), "MQTT")
		return
	}
	go func() {
		if err := wait(token, topic); err != nil {
			logger.Debug(fmt.Sprintf("%s mirror failed: %v", what, err), "MQTT")
		}
	}()
}

// Mirror publishes a live command to <prefix>/commands/<type>.
func (mc *MqttCommunicator) Mirror(p livecmd.Payload) {
	event := CommandEvent{
		CommandType: string(p.CommandType),
		Command:     p.Command,
		Target:      p.Target,
		Arguments:   p.Arguments,
		UserID:      p.DiscordUserID,
		UserName:    p.DiscordUserName,
		SentAt:      mc.now().UTC(),
	}
	mc.publishAsync(mc.Topic("commands", strings.ToLower(string(p.CommandType))), event, "Command")
}

// BanChanged publishes a ban change to <prefix>/bans/<action>.
func (mc *MqttCommunicator) BanChanged(action string, userID int64, username, actor string) {
	event := BanEvent{
		Action:    action,
		UserID:    userID,
		Username:  username,
		Actor:     actor,
		ChangedAt: mc.now().UTC(),
	}
	mc.publishAsync(mc.Topic("bans", action), event, "Ban")
}
