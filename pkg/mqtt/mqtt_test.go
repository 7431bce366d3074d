package mqtt

import (
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

// pendingToken completes only when release is closed.
type pendingToken struct {
	release chan struct{}
}

func (t *pendingToken) Wait() bool {
	<-t.release
	return true
}

func (t *pendingToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.release:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *pendingToken) Done() <-chan struct{} { return t.release }
func (t *pendingToken) Error() error          { return nil }

type published struct {
	topic   string
	payload []byte
}

type fakeClient struct {
	connected    bool
	publishErr   error
	messages     []published
	disconnected bool
	token        paho.Token
}

func (f *fakeClient) IsConnected() bool { return f.connected }

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	f.messages = append(f.messages, published{topic: topic, payload: payload.([]byte)})
	if f.token != nil {
		return f.token
	}
	return &fakeToken{err: f.publishErr}
}

func (f *fakeClient) Disconnect(uint) { f.disconnected = true }

var fixed = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestCommunicator(c *fakeClient, prefix string) *MqttCommunicator {
	mc := newCommunicator(c, prefix)
	mc.now = func() time.Time { return fixed }
	return mc
}

func TestTopic(t *testing.T) {
	mc := newTestCommunicator(&fakeClient{}, "/taurus/")
	assert.Equal(t, "taurus/commands/run_command", mc.Topic("commands", "run_command"))

	mc = newTestCommunicator(&fakeClient{}, "")
	assert.Equal(t, "bans/ban", mc.Topic("bans", "ban"))
}

func TestMirrorPublishesCommand(t *testing.T) {
	c := &fakeClient{connected: true}
	mc := newTestCommunicator(c, "taurus")

	mc.Mirror(livecmd.Payload{
		CommandType:     livecmd.RunCommand,
		DiscordUserID:   "1",
		DiscordUserName: "Mod",
		Command:         "kick",
		Target:          "Player1",
	})

	require.Len(t, c.messages, 1)
	assert.Equal(t, "taurus/commands/run_command", c.messages[0].topic)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(c.messages[0].payload, &event))
	assert.Equal(t, "kick", event["command"])
	assert.Equal(t, "Player1", event["target"])
	assert.Equal(t, "2024-01-02T03:04:05Z", event["sent_at"])
	assert.NotContains(t, event, "internal_secret")
}

func TestBanChanged(t *testing.T) {
	c := &fakeClient{connected: true}
	mc := newTestCommunicator(c, "taurus")

	mc.BanChanged("unban", 42, "Builderman", "Mod")

	require.Len(t, c.messages, 1)
	assert.Equal(t, "taurus/bans/unban", c.messages[0].topic)

	var event BanEvent
	require.NoError(t, json.Unmarshal(c.messages[0].payload, &event))
	assert.Equal(t, int64(42), event.UserID)
	assert.Equal(t, "Builderman", event.Username)
}

func TestMirrorDoesNotWaitForBroker(t *testing.T) {
	token := &pendingToken{release: make(chan struct{})}
	defer close(token.release)
	c := &fakeClient{connected: true, token: token}
	mc := newTestCommunicator(c, "taurus")

	done := make(chan struct{})
	go func() {
		mc.Mirror(livecmd.Payload{CommandType: livecmd.GetPlayerList})
		mc.BanChanged("ban", 7, "Builderman", "Mod")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mirror blocked on an unacknowledged publish")
	}
	assert.Len(t, c.messages, 2)
}

func TestPublishWhenDisconnected(t *testing.T) {
	c := &fakeClient{connected: false}
	mc := newTestCommunicator(c, "taurus")

	assert.Error(t, mc.Publish("x", map[string]string{}))
	mc.BanChanged("ban", 1, "a", "b")
	assert.Empty(t, c.messages)
}

func TestPublishError(t *testing.T) {
	c := &fakeClient{connected: true, publishErr: errors.New("broker said no")}
	mc := newTestCommunicator(c, "taurus")

	assert.EqualError(t, mc.Publish("x", 1), "broker said no")
}

func TestDestroy(t *testing.T) {
	c := &fakeClient{connected: true}
	newTestCommunicator(c, "").Destroy()
	assert.True(t, c.disconnected)

	c = &fakeClient{connected: false}
	newTestCommunicator(c, "").Destroy()
	assert.False(t, c.disconnected)
}
