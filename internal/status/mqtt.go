// Package status publishes show progress to an MQTT broker so the panel can
// be watched from elsewhere on the network.
package status

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/fkcurrie/hub75-animloop/internal/playback"
	"github.com/fkcurrie/hub75-animloop/internal/types"
)

const (
	EventStarted  = "started"
	EventFinished = "finished"
	EventFailed   = "failed"

	publishTimeout = 2 * time.Second
)

var (
	newClient      = mqtt.NewClient
	connectTimeout = 5 * time.Second
)

// Publisher is the part of mqtt.Client the reporter needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Event is the JSON payload published for every clip event.
type Event struct {
	Event     string    `json:"event"`
	Clip      string    `json:"clip"`
	Frames    int       `json:"frames,omitempty"`
	Class     string    `json:"class,omitempty"`
	Ticks     int       `json:"ticks,omitempty"`
	ElapsedMS int64     `json:"elapsed_ms,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// MQTTReporter implements playback.Reporter on top of an MQTT client.
// Publish failures are logged and counted, never returned to the show.
type MQTTReporter struct {
	client Publisher
	topic  string
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	published uint64
	errors    uint64
}

// NewMQTTReporter creates a reporter publishing under topic.
func NewMQTTReporter(client Publisher, topic string, logger *slog.Logger) *MQTTReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MQTTReporter{
		client: client,
		topic:  topic,
		logger: logger,
		now:    time.Now,
	}
}

// Connect dials the configured broker and returns the connected client. On
// failure the client is disconnected so it stops retrying in the background.
func Connect(cfg types.MQTTConfig, logger *slog.Logger) (mqtt.Client, error) {
	clientID := "animloop-" + uuid.New().String()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		logger.Info("mqtt connection established", "broker", cfg.Broker, "client_id", clientID)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		logger.Warn("mqtt connection lost, will auto-reconnect", "broker", cfg.Broker, "error", err)
	}

	client := newClient(opts)
	logger.Info("connecting to mqtt broker", "broker", cfg.Broker)

	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		client.Disconnect(0)
		return nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return nil, fmt.Errorf("mqtt connection failed: %w", err)
	}
	return client, nil
}

// ClipStarted publishes a started event.
func (r *MQTTReporter) ClipStarted(clip types.Clip) {
	r.publish(Event{Event: EventStarted, Clip: clip.Name})
}

// ClipFinished publishes a finished or failed event.
func (r *MQTTReporter) ClipFinished(res playback.Result) {
	ev := Event{
		Event:     EventFinished,
		Clip:      res.Clip,
		Frames:    res.Frames,
		Ticks:     res.Ticks,
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	if res.Class != 0 {
		ev.Class = res.Class.String()
	}
	if !res.OK() {
		ev.Event = EventFailed
		ev.Error = res.Err.Error()
	}
	r.publish(ev)
}

func (r *MQTTReporter) publish(ev Event) {
	ev.At = r.now().UTC()
	topic := fmt.Sprintf("%s/%s", r.topic, ev.Event)

	err := func() error {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		token := r.client.Publish(topic, 0, false, payload)
		if !token.WaitTimeout(publishTimeout) {
			return fmt.Errorf("publish timeout")
		}
		return token.Error()
	}()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.errors++
		r.logger.Warn("failed to publish clip event", "topic", topic, "error", err)
		return
	}
	r.published++
	r.logger.Debug("clip event published", "topic", topic, "clip", ev.Clip)
}

// Stats returns how many events were published and how many failed.
func (r *MQTTReporter) Stats() (published, errors uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.published, r.errors
}
