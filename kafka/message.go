package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Message is the item type Kafka sources emit and sinks accept. It keeps
// both binary payloads and enough metadata to route and inspect records.
type Message struct {
	Key       string            `json:"key"`
	Value     []byte            `json:"value"`
	Topic     string            `json:"topic"`
	Partition int               `json:"partition"`
	Offset    int64             `json:"offset"`
	Timestamp time.Time         `json:"timestamp"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// FromKafkaMessage converts a kafka-go Message to the stream Message type.
func FromKafkaMessage(msg kafka.Message) Message {
	headers := make(map[string]string)
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Key:       string(msg.Key),
		Value:     msg.Value,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Headers:   headers,
	}
}

// ToKafkaMessage converts the stream Message back to a kafka-go Message.
func (m Message) ToKafkaMessage() kafka.Message {
	headers := make([]kafka.Header, 0, len(m.Headers))
	for k, v := range m.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return kafka.Message{
		Key:       []byte(m.Key),
		Value:     m.Value,
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Time:      m.Timestamp,
		Headers:   headers,
	}
}

// IsJSON checks if the message appears to be JSON.
func (m Message) IsJSON() bool {
	if ct, ok := m.Headers["content-type"]; ok && ct == "application/json" {
		return true
	}
	if len(m.Value) > 0 {
		return m.Value[0] == '{' || m.Value[0] == '['
	}
	return false
}

// UnmarshalValueJSON unmarshals the message value as JSON into v.
func (m Message) UnmarshalValueJSON(v interface{}) error {
	return json.Unmarshal(m.Value, v)
}

// JSON builds a Message carrying v marshalled as JSON, tagged with a
// content-type header. Useful in a Map stage feeding a Kafka sink.
func JSON(topic, key string, v interface{}) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, fmt.Errorf("marshal JSON: %w", err)
	}
	return Message{
		Key:     key,
		Value:   data,
		Topic:   topic,
		Headers: map[string]string{"content-type": "application/json"},
	}, nil
}

// toMessage coerces a stream item into a Message bound for defaultTopic.
// Messages pass through (keeping their own topic when set), raw bytes and
// strings become plain payloads, and anything else is marshalled as JSON.
func toMessage(defaultTopic string, item interface{}) (Message, error) {
	switch v := item.(type) {
	case Message:
		if v.Topic == "" {
			v.Topic = defaultTopic
		}
		return v, nil
	case []byte:
		return Message{Value: v, Topic: defaultTopic}, nil
	case string:
		return Message{Value: []byte(v), Topic: defaultTopic}, nil
	default:
		return JSON(defaultTopic, "", item)
	}
}
