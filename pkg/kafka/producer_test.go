package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler/pkg/config"
)

func TestNewProducerValidatesConfig(t *testing.T) {
	_, err := NewProducer(config.KafkaConfig{Topic: "deadline-notifications"})
	require.Error(t, err)

	_, err = NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.Error(t, err)
}

func TestNewProducerBuildsWriter(t *testing.T) {
	p, err := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092", "localhost:9093"}, Topic: "deadline-notifications"})
	require.NoError(t, err)
	assert.Equal(t, "deadline-notifications", p.writer.Topic)
	assert.NotNil(t, p.writer.Addr)
	require.NoError(t, p.Close())
}
