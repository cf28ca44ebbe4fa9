package kafka

import (
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/segmentio/kafka-go"
)

func TestEncodeValue(t *testing.T) {
	b, err := encodeValue([]byte("raw"))
	assert.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	b, err = encodeValue("text")
	assert.NoError(t, err)
	assert.Equal(t, "text", string(b))

	b, err = encodeValue(map[string]int{"days": 7})
	assert.NoError(t, err)
	assert.Equal(t, `{"days":7}`, string(b))

	_, err = encodeValue(func() {})
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Snappy, parseCompression("snappy"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Gzip, parseCompression("unknown"))
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)

	p, err := NewProducer(WithBrokers([]string{"localhost:9092"}), WithHashByKey(true))
	assert.NoError(t, err)
	assert.NoError(t, p.Close())
}
