package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

func TestWriterLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)

	l.Warn("prediction synthetic fallback",
		String("scope", "basket"),
		Int("days", 7),
		Float64("value", 1.5),
		Bool("synthetic", true),
		Duration("elapsed_ms", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var got map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "prediction synthetic fallback", got["message"])
	assert.Equal(t, "basket", got["scope"])
	assert.Equal(t, 7.0, got["days"])
	assert.Equal(t, 1.5, got["value"])
	assert.Equal(t, true, got["synthetic"])
	assert.Equal(t, 1500.0, got["elapsed_ms"])
	assert.Equal(t, "boom", got["error"])
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf).With(String("refresh_id", "abc"))
	l.Info("refresh done")

	var got map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "abc", got["refresh_id"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	assert.NoError(t, err)
	assert.NotNil(t, l)
}
