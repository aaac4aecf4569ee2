package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_Success(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "json", &buf).WithComponent("dispatch")

	log.Dispatch("abc", "file:/tmp/log.txt", 12, time.Millisecond, nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "dispatch", entry["component"])
	assert.Equal(t, "abc", entry["dispatch_id"])
	assert.Equal(t, "file:/tmp/log.txt", entry["source"])
	assert.EqualValues(t, 12, entry["body_length"])
}

func TestDispatch_Failure(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "json", &buf)

	log.Dispatch("abc", "database", 0, time.Millisecond, errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", "json", &buf)

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("chatty", "json", &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
