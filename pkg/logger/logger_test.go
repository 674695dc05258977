package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppLogger_WritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOutput("info", &buf)

	log.Info("usage charged", "user_id", "u1", "tool", "story-writer")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "usage charged", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, "story-writer", entry["tool"])
}

func TestAppLogger_ErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOutput("info", &buf)

	log.Error("store failed", errors.New("connection reset"), "op", "increment")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "connection reset", entry["error"])
	assert.Equal(t, "increment", entry["op"])
}

func TestAppLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOutput("warn", &buf)

	log.Debug("hidden")
	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.True(t, strings.Contains(buf.String(), "shown"))
}

func TestToFields_DropsDanglingKey(t *testing.T) {
	fields := toFields([]interface{}{"a", 1, "b"})
	assert.Len(t, fields, 1)
	assert.Equal(t, 1, fields["a"])
}
