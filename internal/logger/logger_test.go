package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "prod")
	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.Info("scan", "ean", "8718265638716")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "scan", line["msg"])
	assert.Equal(t, "8718265638716", line["ean"])

	buf.Reset()
	NewWithWriter(&buf, "dev").Debug("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
