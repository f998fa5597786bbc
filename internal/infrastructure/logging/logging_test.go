package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{name: "debug", level: "debug", debugSeen: true, infoSeen: true},
		{name: "upper_case_warn", level: "WARN", debugSeen: false, infoSeen: false},
		{name: "empty_defaults_info", level: "", debugSeen: false, infoSeen: true},
		{name: "garbage_defaults_info", level: "loud", debugSeen: false, infoSeen: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, tt.level)
			log.Debug().Msg("debug line")
			assert.Equal(t, tt.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug line")))
			log.Info().Msg("info line")
			assert.Equal(t, tt.infoSeen, bytes.Contains(buf.Bytes(), []byte("info line")))
		})
	}
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")
	log.Info().Str("part_id", "abc").Msg("mounted")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "abc", line["part_id"])
	assert.Equal(t, "mounted", line["message"])
	assert.Contains(t, line, "time")
}
