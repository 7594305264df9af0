package log_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dreamerjackson/confextract/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.log")

	logger, closer, err := log.Setup("info", path)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("document processed", zap.String("source", "session.html"), zap.Int("records", 1))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "document processed", entry["msg"])
	assert.Equal(t, "session.html", entry["source"])
	assert.Contains(t, entry, "caller")
}

func TestSetup_Level(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{level: ""},
		{level: "DEBUG"},
		{level: "warn"},
		{level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		_, closer, err := log.Setup(tt.level, "")
		if tt.wantErr {
			assert.Error(t, err, tt.level)
			continue
		}
		require.NoError(t, err, tt.level)
		assert.NoError(t, closer.Close())
	}
}
