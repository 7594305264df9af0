package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dreamerjackson/confextract/batch"
	"github.com/dreamerjackson/confextract/sqldb"
	"github.com/dreamerjackson/confextract/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const programme = `ESCMID Global 2025 - Final Programme

EW001 08:30 - 10:30 Hall 2
Educational Workshop
Antifungal stewardship in practice
Chairs Anna Berg (Sweden); Marc Dupont (France)
W0001 08:30 Title A Speaker A (US)
W0002 09:15 Title B Speaker B (UK)
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
logLevel = "debug"

[fetcher]
timeout = 3000
waitTime = 500
proxy = ["http://127.0.0.1:8888"]
[[fetcher.limits]]
eventCount = 1
eventDur = 2
bucket = 1

[storage]
type = "sqlite"
sqlURL = "records.db"
batchCount = 50

[batch]
workCount = 8
`), 0o644))

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(3000), cfg.Fetcher.Timeout)
	assert.Equal(t, int64(500), cfg.Fetcher.WaitTime)
	assert.Equal(t, []string{"http://127.0.0.1:8888"}, cfg.Fetcher.Proxy)
	require.Len(t, cfg.Fetcher.Rules(), 1)
	assert.Equal(t, 1, cfg.Fetcher.Rules()[0].Count)
	assert.Equal(t, StorageConfig{Type: "sqlite", SQLURL: "records.db", BatchCount: 50}, cfg.Storage)
	assert.Equal(t, 8, cfg.Batch.WorkCount)
	assert.Empty(t, cfg.Families.Dir)
}

func TestLoadConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.toml")

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadConfig(path, false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []batch.Ref
		wantErr bool
	}{
		{
			name: "comments and blanks",
			input: `# day one
idweek/2025/session  sessions/101.html

escmid/2025/programme https://example.org/programme.txt
`,
			want: []batch.Ref{
				{Family: "idweek/2025/session", Source: "sessions/101.html"},
				{Family: "escmid/2025/programme", Source: "https://example.org/programme.txt"},
			},
		},
		{name: "missing source", input: "idweek/2025/session\n", wantErr: true},
		{name: "empty", input: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := ParseManifest(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, refs)
		})
	}
}

func TestCollectRefs_NeedsFamily(t *testing.T) {
	_, err := collectRefs(Flags{}, []string{"a.html"})
	assert.Error(t, err)

	_, err = collectRefs(Flags{}, nil)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "programme.txt"), []byte(programme), 0o644))
	dbPath := filepath.Join(dir, "records.db")

	f := Flags{
		ConfigPath:     filepath.Join(dir, "config.toml"),
		ConfigOptional: true,
		Family:         "escmid/2025/programme",
		Dir:            dir,
		LogLevel:       "error",
		Storage:        "sqlite",
		SQLURL:         dbPath,
	}

	var out, summary bytes.Buffer
	err := Run(context.Background(), f, []string{"programme.txt", "missing.txt"}, &out, &summary)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "EW001", rec["record_id"])
	assert.Equal(t, "programme.txt#1", rec["source_reference"])
	assert.Equal(t, "complete", rec["parse_status"])

	assert.Contains(t, summary.String(), "FAILED")
	assert.Contains(t, summary.String(), "documents")
	assert.Contains(t, summary.String(), "missing.txt")

	db, err := sqldb.New(sqldb.WithDriver(sqldb.DriverSQLite), sqldb.WithConnURL(dbPath))
	require.NoError(t, err)
	defer db.Close()

	n, err := db.Count(storage.TableName("escmid/2025/programme"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = db.Count(storage.FailureTable)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
