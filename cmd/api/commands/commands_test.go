package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/noruno/platform/internal/application/services"
	"github.com/noruno/platform/internal/domain/entities"
)

func sampleSnapshot() services.Snapshot {
	return services.Snapshot{
		ExportedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		Groups:     []string{"work", "home"},
		Folders:    []entities.Folder{{ID: "f1", Name: "Notes"}},
		MailSettings: entities.MailSettings{
			Email:               "me@example.com",
			NotificationMinutes: 1440,
		},
	}
}

func TestWriteSnapshotYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, sampleSnapshot(), "yaml"))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []interface{}{"work", "home"}, doc["groups"])
	assert.Contains(t, buf.String(), "me@example.com")
}

func TestWriteSnapshotJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, sampleSnapshot(), "json"))

	var doc struct {
		Groups  []string          `json:"groups"`
		Folders []entities.Folder `json:"folders"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"work", "home"}, doc.Groups)
	require.Len(t, doc.Folders, 1)
	assert.Equal(t, "Notes", doc.Folders[0].Name)
}

func TestWriteSnapshotUnknownFormat(t *testing.T) {
	err := writeSnapshot(&bytes.Buffer{}, sampleSnapshot(), "toml")
	assert.ErrorContains(t, err, `unknown export format "toml"`)
}

func TestPrintImport(t *testing.T) {
	var buf bytes.Buffer
	printImport(&buf, services.ImportResult{
		Imported: map[entities.Kind]int{entities.KindTask: 3, entities.KindGroup: 1},
		Failed:   map[entities.Kind]int{entities.KindTask: 1},
	})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "groups")
	assert.Contains(t, string(lines[1]), "imported 3, failed 1")

	buf.Reset()
	printImport(&buf, services.ImportResult{Skipped: true})
	assert.Equal(t, "JSON data already imported, nothing to do\n", buf.String())
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Noruno dev")
	assert.Contains(t, out.String(), "Git Commit: development")
}

func TestRunInBackgroundWaitsForReturn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	stopped := false

	done := runInBackground(ctx, func(ctx context.Context) {
		<-ctx.Done()
		<-release
		stopped = true
	})

	cancel()
	select {
	case <-done:
		t.Fatal("done closed before the background func returned")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done never closed")
	}
	assert.True(t, stopped)
}
