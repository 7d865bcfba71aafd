package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	require.Len(t, reg.Activities, 8)

	var taskTypes []string
	for _, a := range reg.Activities {
		taskTypes = append(taskTypes, a.TaskType)
	}
	assert.Equal(t, []string{
		"create-application", "add-intents", "add-entities", "add-utterances",
		"train-version", "check-train-status", "wait-for-training", "publish-version",
	}, taskTypes)

	wait, ok := reg.Find("wait-for-training")
	require.True(t, ok)
	assert.True(t, wait.Optional)

	_, ok = reg.Find("delete-application")
	assert.False(t, ok)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2","activities":[{"id":"x","taskType":"x"}]}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)
	assert.Len(t, reg.Activities, 1)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err = LoadRegistry(path)
	assert.Error(t, err)
}
