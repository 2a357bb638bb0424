package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSortBy_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveSortBy(configPath, "ByTitle"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "sort_by: ByTitle\n", string(data))
}

func TestSaveSortBy_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# my recorder
base_url: http://rec.local/cgi-bin # home server
sort_by: ByStatus # initial order
ui:
  title: Queue
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o600))

	require.NoError(t, SaveSortBy(configPath, "ByUpdate"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# my recorder")
	assert.Contains(t, content, "# home server")
	assert.Contains(t, content, "sort_by: ByUpdate # initial order")
	assert.Contains(t, content, "title: Queue")
	assert.NotContains(t, content, "ByStatus")

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())
	require.Equal(t, "ByUpdate", v.GetString("sort_by"))
	require.Equal(t, "http://rec.local/cgi-bin", v.GetString("base_url"))
}

func TestSaveSortBy_AppendsMissingKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("page: WwwRecorder.cgi\n"), 0o600))

	require.NoError(t, SaveSortBy(configPath, "ByTitle"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "page: WwwRecorder.cgi\nsort_by: ByTitle\n", string(data))
}

func TestSaveSortBy_Rejects(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.Error(t, SaveSortBy(configPath, "Sideways"))
	_, err := os.Stat(configPath)
	require.True(t, os.IsNotExist(err), "nothing written for invalid input")

	require.NoError(t, os.WriteFile(configPath, []byte("- a\n- b\n"), 0o600))
	require.ErrorContains(t, SaveSortBy(configPath, "ByTitle"), "not a mapping")
}

func TestSaveSortBy_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("a: [unclosed\n"), 0o600))

	err := SaveSortBy(configPath, "ByTitle")
	require.ErrorContains(t, err, "parsing config")
}
