package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEconomy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "economy.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadEconomy_Defaults(t *testing.T) {
	econ, err := LoadEconomy("")

	require.NoError(t, err)
	assert.Equal(t, 150, econ.SegmentCost)
	assert.Equal(t, 6, econ.Columns)
	assert.Equal(t, 5, econ.Rows)
	assert.Equal(t, 30, econ.SegmentCount())
	assert.Equal(t, 10, econ.PageSize)
}

func TestLoadEconomy_PartialOverride(t *testing.T) {
	path := writeEconomy(t, "segment_cost = 200\nrows = 4\n")

	econ, err := LoadEconomy(path)

	require.NoError(t, err)
	assert.Equal(t, 200, econ.SegmentCost)
	assert.Equal(t, 6, econ.Columns, "unset keys keep their defaults")
	assert.Equal(t, 24, econ.SegmentCount())
}

func TestLoadEconomy_Rejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero cost", "segment_cost = 0\n", "SegmentCost"},
		{"page too large", "page_size = 500\n", "PageSize"},
		{"unknown key", "segment_price = 10\n", "segment_price"},
		{"malformed", "segment_cost = \n", "economy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadEconomy(writeEconomy(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
