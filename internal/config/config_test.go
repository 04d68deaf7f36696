package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: lmpshapers\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Estimator.LookbackYears)
	assert.Equal(t, 1.0, cfg.Estimator.ClipQuantile)
	assert.True(t, cfg.Estimator.ZeroMean)
	assert.Equal(t, "DA", cfg.Estimator.PriceType)
	assert.Equal(t, "Price Map", cfg.RefMap.Sheet)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
}

func TestLoadOverridesAndHubNode(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
estimator:
  lookback_years: 3
  clip_quantile: 0.98
  zero_mean: false
markets:
  hub_nodes:
    PJM: "99999"
`))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Estimator.LookbackYears)
	assert.Equal(t, 0.98, cfg.Estimator.ClipQuantile)
	assert.False(t, cfg.Estimator.ZeroMean)

	assert.Equal(t, "99999", cfg.HubNode("PJM", "51288"))
	assert.Equal(t, "4000", cfg.HubNode("ISONE", "4000"))
}

func TestValidateRejectsBadParameters(t *testing.T) {
	cases := []string{
		"estimator:\n  lookback_years: 0\n",
		"estimator:\n  clip_quantile: 0\n",
		"estimator:\n  clip_quantile: 1.5\n",
		"estimator:\n  price_type: WEEKLY\n",
	}
	for _, body := range cases {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, body)
	}
}
