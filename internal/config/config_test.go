package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/warehouse-report/internal/abc"
	"github.com/noah-isme/warehouse-report/internal/config"
)

// baseEnv clears every key Load reads so the host environment cannot leak into assertions.
func baseEnv(overrides map[string]string) map[string]string {
	env := map[string]string{
		"APP_ENV": "", "PORT": "", "DATA_SOURCE": "", "DATA_FILE": "", "DATA_URL": "", "DATA_HTTP_TIMEOUT": "", "DATABASE_URL": "",
		"REDIS_URL": "", "REPORT_CACHE_TTL": "", "REPORT_VIEWS": "", "CORS_ALLOWED_ORIGINS": "",
		"ABC_THRESHOLD_A": "", "ABC_THRESHOLD_B": "", "ABC_PERCENT_ORDER": "",
		"OBS_LOG_FORMAT": "", "OBS_LOG_LEVEL": "",
	}
	for k, v := range overrides {
		env[k] = v
	}
	return env
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv(nil))
	require.NoError(t, err)
	require.Equal(t, config.SourceFile, cfg.DataSource)
	require.Equal(t, "trial_task.json", cfg.DataFile)
	require.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	require.Equal(t, config.DefaultViews, cfg.ReportViews)
	require.Equal(t, abc.PercentAscending, cfg.ABC.Order)
	require.Equal(t, "70", cfg.ABC.ThresholdA.String())
	require.Equal(t, "90", cfg.ABC.ThresholdB.String())
	require.Equal(t, 10*time.Second, cfg.DataHTTPTimeout)
	require.Equal(t, ":8080", cfg.HTTPAddr())
}

func TestLoadHTTPSource(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv(map[string]string{
		"DATA_SOURCE":       "HTTP",
		"DATA_URL":          "https://example.com/trial_task.json",
		"DATA_HTTP_TIMEOUT": "2s",
	}))
	require.NoError(t, err)
	require.Equal(t, config.SourceHTTP, cfg.DataSource)
	require.Equal(t, "https://example.com/trial_task.json", cfg.DataURL)
	require.Equal(t, 2*time.Second, cfg.DataHTTPTimeout)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv(map[string]string{
		"DATA_SOURCE":       "postgres",
		"DATABASE_URL":      "postgres://localhost/report",
		"REPORT_CACHE_TTL":  "30s",
		"REPORT_VIEWS":      "abc, tariffs",
		"ABC_THRESHOLD_A":   "80",
		"ABC_THRESHOLD_B":   "95",
		"ABC_PERCENT_ORDER": "desc",
		"PORT":              ":9090",
	}))
	require.NoError(t, err)
	require.Equal(t, config.SourcePostgres, cfg.DataSource)
	require.Equal(t, 30*time.Second, cfg.ReportCacheTTL)
	require.Equal(t, []string{"abc", "tariffs"}, cfg.ReportViews)
	require.Equal(t, "80", cfg.ABC.ThresholdA.String())
	require.Equal(t, abc.PercentDescending, cfg.ABC.Order)
	require.Equal(t, ":9090", cfg.HTTPAddr())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"postgres without url": {"DATA_SOURCE": "postgres"},
		"http without url":     {"DATA_SOURCE": "http"},
		"unknown source":       {"DATA_SOURCE": "s3"},
		"unknown view":         {"REPORT_VIEWS": "tariffs,margins"},
		"inverted thresholds":  {"ABC_THRESHOLD_A": "95", "ABC_THRESHOLD_B": "90"},
		"bad threshold":        {"ABC_THRESHOLD_A": "seventy"},
		"bad order":            {"ABC_PERCENT_ORDER": "random"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadForTests(baseEnv(env))
			require.Error(t, err)
		})
	}
}
