package utils

import (
	"lms/config"
	"testing"
)

func setTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		AppURL:      "http://lms.test",
		UploadDir:   t.TempDir(),
		MaxUploadMB: 1,
	}
	previous := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = previous })
	return cfg
}
