package database

import (
	"lms/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorFor(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "lms", DBPassword: "pw", DBName: "lms"}

	for driver, name := range map[string]string{"": "postgres", "postgres": "postgres", "mysql": "mysql", "sqlite": "sqlite"} {
		cfg.DBDriver = driver
		dialector, err := dialectorFor(cfg)
		require.NoError(t, err, driver)
		assert.Equal(t, name, dialector.Name(), driver)
	}

	cfg.DBDriver = "oracle"
	_, err := dialectorFor(cfg)
	assert.EqualError(t, err, `unknown DB_DRIVER "oracle"`)
}
