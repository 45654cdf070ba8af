package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DATABASE_URL", "URI_KEY", "REDIS_ADDR", "RABBITMQ_URL", "ELASTICSEARCH_ADDRS", "BCRYPT_COST", "CACHE_TTL"} {
		t.Setenv(k, "")
	}

	c := Load()
	assert.Equal(t, DriverPostgres, c.DBDriver)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 10*time.Minute, c.CacheTTL)
	assert.Empty(t, c.RedisAddr)
	assert.Empty(t, c.RabbitMQURL)
	assert.Empty(t, c.ESAddrs())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("DEBUG_METRICS_ENABLED", "false")

	c := Load()
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, 30*time.Second, c.CacheTTL)
	assert.False(t, c.DebugMetricsEnabled)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "lots")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("HTTP_LOG_ENABLED", "maybe")

	c := Load()
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 10*time.Minute, c.CacheTTL)
	assert.False(t, c.HTTPLogEnabled)
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "app", DBPassword: "p@ss", DBHost: "db", DBPort: "5432", DBName: "users", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/users?sslmode=disable", c.PostgresDSN())

	c.DatabaseURL = "postgres://other/x"
	assert.Equal(t, "postgres://other/x", c.PostgresDSN())
}

func TestURIKeyAlias(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("URI_KEY", "postgres://alias/db")

	assert.Equal(t, "postgres://alias/db", Load().PostgresDSN())
}

func TestSplitLists(t *testing.T) {
	c := &Config{CORSAllowedOrigins: " http://a.test , ,http://b.test", ElasticsearchAddrs: "http://es:9200"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins())
	assert.Equal(t, []string{"http://es:9200"}, c.ESAddrs())
}
