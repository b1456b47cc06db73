package ch

import (
	"net/url"
	"testing"

	"confession/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN("db.internal", 9440, "ranks", "bot", "p@ss:w/rd", true)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "clickhouse", u.Scheme)
	assert.Equal(t, "db.internal:9440", u.Host)
	assert.Equal(t, "/ranks", u.Path)
	assert.Equal(t, "bot", u.User.Username())
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss:w/rd", password)
	assert.Equal(t, "true", u.Query().Get("secure"))

	plain, err := url.Parse(DSN("localhost", 9000, "default", "default", "", false))
	require.NoError(t, err)
	assert.False(t, plain.Query().Has("secure"))
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	raw, err := migrations.FS.ReadFile(entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "-- +goose Up")
	assert.Contains(t, string(raw), "-- +goose Down")
}
