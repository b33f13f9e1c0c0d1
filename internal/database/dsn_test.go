package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "salespipe",
		Password: "hunter2",
		Name:     "salespipe",
		Host:     "db.internal",
		Port:     5433,
	})
	require.NoError(t, err)
	require.Equal(t, "host=db.internal port=5433 user=salespipe dbname=salespipe password=hunter2 sslmode=disable", dsn)

	// Explicit DSN wins over individual fields.
	dsn, err = buildPostgresDSN(Config{DSN: "postgres://override"})
	require.NoError(t, err)
	require.Equal(t, "postgres://override", dsn)

	_, err = buildPostgresDSN(Config{Host: "db.internal"})
	require.Error(t, err)
}

func TestBuildPostgresDSNOptionOverride(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:    "salespipe",
		Name:    "salespipe",
		Options: map[string]string{"sslmode": "require"},
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "sslmode=require")
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User:     "salespipe",
		Password: "hunter2",
		Name:     "salespipe",
	})
	require.NoError(t, err)
	require.Equal(t, "salespipe:hunter2@tcp(127.0.0.1:3306)/salespipe?charset=utf8mb4&loc=Local&parseTime=True", dsn)

	_, err = buildMySQLDSN(Config{Name: "salespipe"})
	require.Error(t, err)
}
