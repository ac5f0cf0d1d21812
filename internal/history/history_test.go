package history

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	first, err := s.Record(ctx, Entry{Source: "a.yaml", Result: "8", Output: "8\n"})
	require.NoError(t, err)
	second, err := s.Record(ctx, Entry{Source: "b.yaml", Error: "runtime error: boom"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Seq)
	assert.Equal(t, 2, second.Seq)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b.yaml", entries[0].Source)
	assert.Equal(t, "runtime error: boom", entries[0].Error)
	assert.Equal(t, "8\n", entries[1].Output)
	assert.Equal(t, s.Session(), entries[1].Session)
}

func TestListLimit(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	for _, src := range []string{"1", "2", "3"} {
		_, err := s.Record(ctx, Entry{Source: src})
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "3", entries[0].Source)
	assert.Equal(t, "2", entries[1].Source)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openMemory(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestSessionIsUUID(t *testing.T) {
	s := openMemory(t)
	_, err := uuid.Parse(s.Session())
	assert.NoError(t, err)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "")
	assert.EqualError(t, err, `history: unsupported driver "oracle"`)
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver   string
		expected string
	}{
		{DriverSQLite, "a = ? AND b = ?"},
		{DriverMySQL, "a = ? AND b = ?"},
		{DriverPostgres, "a = $1 AND b = $2"},
	}
	for _, tt := range tests {
		s := &Store{driver: tt.driver}
		assert.Equal(t, tt.expected, s.rebind("a = ? AND b = ?"), tt.driver)
	}
}

func TestMySQLDSNParsesTime(t *testing.T) {
	for _, dsn := range []string{
		"casc:secret@tcp(localhost:3306)/casc",
		"casc:secret@tcp(localhost:3306)/casc?parseTime=false",
	} {
		out, err := mysqlDSN(dsn)
		require.NoError(t, err)
		assert.Contains(t, out, "parseTime=true")
		assert.Contains(t, out, "tcp(localhost:3306)/casc")
	}

	_, err := mysqlDSN("not a dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history: mysql dsn")

	_, err = Open(DriverMySQL, "not a dsn")
	assert.Error(t, err)
}

func TestRecordAfterCloseFails(t *testing.T) {
	s := openMemory(t)
	require.NoError(t, s.Close())
	_, err := s.Record(context.Background(), Entry{Source: "a.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history: record")
}
