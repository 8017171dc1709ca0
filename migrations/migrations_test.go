package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptsAreEmbedded(t *testing.T) {
	my, err := MySQL()
	require.NoError(t, err)
	require.NotEmpty(t, my)
	assert.Equal(t, "mysql/001_init.sql", my[0].Name)
	for _, table := range []string{"api_clients", "econnect_calls", "econnect_submissions", "outbox"} {
		assert.Contains(t, my[0].SQL, "CREATE TABLE "+table)
	}

	ch, err := ClickHouse()
	require.NoError(t, err)
	require.NotEmpty(t, ch)
	assert.Contains(t, ch[0].SQL, "econnect.calls")
}

func TestStatements(t *testing.T) {
	got := Statements(`
-- header
CREATE DATABASE x;

CREATE TABLE x.t
(
    a String
)
ENGINE = Memory;
SELECT 1`)

	require.Len(t, got, 3)
	assert.Equal(t, "CREATE DATABASE x", got[0])
	assert.Contains(t, got[1], "ENGINE = Memory")
	assert.NotContains(t, got[1], ";")
	assert.Equal(t, "SELECT 1", got[2])
}

func TestStatements_ClickHouseScript(t *testing.T) {
	ch, err := ClickHouse()
	require.NoError(t, err)
	assert.Len(t, Statements(ch[0].SQL), 2)
}
