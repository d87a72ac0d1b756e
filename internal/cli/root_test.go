package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "wordsearch", cmd.Use)

	for _, name := range []string{"serve", "play", "migrate"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	lvl := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, lvl)
	assert.Equal(t, "", lvl.DefValue)
}

func TestRootCommand_BadLogLevel(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "loud", "migrate", "--db", filepath.Join(t.TempDir(), "x.db")})
	assert.ErrorContains(t, cmd.Execute(), "invalid log level")
}

func TestMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "app.db")
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--log-level", "error", "migrate", "--db", path})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "migrated "+path+"\n", out.String())
	assert.FileExists(t, path)
}

func TestPlayCommand_Quit(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetIn(bytes.NewBufferString("quit\n"))
	cmd.SetArgs([]string{"play", "--preset", "sopa-de-letras", "--seed", "3"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "SEÑALES 0/7 clicks=0")
	assert.Contains(t, out.String(), "[X] correcto  (X) incorrecto")
}
