package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		want logiface.Level
	}{
		{`debug`, logiface.LevelDebug},
		{` INFO `, logiface.LevelInformational},
		{`warn`, logiface.LevelWarning},
		{`error`, logiface.LevelError},
		{`off`, logiface.LevelDisabled},
	} {
		t.Run(tc.name, func(t *testing.T) {
			level, err := ParseLevel(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, level)
		})
	}

	_, err := ParseLevel(`loud`)
	assert.ErrorContains(t, err, `unknown log level 'loud'`)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, logiface.LevelInformational)

	l.Debug().Log(`hidden`)
	l.Info().Str(`device`, `/dev/input/js0`).Int(`axes`, 8).Log(`opened`)
	l.Err().Err(errors.New(`boom`)).Log(`failed`)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, `info`, first[`lvl`])
	assert.Equal(t, `opened`, first[`msg`])
	assert.Equal(t, `/dev/input/js0`, first[`device`])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, `boom`, second[`err`])
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), `jsmon.log`)
	l, closeLog, err := Open(path, `debug`)
	require.NoError(t, err)
	l.Debug().Log(`hello`)
	require.NoError(t, closeLog())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)

	_, _, err = Open(path, `nope`)
	assert.Error(t, err)
}
