package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/solatis/remap/internal/compiler"
	"github.com/solatis/remap/internal/core/config"
	"github.com/solatis/remap/internal/core/logging"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/stdlib"
	"github.com/solatis/remap/internal/transform"
)

func newRemap(t *testing.T, src string, opts ...transform.Option) *transform.Remap {
	t.Helper()
	logger = logging.Discard()
	reg, err := stdlib.NewRegistry()
	require.NoError(t, err)
	prog, err := compiler.New(reg).Compile(src)
	require.NoError(t, err)
	return transform.New(prog, opts...)
}

func TestProcessStream(t *testing.T) {
	remap := newRemap(t, `.msg = upcase(string(.msg) ?? "")`)

	input := strings.Join([]string{
		`{"msg": "a"}`,
		``,
		`not json`,
		`[1, 2]`,
		`{"msg": "b", "n": 1}`,
		`{"msg": "c"}`,
	}, "\n")

	var out bytes.Buffer
	err := processStream(context.Background(), remap, strings.NewReader(input), &out, 2, 1<<20)
	require.NoError(t, err)

	assert.Equal(t,
		`{"msg":"A"}`+"\n"+`{"msg":"B","n":1}`+"\n"+`{"msg":"C"}`+"\n",
		out.String(),
	)
}

func TestProcessStream_DropsFailedEvents(t *testing.T) {
	remap := newRemap(t, `.n = parse_int(string(.raw) ?? "")`, transform.WithDropOnError(true))

	var out bytes.Buffer
	err := processStream(context.Background(), remap,
		strings.NewReader(`{"raw": "1"}`+"\n"+`{"raw": "x"}`+"\n"),
		&out, 10, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, `{"n":1,"raw":"1"}`+"\n", out.String())
}

func TestProcessStream_LineTooLong(t *testing.T) {
	remap := newRemap(t, `.a = 1`)

	var out bytes.Buffer
	err := processStream(context.Background(), remap,
		strings.NewReader(`{"k": "`+strings.Repeat("x", 100)+`"}`),
		&out, 10, 32)
	assert.Error(t, err)
}

func TestFunctionsCommand(t *testing.T) {
	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			var out bytes.Buffer
			functionsCmd.SetOut(&out)
			require.NoError(t, functionsCmd.Flags().Set("format", format))

			require.NoError(t, runFunctions(functionsCmd, nil))

			var docs []function.Doc
			if format == "yaml" {
				require.NoError(t, yaml.Unmarshal(out.Bytes(), &docs))
			} else {
				require.NoError(t, json.Unmarshal(out.Bytes(), &docs))
			}
			require.Len(t, docs, len(stdlib.All()))
			assert.Equal(t, "abs", docs[0].Identifier)
		})
	}
}

func TestCheckCommand(t *testing.T) {
	logger = logging.Discard()
	cfg = config.DefaultRemapConfig()

	path := filepath.Join(t.TempDir(), "p.remap")
	require.NoError(t, os.WriteFile(path, []byte(`x = 1; .a = x`), 0o600))

	var out bytes.Buffer
	checkCmd.SetOut(&out)
	checkCmd.SetContext(context.Background())
	require.NoError(t, runCheck(checkCmd, []string{path}))

	assert.Contains(t, out.String(), "ok")
	assert.Contains(t, out.String(), "result: integer, infallible")
	assert.Contains(t, out.String(), "local x: integer, infallible")
}

func TestCheckCommand_CompileError(t *testing.T) {
	logger = logging.Discard()
	cfg = config.DefaultRemapConfig()

	path := filepath.Join(t.TempDir(), "p.remap")
	require.NoError(t, os.WriteFile(path, []byte(`seahash(true)`), 0o600))

	checkCmd.SetContext(context.Background())
	err := runCheck(checkCmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument type")
}
