package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bfv/blogkit/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunGenerate(t *testing.T) {
	configPath := writeFile(t, "policies.yaml", policy.Example)
	outputPath := filepath.Join(t.TempDir(), "policies.sql")

	var stdout bytes.Buffer
	err := runGenerate(generateOptions{
		configPath: configPath,
		outputPath: outputPath,
		format:     "subset",
	}, nil, &stdout)
	require.NoError(t, err)

	written, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, stdout.String(), string(written))

	sql := string(written)
	assert.True(t, strings.HasPrefix(sql, policy.Banner+"\nBEGIN;\n"))
	assert.Equal(t, 3, strings.Count(sql, "ENABLE ROW LEVEL SECURITY;"))
	assert.Equal(t, 3, strings.Count(sql, "FORCE ROW LEVEL SECURITY;"))
	assert.Equal(t, 6, strings.Count(sql, "CREATE POLICY"))
}

func TestRunGenerateQuietStdin(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.sql")

	var stdout bytes.Buffer
	err := runGenerate(generateOptions{
		configPath: stdinPath,
		outputPath: outputPath,
		quiet:      true,
	}, strings.NewReader("tables:\n  - name: blogs\n    enable_rls: true\n"), &stdout)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	written, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, policy.Banner+"\nBEGIN;\nALTER TABLE \"blogs\" ENABLE ROW LEVEL SECURITY;\nCOMMIT;\n", string(written))
}

func TestRunGenerateSkipsFile(t *testing.T) {
	var stdout bytes.Buffer
	err := runGenerate(generateOptions{configPath: stdinPath}, strings.NewReader(policy.Example), &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "COMMIT;")
}

func TestRunGenerateErrors(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "never.sql")

	tests := []struct {
		name   string
		opts   generateOptions
		stdin  string
		target error
		msg    string
	}{
		{
			name:   "no tables",
			opts:   generateOptions{configPath: stdinPath, outputPath: outputPath},
			stdin:  "version: 1\n",
			target: policy.ErrNoTables,
		},
		{
			name: "missing file",
			opts: generateOptions{configPath: filepath.Join(t.TempDir(), "missing.yaml"), outputPath: outputPath},
			msg:  "reading config",
		},
		{
			name:  "bad format",
			opts:  generateOptions{configPath: stdinPath, outputPath: outputPath, format: "json"},
			stdin: policy.Example,
			msg:   `unknown config format "json"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			err := runGenerate(tt.opts, strings.NewReader(tt.stdin), &stdout)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.msg != "" {
				assert.ErrorContains(t, err, tt.msg)
			}
			assert.Empty(t, stdout.String())
			assert.NoFileExists(t, outputPath)
		})
	}
}

func TestRunParse(t *testing.T) {
	var stdout bytes.Buffer
	err := runParse(stdinPath, "subset", "", strings.NewReader(policy.Example), &stdout)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "name: storage.objects")
	assert.Contains(t, out, "actions: [select]")

	cfg, err := policy.Load(stdout.Bytes(), policy.FormatYAML)
	require.NoError(t, err)
	assert.Len(t, cfg.Tables, 3)
}

func TestRunExample(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, runExample("", &stdout))
	assert.Equal(t, policy.Example, stdout.String())

	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, runExample(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, policy.Example, string(data))
}

func TestRunApply(t *testing.T) {
	t.Run("dry run prints sql", func(t *testing.T) {
		var stdout bytes.Buffer
		err := runApply(context.Background(), stdinPath, "", "subset", true, strings.NewReader(policy.Example), &stdout)
		require.NoError(t, err)
		assert.Equal(t, 6, strings.Count(stdout.String(), "CREATE POLICY"))
	})

	t.Run("missing dsn", func(t *testing.T) {
		err := runApply(context.Background(), stdinPath, "", "subset", false, strings.NewReader(policy.Example), &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrMissingDSN)
	})

	t.Run("config error before connecting", func(t *testing.T) {
		err := runApply(context.Background(), stdinPath, "postgres://localhost/x", "subset", false, strings.NewReader("tables:\n"), &bytes.Buffer{})
		assert.ErrorIs(t, err, policy.ErrNoTables)
	})
}
