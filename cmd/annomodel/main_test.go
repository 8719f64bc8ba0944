package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const targetJava = `package p;

public @interface Anno {
    String value() default "x";
    int[] sizes() default {1, 2};
}

@Anno("hello")
class Target {}
`

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestDumpCommand(t *testing.T) {
	dir := writeSources(t, map[string]string{"src/Target.java": targetJava})

	out, _, err := execute(t, "dump", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "@p.Anno on type p.Target")
	assert.Contains(t, out, `    value = "hello"`+"\n")
	assert.Contains(t, out, "    sizes = {1, 2} (default)\n")

	out, _, err = execute(t, "dump", "--syntax", "go", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "    sizes = []int32{1, 2} (default)\n")

	_, _, err = execute(t, "dump", "--syntax", "rust", dir)
	assert.ErrorContains(t, err, `unknown syntax "rust"`)
}

func TestSchemasCommand(t *testing.T) {
	dir := writeSources(t, map[string]string{"Anno.kt": `package k

annotation class Limit(val max: Long, val unit: String = "ms")
`})

	out, _, err := execute(t, "schemas", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "k.Limit")
	assert.Contains(t, out, "    max long [J] required\n")
	assert.Contains(t, out, `    unit String [s] = "ms"`+"\n")
}

func TestGenerateCommand(t *testing.T) {
	dir := writeSources(t, map[string]string{"Target.java": targetJava})
	outDir := t.TempDir()

	_, _, err := execute(t, "generate", "--output-dir", outDir, "--package", "example.com/gen", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "gen.annos.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package gen")
	assert.Contains(t, string(data), `annomodel.RegisterUsage("p.Target", annomodel.Types, "p.Anno",`)
}

func TestReportsProblems(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"Target.java": targetJava,
		"Bad.java": `package p;

@Anno(nope = 1)
class Bad {}
`,
	})

	_, stderr, err := execute(t, "dump", dir)
	require.True(t, errors.Is(err, errReported))
	assert.Contains(t, stderr, "Bad.java:3:7: error: p.Anno.nope: annotation has no such parameter")
}

func TestNoSources(t *testing.T) {
	_, _, err := execute(t, "dump", t.TempDir())
	assert.ErrorContains(t, err, "no Java or Kotlin sources found")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "annomodel version: dev\n")
	assert.Contains(t, out, "Go version: go")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("package: example.com/from/file\nlog_level: debug\n"), 0644))

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("package", "", "")
	cmd.Flags().String("file-name", "", "")
	require.NoError(t, cmd.Flags().Set("file-name", "custom.go"))

	cfg, err := loadConfig(newViper(), cmd, cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "example.com/from/file", cfg.Package)
	assert.Equal(t, "custom.go", cfg.FileName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "github.com/jhump/annomodel", cfg.RuntimePackage)

	// flags win over the file
	require.NoError(t, cmd.Flags().Set("package", "example.com/from/flag"))
	cfg, err = loadConfig(newViper(), cmd, cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "example.com/from/flag", cfg.Package)

	_, err = loadConfig(newViper(), cmd, filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    config
		errMsg string
	}{
		{name: "ok", cfg: config{OutputDir: ".", LogLevel: "info", FileName: "x.go"}},
		{name: "bad level", cfg: config{OutputDir: ".", LogLevel: "loud"}, errMsg: `invalid log_level "loud"`},
		{name: "separator", cfg: config{OutputDir: ".", FileName: "a/b.go"}, errMsg: "must not contain a path separator"},
		{name: "not go", cfg: config{OutputDir: ".", FileName: "b.txt"}, errMsg: "must end in .go"},
		{name: "no output dir", cfg: config{}, errMsg: "output_dir must not be empty"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateConfig(&tc.cfg)
			if tc.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.errMsg)
			}
		})
	}

	lvl, err := parseLevel("error")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, lvl)
	// empty means info
	lvl, err = parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)
}
