package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse("pipeline.yaml", []byte(`
concurrency: 3
log:
  level: debug
  human: true
stages:
  - use: frontmatter
  - parallel: [words, lines]
    settle: true
  - series: [trim, upper]
`))
	require.NoError(t, err)

	want := &Config{
		Concurrency: 3,
		Log:         LogConfig{Level: "debug", Human: true},
		Stages: []StageSpec{
			{Use: "frontmatter"},
			{Parallel: []string{"words", "lines"}, Settle: true},
			{Series: []string{"trim", "upper"}},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"words", "lines"}, cfg.Stages[1].Names())
	assert.Equal(t, "parallel", cfg.Stages[1].Label())
	assert.Equal(t, "series", cfg.Stages[2].Label())
	assert.Equal(t, "frontmatter", cfg.Stages[0].Label())
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := map[string]struct {
		yaml  string
		field string
	}{
		"no stages":       {"concurrency: 1\n", "Config.Stages"},
		"two kinds":       {"stages:\n  - use: a\n    series: [b]\n", "Config.Stages[0].Use"},
		"none set":        {"stages:\n  - settle: false\n", "Config.Stages[0].Use"},
		"bad name":        {"stages:\n  - use: Not Valid\n", "Config.Stages[0].Use"},
		"bad member":      {"stages:\n  - parallel: [ok, 'x y']\n", "Config.Stages[0].Parallel[1]"},
		"settle alone":    {"stages:\n  - use: a\n    settle: true\n", "Config.Stages[0].Settle"},
		"bad level":       {"log: {level: loud}\nstages:\n  - use: a\n", "Config.Log.Level"},
		"bad concurrency": {"concurrency: -1\nstages:\n  - use: a\n", "Config.Concurrency"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("p.yaml", []byte(tc.yaml))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.NotEmpty(t, verr.Rule)
			assert.True(t, strings.HasPrefix(err.Error(), "invalid pipeline: "+tc.field+" "), err.Error())
		})
	}
}

func TestParse_SyntaxErrorHasLine(t *testing.T) {
	_, err := Parse("p.yaml", []byte("stages:\n  - use: a\n  bogus: [\n"))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "p.yaml", perr.Path)
	assert.Positive(t, perr.Line)
	assert.True(t, strings.HasPrefix(err.Error(), fmt.Sprintf("pipeline p.yaml:%d: ", perr.Line)), err.Error())
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse("p.yaml", []byte("stages:\n  - use: a\nworkers: 2\n"))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stages:\n  - use: count\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "count", cfg.Stages[0].Use)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateConfig_Nil(t *testing.T) {
	var verr *ValidationError
	assert.ErrorAs(t, ValidateConfig(nil), &verr)
}
