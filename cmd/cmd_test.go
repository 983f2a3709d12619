package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/search"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEnumValue(t *testing.T) {
	var target string
	v := newEnumValue(&target, "text", "text", "json")
	assert.Equal(t, "text", v.String())

	require.NoError(t, v.Set(" JSON "))
	assert.Equal(t, "json", target)

	err := v.Set("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text, json")
	assert.Equal(t, "json", target)
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort("8080"))
	assert.NoError(t, ValidatePort("1"))
	assert.Error(t, ValidatePort("0"))
	assert.Error(t, ValidatePort("65536"))
	assert.Error(t, ValidatePort("http"))
}

func TestServerFlagsRejectBadPort(t *testing.T) {
	c := &cobra.Command{Use: "x"}
	flags := AddStandardFlags(c, "server")

	require.NoError(t, c.Flags().Set("port", "9000"))
	assert.Equal(t, 9000, flags.Port)

	assert.Error(t, c.Flags().Set("port", "70000"))
	assert.Equal(t, 9000, flags.Port)

	assert.Error(t, c.Flags().Set("env", "staging"))
	require.NoError(t, c.Flags().Set("env", "production"))
	assert.Equal(t, "production", flags.Environment)
}

func TestRenderSearch(t *testing.T) {
	var buf bytes.Buffer
	renderSearch(&buf, search.Result{
		Query:    "cloud",
		Active:   true,
		Courses:  []search.CourseItem{{Title: "Cloud Security", Target: "/courses/cloud-security"}},
		Articles: []search.ArticleItem{{Title: "Top 5 Cloud Security Tips for 2025", Target: "/blog/cloud-tips"}},
	})
	out := buf.String()
	assert.Contains(t, out, "Courses")
	assert.Contains(t, out, "(1)")
	assert.Contains(t, out, "Cloud Security")
	assert.Contains(t, out, "/blog/cloud-tips")

	assert.Less(t, strings.Index(out, "Courses"), strings.Index(out, "Articles"))

	buf.Reset()
	renderSearch(&buf, search.Result{Query: "zzz", Active: true})
	assert.Equal(t, "No results found for \"zzz\"\n", buf.String())

	buf.Reset()
	renderSearch(&buf, search.Filter("   ", nil, nil))
	assert.Equal(t, "Enter a search term\n", buf.String())
}

func TestSearchCommandBlankQuery(t *testing.T) {
	out, err := execute(t, "search", "   ", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter a search term")
}

func TestSearchCommandJSON(t *testing.T) {
	out, err := execute(t, "search", "cloud", "--format", "json")
	require.NoError(t, err)

	start := strings.Index(out, "{")
	require.GreaterOrEqual(t, start, 0, out)

	var res search.Result
	require.NoError(t, json.Unmarshal([]byte(out[start:]), &res))
	assert.Equal(t, "cloud", res.Query)
	assert.NotEmpty(t, res.Courses)
}

func TestBuildValidationReport(t *testing.T) {
	cfg, err := config.Decode(viper.New())
	require.NoError(t, err)

	dir := t.TempDir()
	cfg.Content.SyllabusDir = dir

	report := buildValidationReport(cfg)
	assert.True(t, report.Valid)
	assert.Equal(t, 6, report.Courses)
	assert.Equal(t, 6, missingSyllabi(report), "every syllabus is missing")
	assert.Contains(t, report.Warnings, "mail.mode: messages are logged, not delivered")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ethical-hacking.pdf"), []byte("%PDF"), 0o644))
	assert.Equal(t, 5, missingSyllabi(buildValidationReport(cfg)))

	cfg.Server.Environment = "staging"
	cfg.Content.CatalogPath = filepath.Join(dir, "missing.yaml")
	report = buildValidationReport(cfg)
	assert.False(t, report.Valid)
	assert.Len(t, report.Errors, 2)
}

func missingSyllabi(r ValidationReport) int {
	n := 0
	for _, w := range r.Warnings {
		if strings.HasPrefix(w, "syllabus missing for ") {
			n++
		}
	}
	return n
}

func TestPrintValidationReport(t *testing.T) {
	var buf bytes.Buffer
	printValidationReport(&buf, ValidationReport{Valid: true, Courses: 6, Articles: 5, Warnings: []string{"syllabus missing"}})
	assert.Contains(t, buf.String(), "syllabus missing")
	assert.Contains(t, buf.String(), "configuration valid, 6 courses, 5 articles")
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	start := strings.Index(out, "{")
	require.GreaterOrEqual(t, start, 0, out)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out[start:]), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
	assert.Contains(t, info, "is_release")
}
