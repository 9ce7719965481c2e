package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"cinematch/internal/catalog"
	"cinematch/internal/ledger"
)

const testMoviesCSV = "title,genres,overview,keywords,cast,director\n" +
	"A,Action,,,,\n" +
	"B,Action,,,,\n" +
	"C,Drama,,,,\n" +
	"The Dark Knight,Crime,Gotham vigilante,,,\n" +
	"Dark City,Noir,,,,\n"

type cliTestEnv struct {
	baseDir      string
	configPath   string
	datasetPath  string
	artifactPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("CINEMATCH_DATASET", "")
	t.Setenv("CINEMATCH_ARTIFACT", "")

	env := &cliTestEnv{
		baseDir:      base,
		configPath:   filepath.Join(base, "cinematch.toml"),
		datasetPath:  filepath.Join(base, "data", "movies.csv"),
		artifactPath: filepath.Join(base, "models", "similarity.bin"),
	}
	if err := os.MkdirAll(filepath.Dir(env.datasetPath), 0o755); err != nil {
		t.Fatalf("mkdir data: %v", err)
	}
	if err := os.WriteFile(env.datasetPath, []byte(testMoviesCSV), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	cfg := fmt.Sprintf(`[paths]
dataset = %q
artifact = %q
state_dir = %q
log_dir = %q

[logging]
level = "error"
`, env.datasetPath, env.artifactPath, filepath.Join(base, "state"), filepath.Join(base, "logs"))
	if err := os.WriteFile(env.configPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, input string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(input))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestRecommendPrintsNumberedList(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"recommend", "-n", "2", "A"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	want := "Recommended Movies:\n1. B\n2. C\n"
	if out != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", out, want)
	}
	if _, err := os.Stat(env.artifactPath); err != nil {
		t.Fatalf("expected artifact to be built: %v", err)
	}
}

func TestRecommendUsesConfiguredDefaultCount(t *testing.T) {
	env := setupCLITestEnv(t)
	f, err := os.OpenFile(env.configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	if _, err := f.WriteString("\n[recommend]\ndefault_count = 1\n"); err != nil {
		t.Fatalf("append config: %v", err)
	}
	f.Close()

	out, _, err := runCLI(t, []string{"recommend", "A"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if want := "Recommended Movies:\n1. B\n"; out != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", out, want)
	}
}

func TestRecommendJoinsMultiWordTitle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"recommend", "-n", "1", "The", "Dark", "Knight"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	requireContains(t, out, "1. Dark City")
}

func TestRecommendUnknownTitleIsSoftFailure(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"recommend", "dark"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if strings.TrimSpace(out) != catalog.NotFoundMessage {
		t.Fatalf("unexpected output %q", out)
	}

	out, _, err = runCLI(t, []string{"recommend", "--suggest", "dark"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend --suggest: %v", err)
	}
	requireContains(t, out, catalog.NotFoundMessage)
	requireContains(t, out, "Did you mean:")
	requireContains(t, out, "  - The Dark Knight\n  - Dark City\n")
}

func TestRecommendJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"recommend", "--json", "-n", "2", "A"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend --json: %v", err)
	}
	var payload recommendJSON
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if !payload.Found || payload.Query != "A" || len(payload.Recommendations) != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Recommendations[0].Title != "B" || payload.Recommendations[0].Rank != 1 || payload.Recommendations[0].Score <= 0 {
		t.Fatalf("unexpected first recommendation %+v", payload.Recommendations[0])
	}

	out, _, err = runCLI(t, []string{"recommend", "--json", "Nope"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend --json: %v", err)
	}
	payload = recommendJSON{}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if payload.Found || payload.Message != catalog.NotFoundMessage || len(payload.Recommendations) != 0 {
		t.Fatalf("unexpected not-found payload %+v", payload)
	}
}

func TestRecommendScoresTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"recommend", "--scores", "-n", "2", "A"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend --scores: %v", err)
	}
	requireContains(t, out, "SCORE")
	requireContains(t, out, "1.0000")
	requireContains(t, out, "0.0000")
}

func TestRecommendReadsTitleFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLIWithInput(t, []string{"recommend", "-n", "1"}, env.configPath, "The Dark Knight\n")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if out != "Recommended Movies:\n1. Dark City\n" {
		t.Fatalf("unexpected output %q", out)
	}

	_, _, err = runCLI(t, []string{"recommend"}, env.configPath)
	if !errors.Is(err, errNoTitle) {
		t.Fatalf("expected errNoTitle for empty stdin, got %v", err)
	}
}

func TestReadTitle(t *testing.T) {
	var out bytes.Buffer
	title, err := readTitle(strings.NewReader("  Heat \r\n"), &out, true)
	if err != nil {
		t.Fatalf("readTitle: %v", err)
	}
	if title != "  Heat " || out.String() != titlePrompt {
		t.Fatalf("title %q, prompt %q", title, out.String())
	}

	out.Reset()
	title, err = readTitle(strings.NewReader("Heat"), &out, false)
	if err != nil || title != "Heat" || out.Len() != 0 {
		t.Fatalf("title %q, err %v, prompt %q", title, err, out.String())
	}

	if _, err := readTitle(strings.NewReader(""), &out, false); !errors.Is(err, errNoTitle) {
		t.Fatalf("expected errNoTitle, got %v", err)
	}
}

func TestRecommendMissingDataset(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(env.datasetPath); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"recommend", "A"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing dataset")
	}
	requireContains(t, err.Error(), "movies dataset not found")
	requireContains(t, err.Error(), env.datasetPath)
}

func TestBuildInfoAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "Built similarity matrix: 5 movies")

	out, _, err = runCLI(t, []string{"build"}, env.configPath)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	requireContains(t, out, "Artifact up to date: 5 movies")

	out, _, err = runCLI(t, []string{"build", "--force", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("build --force: %v", err)
	}
	var summary buildJSON
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode build json: %v", err)
	}
	if summary.Source != string(catalog.SourceBuilt) || summary.Movies != 5 || summary.ArtifactPath != env.artifactPath {
		t.Fatalf("unexpected build summary %+v", summary)
	}

	out, _, err = runCLI(t, []string{"info"}, env.configPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "Up to date")
	requireContains(t, out, summary.BuildID)
	requireContains(t, out, "Recorded builds")

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var builds []ledger.Build
	if err := json.Unmarshal([]byte(out), &builds); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(builds) != 3 {
		t.Fatalf("expected 3 recorded builds, got %d", len(builds))
	}
	if builds[0].ID != summary.BuildID || builds[1].Status != ledger.StatusReused || builds[2].Status != ledger.StatusBuilt {
		t.Fatalf("unexpected history %+v", builds)
	}

	out, _, err = runCLI(t, []string{"history", "-n", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("history table: %v", err)
	}
	requireContains(t, out, "BUILD ID")
	requireContains(t, out, summary.BuildID)
}

func TestInfoWithoutArtifact(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"info", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	var info infoJSON
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.ArtifactPresent || info.UpToDate || info.DatasetSHA256 == "" {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.datasetPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "cinematch dev")
}
