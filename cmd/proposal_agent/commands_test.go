package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opinity/proposal-generator/internal/export"
	"github.com/opinity/proposal-generator/internal/llm"
)

const extendedResponse = `{
	"challenge": "Releases wait three days on manual approvals.",
	"approach": "Two DevOps Engineers for eighty hours.",
	"solution": "CI/CD pipelines and a Value Stream Mapping session.",
	"trinityFocus": "Happy Engineers, DevOps Mindset, Winning Together.",
	"investment": "2 engineers x 80 hours = €22,400.",
	"vsmSession": "Half a day with the delivery team, €1600.",
	"doraMetrics": "Deployment frequency, lead time, change failure rate, MTTR.",
	"azureDevOpsExport": {
		"projectMission": "Ship to production daily.",
		"userStories": [
			{"id": "US-001", "title": "Pipeline", "description": "As a developer, I want CI, so that I get feedback.", "acceptanceCriteria": ["builds on push"], "priority": "High"},
			{"id": "US-002", "title": "Metrics", "description": "As a lead, I want DORA metrics, so that I see flow.", "acceptanceCriteria": ["dashboard", "weekly report"], "priority": "Medium"}
		]
	}
}`

type fakeClient struct {
	response   string
	transcript string
	prompts    []string
	audio      []llm.AudioRequest
}

func (c *fakeClient) GenerateStructured(_ context.Context, req llm.StructuredRequest, _ llm.ModelTier) (string, error) {
	c.prompts = append(c.prompts, req.Prompt)
	return c.response, nil
}

func (c *fakeClient) Transcribe(_ context.Context, req llm.AudioRequest, _ llm.ModelTier) (string, error) {
	c.audio = append(c.audio, req)
	return c.transcript, nil
}

func (c *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (c *fakeClient) Close() error                  { return nil }

func init() {
	color.NoColor = true
}

// useFakeClient swaps the provider factory and pins the environment the config reads.
func useFakeClient(t *testing.T, apiKey string) *fakeClient {
	t.Helper()
	client := &fakeClient{response: extendedResponse, transcript: "we need faster releases"}

	previous := newLLMClient
	newLLMClient = func(context.Context, *llm.Config, string) (llm.Client, error) { return client, nil }
	t.Cleanup(func() { newLLMClient = previous })

	t.Setenv("GEMINI_API_KEY", apiKey)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("PROPOSAL_LANGUAGE", "")
	t.Setenv("PROPOSAL_VARIANT", "")
	t.Setenv("LINKEDIN_ENRICH", "")
	t.Setenv("LOG_MODE", "prod")
	return client
}

// resetFlags restores every flag to its default so tests do not leak values into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeNotes(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerateCommand_LinkedInSlugWithoutEnrichment(t *testing.T) {
	client := useFakeClient(t, "test-key")
	notes := writeNotes(t, "Deployments take 3 days.")

	out, err := executeCommand(t, "generate", "-i", notes, "--out-dir", t.TempDir(), "--format", "json",
		"--linkedin", "https://www.linkedin.com/in/jane-doe-cto/")
	require.NoError(t, err, out)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Detected audience: technical leader.")
	assert.NotContains(t, client.prompts[0], "Public profile headline")
}

func TestGenerateCommand_WritesExports(t *testing.T) {
	client := useFakeClient(t, "test-key")
	notes := writeNotes(t, "Client: TechCorp. Deployments take 3 days.")
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := executeCommand(t, "generate", "-i", notes, "--out-dir", outDir, "--engineers", "3", "--hours", "40")
	require.NoError(t, err, out)

	for _, name := range []string{export.PDFFileName, export.JSONFileName, export.CSVFileName} {
		assert.FileExists(t, filepath.Join(outDir, name))
		assert.Contains(t, out, name)
	}

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Client: TechCorp.")
	assert.Contains(t, client.prompts[0], "16,800")

	data, err := os.ReadFile(filepath.Join(outDir, export.CSVFileName))
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"US-002", "Metrics", "As a lead, I want DORA metrics, so that I see flow.", "Medium", "dashboard; weekly report"}, records[2])

	pdf, err := os.ReadFile(filepath.Join(outDir, export.PDFFileName))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestGenerateCommand_DutchVerbose(t *testing.T) {
	client := useFakeClient(t, "test-key")
	notes := writeNotes(t, "Klant wil sneller releasen.")
	outDir := t.TempDir()

	out, err := executeCommand(t, "generate", "-i", notes, "-o", outDir, "--lang", "nl", "--format", "json", "--verbose")
	require.NoError(t, err, out)

	assert.Contains(t, out, "BUDGET ESTIMATE")
	assert.Contains(t, out, "€22.400")
	assert.Contains(t, out, "GENERATED PROPOSAL")
	assert.Contains(t, out, "US-001 [High] Pipeline")
	assert.Contains(t, client.prompts[0], "Dutch")

	var doc map[string]any
	data, err := os.ReadFile(filepath.Join(outDir, export.JSONFileName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	meta := doc["metadata"].(map[string]any)
	assert.Equal(t, "nl", meta["language"])
	assert.NoFileExists(t, filepath.Join(outDir, export.PDFFileName))
}

func TestGenerateCommand_BasicSkipsBacklogExports(t *testing.T) {
	client := useFakeClient(t, "test-key")
	client.response = `{"challenge": "c", "approach": "a", "solution": "s", "trinityFocus": "t", "investment": "i"}`
	notes := writeNotes(t, "notes")
	outDir := t.TempDir()

	out, err := executeCommand(t, "generate", "-i", notes, "-o", outDir, "--variant", "basic")
	require.NoError(t, err, out)

	assert.FileExists(t, filepath.Join(outDir, export.PDFFileName))
	assert.NoFileExists(t, filepath.Join(outDir, export.JSONFileName))
	assert.NoFileExists(t, filepath.Join(outDir, export.CSVFileName))
	assert.Contains(t, out, "skipping json export")
}

func TestGenerateCommand_Bundle(t *testing.T) {
	useFakeClient(t, "test-key")
	notes := writeNotes(t, "notes")
	outDir := t.TempDir()

	out, err := executeCommand(t, "generate", "-i", notes, "-o", outDir, "--format", "bundle,bundle")
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(outDir, export.BundleFileName))
}

func TestGenerateCommand_MissingKey(t *testing.T) {
	client := useFakeClient(t, "")
	notes := writeNotes(t, "notes")

	_, err := executeCommand(t, "generate", "-i", notes, "-o", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, "API Key is missing.", err.Error())
	assert.Empty(t, client.prompts)
}

func TestGenerateCommand_MalformedResponse(t *testing.T) {
	client := useFakeClient(t, "test-key")
	client.response = `{"challenge": "only this"}`
	notes := writeNotes(t, "notes")
	outDir := t.TempDir()

	_, err := executeCommand(t, "generate", "-i", notes, "-o", outDir)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "AI generated an invalid format. Please try again.: "), err.Error())
	assert.NoFileExists(t, filepath.Join(outDir, export.PDFFileName))
}

func TestGenerateCommand_InputErrors(t *testing.T) {
	useFakeClient(t, "test-key")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing flag", []string{"generate"}, `required flag(s) "in" not set`},
		{"empty notes", []string{"generate", "-i", writeNotes(t, "  \n")}, "is empty"},
		{"unknown format", []string{"generate", "-i", writeNotes(t, "x"), "--format", "docx"}, `unknown export format "docx"`},
		{"bad language", []string{"generate", "-i", writeNotes(t, "x"), "--lang", "fr"}, "unsupported language"},
		{"bad variant", []string{"generate", "-i", writeNotes(t, "x"), "--variant", "full"}, "unsupported proposal variant"},
		{"zero engineers", []string{"generate", "-i", writeNotes(t, "x"), "--engineers", "0"}, "validation failed"},
		{"missing file", []string{"generate", "-i", filepath.Join(t.TempDir(), "nope.txt")}, "failed to read notes file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTranscribeCommand(t *testing.T) {
	client := useFakeClient(t, "test-key")
	path := filepath.Join(t.TempDir(), "note.webm")
	require.NoError(t, os.WriteFile(path, []byte{0x1A, 0x45, 0xDF, 0xA3, 0x42, 0x82, 0x84, 'w', 'e', 'b', 'm'}, 0o644))

	out, err := executeCommand(t, "transcribe", "--audio", path, "--lang", "nl")
	require.NoError(t, err)
	assert.Equal(t, "we need faster releases\n", out)

	require.Len(t, client.audio, 1)
	assert.Equal(t, "nl", client.audio[0].Language)
}

func TestTranscribeCommand_EmptyFile(t *testing.T) {
	useFakeClient(t, "test-key")
	path := filepath.Join(t.TempDir(), "empty.wav")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := executeCommand(t, "transcribe", "--audio", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read audio file")
}

func TestExportSchemaCommand(t *testing.T) {
	out, err := executeCommand(t, "export-schema")
	require.NoError(t, err)
	assert.Contains(t, out, "azureDevOpsExport")
	assert.True(t, json.Valid([]byte(out)))

	out, err = executeCommand(t, "export-schema", "--variant", "basic")
	require.NoError(t, err)
	assert.NotContains(t, out, "azureDevOpsExport")
	assert.Contains(t, out, "trinityFocus")

	out, err = executeCommand(t, "export-schema", "--llm")
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, false, schema["additionalProperties"])

	_, err = executeCommand(t, "export-schema", "--variant", "huge")
	assert.Error(t, err)
}

func TestParseFormats(t *testing.T) {
	formats, err := parseFormats(" PDF, csv,pdf ,")
	require.NoError(t, err)
	assert.Equal(t, []export.Format{export.FormatPDF, export.FormatCSV}, formats)

	_, err = parseFormats(" , ")
	assert.Error(t, err)
}
