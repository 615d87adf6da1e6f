package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/farol/internal/domain"
)

const (
	testSessionID = "11111111-2222-3333-4444-555555555555"
	testCWD       = "/home/dev/project"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	root := t.TempDir()
	parser := NewParserWithRoots(map[domain.AgentFamily]string{
		domain.AgentClaude: root,
		domain.AgentCodex:  root,
		domain.AgentGemini: root,
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, FlattenCWD(testCWD)), 0755))
	return parser
}

func writeTranscript(t *testing.T, p *Parser, lines ...string) string {
	t.Helper()
	path := p.TranscriptPath(domain.AgentClaude, testSessionID, testCWD)
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func appendTranscript(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer f.Close()
	for _, line := range lines {
		_, err := f.WriteString(line + "\n")
		require.NoError(t, err)
	}
}

const (
	userHello = `{"type":"user","uuid":"u1","timestamp":"2026-01-02T10:00:00Z","message":{"role":"user","content":"hello world"}}`

	assistantToolUse = `{"type":"assistant","uuid":"a1","timestamp":"2026-01-02T10:00:01Z","message":{"id":"msg_1","role":"assistant","model":"claude-sonnet-4-5","usage":{"input_tokens":10,"output_tokens":5},"content":[{"type":"text","text":"Listing files"},{"type":"tool_use","id":"toolu_1","name":"Bash","input":{"command":"ls"}}]}}`

	bashResult = `{"type":"user","uuid":"u2","timestamp":"2026-01-02T10:00:02Z","toolUseResult":{"stdout":"a.txt\nb.txt","stderr":"","interrupted":false},"message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"toolu_1","content":"a.txt\nb.txt","is_error":false}]}}`

	assistantDone = `{"type":"assistant","uuid":"a2","timestamp":"2026-01-02T10:00:03Z","message":{"id":"msg_2","role":"assistant","model":"claude-sonnet-4-5","usage":{"input_tokens":20,"output_tokens":8},"content":[{"type":"text","text":"Two files found"}]}}`

	clearEcho = `{"type":"user","uuid":"u3","timestamp":"2026-01-02T10:00:04Z","message":{"role":"user","content":"<command-name>/clear</command-name>"}}`

	interruptedText = `{"type":"user","uuid":"u4","timestamp":"2026-01-02T10:00:05Z","message":{"role":"user","content":[{"type":"text","text":"[Request interrupted by user]"}]}}`
)

func TestParseIncrementalAppendsOnly(t *testing.T) {
	p := newTestParser(t)
	path := writeTranscript(t, p, userHello, assistantToolUse)

	first := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)
	require.Len(t, first.NewMessages, 3) // user text + assistant text + tool use
	assert.Len(t, first.AllMessages, 3)

	appendTranscript(t, path, bashResult, assistantDone)

	second := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)

	// Committed bytes are never reprocessed: only the appended records
	// produce new messages, and nothing is duplicated.
	require.Len(t, second.NewMessages, 1)
	assert.Equal(t, "Two files found", second.NewMessages[0].Text)
	assert.Len(t, second.AllMessages, 4)
	assert.True(t, second.CompletedToolIDs["toolu_1"])
}

func TestParseIncrementalNoopPoll(t *testing.T) {
	p := newTestParser(t)
	writeTranscript(t, p, userHello)

	first := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)
	require.Len(t, first.NewMessages, 1)

	second := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)
	assert.Empty(t, second.NewMessages)
	assert.Len(t, second.AllMessages, 1)
}

func TestParseIncrementalTruncationResets(t *testing.T) {
	p := newTestParser(t)
	writeTranscript(t, p, userHello, assistantToolUse, bashResult)

	first := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)
	require.Len(t, first.AllMessages, 3)
	require.True(t, first.CompletedToolIDs["toolu_1"])

	// Rewrite the file smaller than the committed offset.
	writeTranscript(t, p, userHello)

	second := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)

	assert.Len(t, second.AllMessages, 1)
	assert.Equal(t, "hello world", second.AllMessages[0].Text)
	assert.Empty(t, second.CompletedToolIDs)
	assert.Empty(t, second.ToolResults)
}

func TestParseIncrementalClear(t *testing.T) {
	p := newTestParser(t)

	t.Run("clear on first read is silent", func(t *testing.T) {
		path := writeTranscript(t, p, userHello, clearEcho, assistantDone)

		result := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)

		assert.False(t, result.ClearDetected)
		require.Len(t, result.AllMessages, 1)
		assert.Equal(t, "Two files found", result.AllMessages[0].Text)

		// Later clears are flagged and wipe accumulated state.
		appendTranscript(t, path, clearEcho, userHello)

		result = p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)

		assert.True(t, result.ClearDetected)
		require.Len(t, result.AllMessages, 1)
		assert.Equal(t, "hello world", result.AllMessages[0].Text)
	})
}

func TestParseIncrementalInterrupts(t *testing.T) {
	p := newTestParser(t)

	t.Run("interrupted text message", func(t *testing.T) {
		writeTranscript(t, p, userHello, interruptedText)

		result := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)

		assert.True(t, result.InterruptDetected)
		require.Len(t, result.AllMessages, 2)
		assert.Equal(t, MessageInterrupted, result.AllMessages[1].Kind)
	})

	t.Run("interrupted tool result", func(t *testing.T) {
		p := newTestParser(t)
		interruptedResult := `{"type":"user","uuid":"u5","timestamp":"2026-01-02T10:00:06Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"toolu_1","content":"[Request interrupted by user for tool use]","is_error":true}]}}`
		writeTranscript(t, p, assistantToolUse, interruptedResult)

		result := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)

		assert.True(t, result.InterruptDetected)
		require.Contains(t, result.ToolResults, "toolu_1")
		assert.True(t, result.ToolResults["toolu_1"].Interrupted)
		assert.True(t, result.ToolResults["toolu_1"].IsError)
	})
}

func TestParseIncrementalStructuredResults(t *testing.T) {
	p := newTestParser(t)

	readUse := `{"type":"assistant","uuid":"a3","timestamp":"2026-01-02T10:01:00Z","message":{"id":"msg_3","role":"assistant","content":[{"type":"tool_use","id":"toolu_2","name":"Read","input":{"file_path":"/tmp/notes.txt"}}]}}`
	readResult := `{"type":"user","uuid":"u6","timestamp":"2026-01-02T10:01:01Z","toolUseResult":{"type":"text","file":{"filePath":"/tmp/notes.txt","content":"line one","numLines":1}},"message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"toolu_2","content":"line one","is_error":false}]}}`
	mcpUse := `{"type":"assistant","uuid":"a4","timestamp":"2026-01-02T10:01:02Z","message":{"id":"msg_4","role":"assistant","content":[{"type":"tool_use","id":"toolu_3","name":"mcp__github__get_issue","input":{"number":7}}]}}`
	mcpResult := `{"type":"user","uuid":"u7","timestamp":"2026-01-02T10:01:03Z","toolUseResult":{"issue":{"number":7,"title":"bug"}},"message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"toolu_3","content":"issue 7","is_error":false}]}}`

	writeTranscript(t, p, assistantToolUse, bashResult, readUse, readResult, mcpUse, mcpResult)

	result := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)

	bash := result.StructuredResults["toolu_1"]
	assert.Equal(t, ResultBash, bash.Kind)
	assert.Equal(t, "a.txt\nb.txt", bash.Stdout)

	read := result.StructuredResults["toolu_2"]
	assert.Equal(t, ResultRead, read.Kind)
	assert.Equal(t, "/tmp/notes.txt", read.FilePath)
	assert.Equal(t, 1, read.NumLines)

	mcp := result.StructuredResults["toolu_3"]
	assert.Equal(t, ResultGeneric, mcp.Kind)
	assert.Contains(t, mcp.Raw, `"number":7`)
}

func TestParseIncrementalToolUseDeduplicated(t *testing.T) {
	p := newTestParser(t)

	// Streamed assistant records repeat the same tool_use block.
	writeTranscript(t, p, assistantToolUse, assistantToolUse)

	result := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)

	toolUses := 0
	for _, msg := range result.AllMessages {
		if msg.Kind == MessageToolUse {
			toolUses++
		}
	}
	assert.Equal(t, 1, toolUses)
}

func TestParseIncrementalSkipsMetaAndEchoes(t *testing.T) {
	p := newTestParser(t)

	meta := `{"type":"user","uuid":"u8","isMeta":true,"message":{"role":"user","content":"internal caveat"}}`
	echo := `{"type":"user","uuid":"u9","message":{"role":"user","content":"<command-name>/status</command-name>"}}`
	stdout := `{"type":"user","uuid":"u10","message":{"role":"user","content":"<local-command-stdout>ok</local-command-stdout>"}}`

	writeTranscript(t, p, meta, echo, stdout, userHello)

	result := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)

	require.Len(t, result.AllMessages, 1)
	assert.Equal(t, "hello world", result.AllMessages[0].Text)
}

func TestParseIncrementalMissingFile(t *testing.T) {
	p := newTestParser(t)

	result := p.ParseIncremental(domain.AgentClaude, "no-such-session", testCWD)

	assert.Empty(t, result.AllMessages)
	assert.Empty(t, result.NewMessages)
	assert.False(t, result.InterruptDetected)
}

func TestParserReset(t *testing.T) {
	p := newTestParser(t)
	writeTranscript(t, p, userHello, assistantDone)

	first := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)
	require.Len(t, first.AllMessages, 2)

	p.Reset(testSessionID)

	second := p.ParseIncremental(domain.AgentClaude, testSessionID, testCWD)
	assert.Len(t, second.NewMessages, 2)
	assert.Len(t, second.AllMessages, 2)
}

func TestFlattenCWD(t *testing.T) {
	tests := []struct {
		cwd      string
		expected string
	}{
		{cwd: "/home/dev/project", expected: "-home-dev-project"},
		{cwd: "/Users/dev/my.app", expected: "-Users-dev-my-app"},
		{cwd: "relative/path", expected: "relative-path"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FlattenCWD(tt.cwd))
	}
}
