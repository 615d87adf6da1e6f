package transcript

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
)

// clearMarker appears in the command echo the CLI writes when the user
// wipes the conversation.
const clearMarker = "<command-name>/clear</command-name>"

// Command echoes are transcript records of slash commands, not conversation.
var commandEchoPrefixes = []string{
	"<command-name>",
	"<local-command-stdout>",
}

// interruptPhrases mark a tool result or text block as a user interruption.
var interruptPhrases = []string{
	"[Request interrupted by user]",
	"[Request interrupted by user for tool use]",
	"Request interrupted by user",
}

// sessionState is the per-session parse checkpoint. The offset only moves
// forward, except on truncation where everything resets.
type sessionState struct {
	completed   map[string]bool
	everParsed  bool
	messages    []Message
	mu          sync.Mutex
	offset      int64
	results     map[string]ToolResult
	seenToolIDs map[string]bool
	structured  map[string]StructuredResult
	toolNames   map[string]string
}

func newSessionState() *sessionState {
	st := &sessionState{}
	st.resetDerived()
	return st
}

// resetDerived wipes everything derived from file content.
func (st *sessionState) resetDerived() {
	st.completed = make(map[string]bool)
	st.messages = nil
	st.offset = 0
	st.results = make(map[string]ToolResult)
	st.seenToolIDs = make(map[string]bool)
	st.structured = make(map[string]StructuredResult)
	st.toolNames = make(map[string]string)
}

// clearConversation wipes message and tool tracking but keeps the offset:
// the bytes before the clear marker stay committed.
func (st *sessionState) clearConversation() {
	st.completed = make(map[string]bool)
	st.messages = nil
	st.results = make(map[string]ToolResult)
	st.seenToolIDs = make(map[string]bool)
	st.structured = make(map[string]StructuredResult)
	st.toolNames = make(map[string]string)
}

// Parser incrementally reads session transcripts, tracking a byte-offset
// checkpoint per session id. Safe for concurrent use across different
// session ids; a single session is expected to have a single caller.
type Parser struct {
	mu      sync.Mutex
	roots   map[domain.AgentFamily]string
	states  map[string]*sessionState
	summary map[string]summaryCacheEntry
}

// NewParser creates a parser using the default per-agent transcript roots.
func NewParser() *Parser {
	return NewParserWithRoots(DefaultRoots())
}

// NewParserWithRoots creates a parser with explicit transcript roots.
func NewParserWithRoots(roots map[domain.AgentFamily]string) *Parser {
	return &Parser{
		roots:   roots,
		states:  make(map[string]*sessionState),
		summary: make(map[string]summaryCacheEntry),
	}
}

func (p *Parser) state(sessionID string) *sessionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.states[sessionID]
	if !ok {
		st = newSessionState()
		p.states[sessionID] = st
	}
	return st
}

// Reset drops the checkpoint for a session; the next parse starts from
// the beginning of the file.
func (p *Parser) Reset(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st, ok := p.states[sessionID]; ok {
		st.mu.Lock()
		st.resetDerived()
		st.everParsed = false
		st.mu.Unlock()
	}
}

// Remove forgets a session's checkpoint entirely.
func (p *Parser) Remove(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.states, sessionID)
}

// ParseIncremental reads any bytes appended to the session's transcript
// since the last call and folds them into the accumulated view. Filesystem
// errors yield a no-op result; they never propagate.
func (p *Parser) ParseIncremental(agent domain.AgentFamily, sessionID, cwd string) ParseResult {
	st := p.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	path := p.TranscriptPath(agent, sessionID, cwd)

	f, err := os.Open(path)
	if err != nil {
		return st.snapshot(nil, false, false)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return st.snapshot(nil, false, false)
	}
	size := info.Size()

	// Truncated or rotated: never resume into a smaller file.
	if size < st.offset {
		logging.Logger.Debug("transcript truncated, resetting checkpoint",
			"session_id", sessionID, "size", size, "offset", st.offset)
		st.resetDerived()
	}

	if size == st.offset {
		return st.snapshot(nil, false, false)
	}

	buf := make([]byte, size-st.offset)
	if _, err := f.ReadAt(buf, st.offset); err != nil {
		return st.snapshot(nil, false, false)
	}

	isFirstParse := !st.everParsed
	var newMessages []Message
	clearDetected := false
	interruptDetected := false

	for _, line := range strings.Split(string(buf), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Cheap substring classification before the full JSON decode.
		if strings.Contains(line, clearMarker) {
			st.clearConversation()
			newMessages = nil
			if !isFirstParse {
				clearDetected = true
			}
			continue
		}
		if !strings.Contains(line, `"type":"user"`) && !strings.Contains(line, `"type":"assistant"`) {
			continue
		}

		var entry rawEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		messages, interrupted := st.processEntry(entry)
		newMessages = append(newMessages, messages...)
		if interrupted {
			interruptDetected = true
		}
	}

	st.offset = size
	st.everParsed = true
	st.messages = append(st.messages, newMessages...)

	return st.snapshot(newMessages, clearDetected, interruptDetected)
}

// processEntry folds one transcript record into the state, returning the
// messages it produced and whether it carried an interruption signal.
func (st *sessionState) processEntry(entry rawEntry) ([]Message, bool) {
	if entry.Message == nil || entry.IsMeta || entry.IsCompactSummary {
		return nil, false
	}

	ts := parseTimestamp(entry.Timestamp)
	var usage *domain.TokenUsage
	if entry.Message.Usage != nil {
		usage = &domain.TokenUsage{
			CacheCreationTokens: entry.Message.Usage.CacheCreationInputTokens,
			CacheReadTokens:     entry.Message.Usage.CacheReadInputTokens,
			InputTokens:         entry.Message.Usage.InputTokens,
			OutputTokens:        entry.Message.Usage.OutputTokens,
		}
	}

	base := Message{
		Model:     entry.Message.Model,
		Role:      entry.Message.Role,
		Timestamp: ts,
		UUID:      entry.UUID,
		Usage:     usage,
	}

	var messages []Message
	interrupted := false

	appendText := func(text string) {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || isCommandEcho(trimmed) {
			return
		}
		msg := base
		msg.Text = text
		if startsWithInterruptPhrase(trimmed) {
			msg.Kind = MessageInterrupted
			interrupted = true
		} else {
			msg.Kind = MessageText
		}
		messages = append(messages, msg)
	}

	switch content := entry.Message.Content.(type) {
	case string:
		appendText(content)

	case []any:
		for _, block := range content {
			blockMap, ok := block.(map[string]any)
			if !ok {
				continue
			}
			switch blockMap["type"] {
			case "text":
				text, _ := blockMap["text"].(string)
				appendText(text)

			case "thinking":
				thinking, _ := blockMap["thinking"].(string)
				if strings.TrimSpace(thinking) == "" {
					continue
				}
				msg := base
				msg.Kind = MessageThinking
				msg.Thinking = thinking
				messages = append(messages, msg)

			case "tool_use":
				id, _ := blockMap["id"].(string)
				if id == "" || st.seenToolIDs[id] {
					continue
				}
				st.seenToolIDs[id] = true
				name, _ := blockMap["name"].(string)
				st.toolNames[id] = name
				input, _ := blockMap["input"].(map[string]any)
				msg := base
				msg.Kind = MessageToolUse
				msg.ToolID = id
				msg.ToolInput = input
				msg.ToolName = name
				messages = append(messages, msg)

			case "tool_result":
				if st.recordToolResult(entry, blockMap) {
					interrupted = true
				}
			}
		}
	}

	return messages, interrupted
}

// recordToolResult stores the raw and structured outcome of one tool call,
// returning true when the result is an interruption.
func (st *sessionState) recordToolResult(entry rawEntry, block map[string]any) bool {
	id, _ := block["tool_use_id"].(string)
	if id == "" {
		return false
	}

	isError, _ := block["is_error"].(bool)
	content := extractResultContent(block["content"])

	result := ToolResult{
		Content:     content,
		Interrupted: isError && containsInterruptPhrase(content),
		IsError:     isError,
		ToolUseID:   id,
	}

	structured, ok := decodeStructured(st.toolNames[id], entry.ToolUseResult)
	if ok {
		result.Stdout = structured.Stdout
		result.Stderr = structured.Stderr
		if structured.Interrupted {
			result.Interrupted = true
		}
		st.structured[id] = structured
	}

	st.completed[id] = true
	st.results[id] = result

	return result.Interrupted
}

// snapshot builds a result with copies of the accumulated state so callers
// can hold it across subsequent parses.
func (st *sessionState) snapshot(newMessages []Message, clearDetected, interruptDetected bool) ParseResult {
	all := make([]Message, len(st.messages))
	copy(all, st.messages)

	completed := make(map[string]bool, len(st.completed))
	for id := range st.completed {
		completed[id] = true
	}
	results := make(map[string]ToolResult, len(st.results))
	for id, r := range st.results {
		results[id] = r
	}
	structured := make(map[string]StructuredResult, len(st.structured))
	for id, r := range st.structured {
		structured[id] = r
	}

	return ParseResult{
		AllMessages:       all,
		ClearDetected:     clearDetected,
		CompletedToolIDs:  completed,
		InterruptDetected: interruptDetected,
		NewMessages:       newMessages,
		StructuredResults: structured,
		ToolResults:       results,
	}
}

// extractResultContent flattens a tool_result content field, which may be
// a plain string or an array of text blocks.
func extractResultContent(raw any) string {
	switch content := raw.(type) {
	case string:
		return content
	case []any:
		var sb strings.Builder
		for _, item := range content {
			if itemMap, ok := item.(map[string]any); ok {
				if text, ok := itemMap["text"].(string); ok {
					sb.WriteString(text)
				}
			}
		}
		return sb.String()
	default:
		b, _ := json.Marshal(raw)
		return string(b)
	}
}

func isCommandEcho(text string) bool {
	for _, prefix := range commandEchoPrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func startsWithInterruptPhrase(text string) bool {
	for _, phrase := range interruptPhrases {
		if strings.HasPrefix(text, phrase) {
			return true
		}
	}
	return false
}

func containsInterruptPhrase(text string) bool {
	for _, phrase := range interruptPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}
