package transcript

import "encoding/json"

// rawEntry is one line of the JSONL transcript.
type rawEntry struct {
	CWD              string          `json:"cwd"`
	IsCompactSummary bool            `json:"isCompactSummary"`
	IsMeta           bool            `json:"isMeta"`
	Message          *rawMessage     `json:"message"`
	Summary          string          `json:"summary"`
	Timestamp        string          `json:"timestamp"`
	ToolUseResult    json.RawMessage `json:"toolUseResult"`
	Type             string          `json:"type"`
	UUID             string          `json:"uuid"`
}

type rawMessage struct {
	Content any       `json:"content"` // string for plain prompts, []any for block arrays
	ID      string    `json:"id"`
	Model   string    `json:"model"`
	Role    string    `json:"role"`
	Usage   *rawUsage `json:"usage"`
}

type rawUsage struct {
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
}

// Structured toolUseResult shapes, one per tool family.

type rawReadResult struct {
	File *struct {
		Content  string `json:"content"`
		FilePath string `json:"filePath"`
		NumLines int    `json:"numLines"`
	} `json:"file"`
}

type rawWriteResult struct {
	Content  string `json:"content"`
	FilePath string `json:"filePath"`
}

type rawEditResult struct {
	FilePath  string `json:"filePath"`
	NewString string `json:"newString"`
}

type rawBashResult struct {
	Interrupted bool   `json:"interrupted"`
	Stderr      string `json:"stderr"`
	Stdout      string `json:"stdout"`
}

type rawGrepResult struct {
	Content   string   `json:"content"`
	Filenames []string `json:"filenames"`
	NumFiles  int      `json:"numFiles"`
	NumLines  int      `json:"numLines"`
}

type rawGlobResult struct {
	Filenames []string `json:"filenames"`
	NumFiles  int      `json:"numFiles"`
}

// familyFor maps a tool name to its structured-result family. Anything
// unrecognized, MCP-namespaced tools included, is generic.
func familyFor(toolName string) string {
	switch toolName {
	case "Read":
		return ResultRead
	case "Write":
		return ResultWrite
	case "Edit", "MultiEdit":
		return ResultEdit
	case "Bash":
		return ResultBash
	case "Grep":
		return ResultGrep
	case "Glob":
		return ResultGlob
	default:
		return ResultGeneric
	}
}

// decodeStructured parses a toolUseResult payload into the family's shape.
// Anything that fails to decode falls back to the generic variant rather
// than being dropped.
func decodeStructured(toolName string, raw json.RawMessage) (StructuredResult, bool) {
	if len(raw) == 0 {
		return StructuredResult{}, false
	}

	generic := StructuredResult{Kind: ResultGeneric, Raw: string(raw)}

	switch familyFor(toolName) {
	case ResultRead:
		var r rawReadResult
		if err := json.Unmarshal(raw, &r); err != nil || r.File == nil {
			return generic, true
		}
		return StructuredResult{
			Content:  r.File.Content,
			FilePath: r.File.FilePath,
			Kind:     ResultRead,
			NumLines: r.File.NumLines,
		}, true

	case ResultWrite:
		var r rawWriteResult
		if err := json.Unmarshal(raw, &r); err != nil || r.FilePath == "" {
			return generic, true
		}
		return StructuredResult{Content: r.Content, FilePath: r.FilePath, Kind: ResultWrite}, true

	case ResultEdit:
		var r rawEditResult
		if err := json.Unmarshal(raw, &r); err != nil || r.FilePath == "" {
			return generic, true
		}
		return StructuredResult{Content: r.NewString, FilePath: r.FilePath, Kind: ResultEdit}, true

	case ResultBash:
		var r rawBashResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return generic, true
		}
		return StructuredResult{
			Interrupted: r.Interrupted,
			Kind:        ResultBash,
			Stderr:      r.Stderr,
			Stdout:      r.Stdout,
		}, true

	case ResultGrep:
		var r rawGrepResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return generic, true
		}
		return StructuredResult{
			Content:   r.Content,
			Filenames: r.Filenames,
			Kind:      ResultGrep,
			NumFiles:  r.NumFiles,
			NumLines:  r.NumLines,
		}, true

	case ResultGlob:
		var r rawGlobResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return generic, true
		}
		return StructuredResult{Filenames: r.Filenames, Kind: ResultGlob, NumFiles: r.NumFiles}, true

	default:
		return generic, true
	}
}
