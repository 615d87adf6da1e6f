package transcript

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/renato0307/farol/internal/domain"
)

// SubagentToolCalls extracts the flat tool-invocation list from a
// subagent's own transcript. Subagent activity is not inlined into the
// parent session's file, so this is the only way to see what a subagent
// actually did. Missing files yield an empty list.
func (p *Parser) SubagentToolCalls(agent domain.AgentFamily, cwd, subagentID string) []ToolCall {
	f, err := os.Open(p.SubagentPath(agent, cwd, subagentID))
	if err != nil {
		return nil
	}
	defer f.Close()

	var calls []ToolCall
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry rawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Type != "assistant" || entry.Message == nil {
			continue
		}

		blocks, ok := entry.Message.Content.([]any)
		if !ok {
			continue
		}
		for _, block := range blocks {
			blockMap, ok := block.(map[string]any)
			if !ok || blockMap["type"] != "tool_use" {
				continue
			}
			id, _ := blockMap["id"].(string)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true

			name, _ := blockMap["name"].(string)
			input, _ := blockMap["input"].(map[string]any)
			calls = append(calls, ToolCall{
				ID:        id,
				Input:     input,
				Name:      name,
				Timestamp: parseTimestamp(entry.Timestamp),
			})
		}
	}

	return calls
}
