package transcript

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/renato0307/farol/internal/domain"
)

type summaryCacheEntry struct {
	modTime time.Time
	summary Summary
}

// Summary answers "what is this session about" with a whole-file pass,
// cached by the file's modification time. A missing or unreadable file
// yields an empty summary.
func (p *Parser) Summary(path string) Summary {
	info, err := os.Stat(path)
	if err != nil {
		return Summary{}
	}

	p.mu.Lock()
	cached, ok := p.summary[path]
	p.mu.Unlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.summary
	}

	summary := scanSummary(path)

	p.mu.Lock()
	p.summary[path] = summaryCacheEntry{modTime: info.ModTime(), summary: summary}
	p.mu.Unlock()

	return summary
}

func scanSummary(path string) Summary {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}
	}
	defer f.Close()

	var summary Summary

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

		if entry.Type == "summary" && entry.Summary != "" {
			summary.SummaryLine = entry.Summary
			continue
		}

		if entry.Message == nil || entry.IsMeta || entry.IsCompactSummary {
			continue
		}

		text := firstTextContent(entry.Message.Content)
		if text == "" || isCommandEcho(text) || startsWithInterruptPhrase(text) {
			continue
		}

		if entry.Message.Role == "user" && summary.FirstUserMessage == "" {
			summary.FirstUserMessage = text
		}
		summary.LastMessage = text
	}

	return summary
}

// firstTextContent extracts the first plain-text block of a message.
// Tool results and tool invocations do not count as text.
func firstTextContent(content any) string {
	switch c := content.(type) {
	case string:
		return strings.TrimSpace(c)
	case []any:
		for _, block := range c {
			blockMap, ok := block.(map[string]any)
			if !ok {
				continue
			}
			if blockMap["type"] != "text" {
				continue
			}
			if text, ok := blockMap["text"].(string); ok {
				if trimmed := strings.TrimSpace(text); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

// UsageByModel aggregates token usage per model over the whole transcript.
// Streamed assistant records share a message id; only the latest record of
// each id counts, so partial updates are never double counted.
func UsageByModel(path string) map[string]domain.TokenUsage {
	f, err := os.Open(path)
	if err != nil {
		return map[string]domain.TokenUsage{}
	}
	defer f.Close()

	type latest struct {
		model string
		ts    time.Time
		usage domain.TokenUsage
	}
	byMessage := make(map[string]latest)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !strings.Contains(string(line), `"type":"assistant"`) {
			continue
		}

		var entry rawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Message == nil || entry.Message.ID == "" || entry.Message.Usage == nil {
			continue
		}

		ts := parseTimestamp(entry.Timestamp)
		existing, ok := byMessage[entry.Message.ID]
		if ok && !ts.After(existing.ts) {
			continue
		}
		byMessage[entry.Message.ID] = latest{
			model: entry.Message.Model,
			ts:    ts,
			usage: domain.TokenUsage{
				CacheCreationTokens: entry.Message.Usage.CacheCreationInputTokens,
				CacheReadTokens:     entry.Message.Usage.CacheReadInputTokens,
				InputTokens:         entry.Message.Usage.InputTokens,
				OutputTokens:        entry.Message.Usage.OutputTokens,
			},
		}
	}

	totals := make(map[string]domain.TokenUsage)
	for _, record := range byMessage {
		usage := totals[record.model]
		usage.Add(record.usage)
		totals[record.model] = usage
	}

	return totals
}
