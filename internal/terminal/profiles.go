package terminal

import "regexp"

// Pattern priorities. Distinct per family; the highest wins when several
// families match the same buffer window. Error outranks approval.
const (
	priorityError    = 100
	priorityApproval = 90
	priorityInput    = 80
	priorityThinking = 60
	priorityWorking  = 50
)

// ClaudeProfile matches the claude CLI's terminal output.
func ClaudeProfile() []Rule {
	return []Rule{
		{
			Confidence: 0.9,
			Priority:   priorityError,
			Status:     StatusError,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)API Error`),
				regexp.MustCompile(`(?im)^\s*Error:`),
				regexp.MustCompile(`(?im)^\s*✗`),
			},
		},
		{
			Confidence: 0.9,
			Priority:   priorityApproval,
			Status:     StatusWaitingApproval,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)do you want to`),
				regexp.MustCompile(`Allow \w+.*\?`),
				regexp.MustCompile(`\(y/n\)|\(Y\)es`),
			},
		},
		{
			Confidence: 0.8,
			Priority:   priorityInput,
			Status:     StatusWaitingInput,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\? `),
				regexp.MustCompile(`(?i)^Interrupted`),
				regexp.MustCompile(`(?i)press enter`),
			},
		},
		{
			Confidence: 0.7,
			Priority:   priorityThinking,
			Status:     StatusThinking,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)esc to interrupt`),
				regexp.MustCompile(`(?i)thinking`),
			},
		},
		{
			Confidence: 0.6,
			Priority:   priorityWorking,
			Status:     StatusWorking,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\d+ tokens`),
				regexp.MustCompile(`(?i)compacting`),
			},
		},
	}
}

// CodexProfile matches the codex CLI's terminal output.
func CodexProfile() []Rule {
	return []Rule{
		{
			Confidence: 0.9,
			Priority:   priorityError,
			Status:     StatusError,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?im)^\s*error:`),
				regexp.MustCompile(`(?i)stream error`),
			},
		},
		{
			Confidence: 0.9,
			Priority:   priorityApproval,
			Status:     StatusWaitingApproval,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)allow command`),
				regexp.MustCompile(`(?i)approve this`),
				regexp.MustCompile(`(?i)y to approve`),
			},
		},
		{
			Confidence: 0.8,
			Priority:   priorityInput,
			Status:     StatusWaitingInput,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)awaiting your input`),
				regexp.MustCompile(`(?i)press enter`),
			},
		},
		{
			Confidence: 0.7,
			Priority:   priorityThinking,
			Status:     StatusThinking,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)working \(`),
				regexp.MustCompile(`(?i)esc to interrupt`),
			},
		},
		{
			Confidence: 0.6,
			Priority:   priorityWorking,
			Status:     StatusWorking,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)running command`),
				regexp.MustCompile(`(?i)applying patch`),
			},
		},
	}
}

// GeminiProfile matches the gemini CLI's terminal output.
func GeminiProfile() []Rule {
	return []Rule{
		{
			Confidence: 0.9,
			Priority:   priorityError,
			Status:     StatusError,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?im)^\s*error`),
				regexp.MustCompile(`(?i)quota exceeded`),
			},
		},
		{
			Confidence: 0.9,
			Priority:   priorityApproval,
			Status:     StatusWaitingApproval,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)apply this change`),
				regexp.MustCompile(`(?i)allow execution`),
				regexp.MustCompile(`(?i)waiting for user confirmation`),
			},
		},
		{
			Confidence: 0.8,
			Priority:   priorityInput,
			Status:     StatusWaitingInput,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)waiting for your response`),
				regexp.MustCompile(`(?i)press enter`),
			},
		},
		{
			Confidence: 0.7,
			Priority:   priorityThinking,
			Status:     StatusThinking,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)esc to cancel`),
				regexp.MustCompile(`(?i)thinking`),
			},
		},
		{
			Confidence: 0.6,
			Priority:   priorityWorking,
			Status:     StatusWorking,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)accepting edits`),
				regexp.MustCompile(`(?i)running tool`),
			},
		},
	}
}

// ProfileFor returns the rule table for an agent family name.
// Unknown families fall back to the claude profile.
func ProfileFor(agent string) []Rule {
	switch agent {
	case "codex":
		return CodexProfile()
	case "gemini":
		return GeminiProfile()
	default:
		return ClaudeProfile()
	}
}
