package domain

// questionTools lists, per agent family, the tools that represent the agent
// asking the human a question through its own UI. Permission events for these
// must never block on an external decision; they map to waitingForInput.
var questionTools = map[AgentFamily]map[string]bool{
	AgentClaude: {
		"AskUserQuestion": true,
		"ExitPlanMode":    true,
	},
	AgentCodex: {
		"request_user_input": true,
	},
	AgentGemini: {
		"ask_user":     true,
		"message_user": true,
	},
}

// IsQuestionTool reports whether the tool is on the agent's question allow-list
func IsQuestionTool(agent AgentFamily, tool string) bool {
	return questionTools[agent][tool]
}
