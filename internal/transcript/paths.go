package transcript

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/renato0307/farol/internal/domain"
)

// DefaultRoots returns each agent family's transcript root directory.
// All three CLIs follow the same projects/<flattened cwd>/<id>.jsonl layout.
func DefaultRoots() map[domain.AgentFamily]string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return map[domain.AgentFamily]string{
		domain.AgentClaude: filepath.Join(homeDir, ".claude", "projects"),
		domain.AgentCodex:  filepath.Join(homeDir, ".codex", "projects"),
		domain.AgentGemini: filepath.Join(homeDir, ".gemini", "projects"),
	}
}

// FlattenCWD converts a working directory into the directory name used
// under the projects root: every "/" and "." becomes "-".
func FlattenCWD(cwd string) string {
	flattened := strings.ReplaceAll(cwd, "/", "-")
	return strings.ReplaceAll(flattened, ".", "-")
}

// TranscriptPath returns the transcript file for a session.
func (p *Parser) TranscriptPath(agent domain.AgentFamily, sessionID, cwd string) string {
	root, ok := p.roots[agent]
	if !ok {
		root = p.roots[domain.AgentClaude]
	}
	return filepath.Join(root, FlattenCWD(cwd), sessionID+".jsonl")
}

// SubagentPath returns the sibling transcript file for a subagent.
func (p *Parser) SubagentPath(agent domain.AgentFamily, cwd, subagentID string) string {
	root, ok := p.roots[agent]
	if !ok {
		root = p.roots[domain.AgentClaude]
	}
	return filepath.Join(root, FlattenCWD(cwd), "agent-"+subagentID+".jsonl")
}
