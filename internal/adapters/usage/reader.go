package usage

import (
	"fmt"
	"os"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/ports"
	"github.com/renato0307/farol/internal/transcript"
)

// Reader implements ports.UsageReader on top of transcript files
type Reader struct {
	parser *transcript.Parser
}

// NewReader creates a usage reader sharing the given transcript parser
func NewReader(parser *transcript.Parser) *Reader {
	return &Reader{parser: parser}
}

var _ ports.UsageReader = (*Reader)(nil)

// SessionUsage returns per-model token usage aggregated over the session's
// transcript. A session that never wrote a transcript is an error so callers
// can distinguish "no file" from "no usage yet".
func (r *Reader) SessionUsage(agent domain.AgentFamily, sessionID, cwd string) (map[string]domain.TokenUsage, error) {
	path := r.parser.TranscriptPath(agent, sessionID, cwd)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no transcript for session %s: %w", sessionID, err)
	}
	return transcript.UsageByModel(path), nil
}
