package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/renato0307/farol/internal/adapters/claude"
	"github.com/renato0307/farol/internal/adapters/codex"
	"github.com/renato0307/farol/internal/adapters/gemini"
	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/ports"
	"github.com/renato0307/farol/internal/transport"
)

// HookCmd translates one native hook invocation into a canonical frame and,
// for permission requests, relays the decision back as the agent's own output
// envelope. It never returns an error: a broken farol must not break the host
// agent, so every internal failure degrades to ask or to a silent exit.
type HookCmd struct {
	Agent string `arg:"" help:"Agent family that invoked the hook" enum:"claude,codex,gemini"`
}

// Run executes the hook adapter
func (h *HookCmd) Run(cli *CLI) error {
	protocol := protocolFor(h.Agent)
	if protocol == nil {
		return nil
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		logging.Logger.Warn("Failed to read hook input", "agent", h.Agent, "error", err)
		return nil
	}

	frame, err := protocol.ParseInput(raw)
	if err != nil {
		logging.Logger.Warn("Failed to parse hook input", "agent", h.Agent, "error", err)
		return nil
	}

	if _, err := logging.InitHookLogger(h.Agent, string(frame.Event)); err == nil {
		logging.Logger.Info("Hook invoked",
			"agent", h.Agent,
			"event", frame.Event,
			"session_id", frame.SessionID,
			"tool", frame.Tool,
			"pid", os.Getpid(),
			"ppid", os.Getppid())
	}

	client := transport.NewClient(cli.socketPath())

	// Question tools wait for the user inside the agent's own UI; only real
	// permission requests block on a dashboard decision.
	if frame.PermissionClass() && !domain.IsQuestionTool(frame.Agent, frame.Tool) {
		decision, err := client.SendPermission(frame, protocol.ResponseTimeout())
		if err != nil {
			logging.Logger.Warn("Permission relay degraded to ask",
				"session_id", frame.SessionID, "error", err)
		}
		envelope, err := protocol.DecisionEnvelope(decision)
		if err != nil {
			logging.Logger.Warn("Failed to render decision envelope", "error", err)
			return nil
		}
		if len(envelope) > 0 {
			fmt.Println(string(envelope))
		}
		return nil
	}

	if err := client.Send(frame); err != nil {
		logging.Logger.Debug("No running instance, frame dropped",
			"event", frame.Event, "error", err)
	}
	return nil
}

// protocolFor returns the adapter for one agent family
func protocolFor(agent string) ports.Protocol {
	switch domain.AgentFamily(agent) {
	case domain.AgentClaude:
		return claude.New()
	case domain.AgentCodex:
		return codex.New()
	case domain.AgentGemini:
		return gemini.New()
	}
	return nil
}
