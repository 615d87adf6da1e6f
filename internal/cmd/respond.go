package cmd

import (
	"fmt"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/transport"
)

// RespondCmd resolves a pending permission request in a running instance.
// The dashboard is the usual responder; this is the scripting path.
type RespondCmd struct {
	SessionID string `arg:"" help:"Session with the pending permission"`
	Decision  string `arg:"" help:"Decision to apply" enum:"allow,deny,ask"`
	Interrupt bool   `help:"Abort the agent run after a deny"`
	Reason    string `help:"Reason attached to the decision"`
}

// Run executes the respond command
func (r *RespondCmd) Run(cli *CLI) error {
	decision := domain.Decision{
		Behavior:  domain.DecisionBehavior(r.Decision),
		Interrupt: r.Interrupt,
		Reason:    r.Reason,
	}

	ok, err := transport.NewClient(cli.socketPath()).Respond(r.SessionID, decision)
	if err != nil {
		return fmt.Errorf("no running farol instance: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s has no pending permission", r.SessionID)
	}

	fmt.Printf("Resolved %s with %s\n", r.SessionID, r.Decision)
	return nil
}
