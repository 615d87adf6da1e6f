package cmd

import (
	"fmt"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/transport"
)

// StatusCmd prints one line of phase counts for tmux status bars
type StatusCmd struct{}

// Run executes the status command
func (s *StatusCmd) Run(cli *CLI) error {
	sessions, err := transport.NewClient(cli.socketPath()).Snapshot()
	if err != nil {
		// No running instance
		fmt.Printf("%s:? %s:? %s:?", domain.SymbolWaiting, domain.SymbolIdle, domain.SymbolWorking)
		return nil
	}

	waiting, idle, working, errored := 0, 0, 0, 0
	for _, session := range sessions {
		switch session.Phase {
		case domain.PhaseWaitingForApproval, domain.PhaseWaitingForInput:
			waiting++
		case domain.PhaseIdle:
			idle++
		case domain.PhaseProcessing, domain.PhaseRunningTool, domain.PhaseCompacting:
			working++
		case domain.PhaseError:
			errored++
		}
	}

	fmt.Printf("%s:%d %s:%d %s:%d", domain.SymbolWaiting, waiting, domain.SymbolIdle, idle, domain.SymbolWorking, working)
	if errored > 0 {
		fmt.Printf(" %s:%d", domain.SymbolError, errored)
	}

	return nil
}
