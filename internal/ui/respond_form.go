package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/services"
)

// Decision choices presented by the respond form
const (
	choiceAllow     = "allow"
	choiceDeny      = "deny"
	choiceInterrupt = "interrupt"
	choiceAsk       = "ask"
)

// RespondFormResult contains the outcome of answering a permission request
type RespondFormResult struct {
	Cancelled bool
	Decision  domain.Decision
	Error     error
	Resolved  bool // False when nothing was pending anymore
	SessionID string
}

// RespondForm is a Bubble Tea component for answering a pending permission
// request with a decision and optional reason
type RespondForm struct {
	Completed bool
	cancelled bool
	choice    string
	engine    *services.Engine
	form      *huh.Form
	reason    string
	result    RespondFormResult
	session   domain.Session
}

// NewRespondForm creates a respond form for the given session
func NewRespondForm(engine *services.Engine, session domain.Session) *RespondForm {
	rf := &RespondForm{
		choice:  choiceAllow,
		engine:  engine,
		session: session,
		result: RespondFormResult{
			SessionID: session.ID,
		},
	}

	description := "Session: " + displayTitle(session)
	if session.Permission != nil {
		description = fmt.Sprintf("%s wants to run %s", displayTitle(session), session.Permission.ToolName)
	}

	rf.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Decision").
				Description(description).
				Options(
					huh.NewOption("Allow", choiceAllow),
					huh.NewOption("Deny", choiceDeny),
					huh.NewOption("Deny and interrupt", choiceInterrupt),
					huh.NewOption("Ask in terminal", choiceAsk),
				).
				Value(&rf.choice),
			huh.NewInput().
				Title("Reason").
				Description("Optional, shown to the agent").
				Placeholder("e.g. use the staging database instead").
				Value(&rf.reason),
		),
	)

	return rf
}

func (rf *RespondForm) Init() tea.Cmd {
	return rf.form.Init()
}

func (rf *RespondForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle Escape or Ctrl+C to cancel
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" || keyMsg.String() == "ctrl+c" {
			rf.cancelled = true
			rf.result.Cancelled = true
			rf.Completed = true
			return rf, nil
		}
	}

	// Forward message to form
	form, cmd := rf.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		rf.form = f
	}

	// Check if form completed
	if rf.form.State == huh.StateCompleted {
		rf.Completed = true
		rf.respond()
		return rf, nil
	}

	return rf, cmd
}

func (rf *RespondForm) View() string {
	if rf.form != nil {
		return rf.form.View()
	}
	return ""
}

// Result returns the form result
func (rf *RespondForm) Result() RespondFormResult {
	return rf.result
}

// respond resolves the pending permission with the chosen decision
func (rf *RespondForm) respond() {
	decision := rf.buildDecision()
	rf.result.Decision = decision
	rf.result.Resolved = rf.engine.Respond(rf.session.ID, decision)
	if !rf.result.Resolved {
		logging.Logger.Warn("No pending permission to resolve", "session_id", rf.session.ID)
		rf.result.Error = fmt.Errorf("session %s has nothing pending", displayTitle(rf.session))
	}
}

// buildDecision maps the form choice to a protocol decision
func (rf *RespondForm) buildDecision() domain.Decision {
	switch rf.choice {
	case choiceDeny:
		return domain.Decision{Behavior: domain.DecisionDeny, Reason: rf.reason}
	case choiceInterrupt:
		return domain.Decision{Behavior: domain.DecisionDeny, Reason: rf.reason, Interrupt: true}
	case choiceAsk:
		return domain.Decision{Behavior: domain.DecisionAsk, Reason: rf.reason}
	default:
		return domain.Decision{Behavior: domain.DecisionAllow, Reason: rf.reason}
	}
}
