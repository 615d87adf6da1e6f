package cmd

// SessionsCmd manages the session history store
type SessionsCmd struct {
	Del  SessionsDelCmd  `cmd:"del" help:"Delete a recorded session"`
	List SessionsListCmd `cmd:"list" help:"List recorded sessions" default:"1"`
	View SessionsViewCmd `cmd:"view" help:"View a recorded session"`
}
