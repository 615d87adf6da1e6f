package cmd

import (
	"github.com/renato0307/farol/internal/adapters/sound"
	"github.com/renato0307/farol/internal/services"
)

// PlaySoundCmd plays a notification sound
type PlaySoundCmd struct{}

// Run executes the sound playing logic
func (p *PlaySoundCmd) Run(cli *CLI) error {
	return services.NewNotificationService(sound.NewPlayer(), true).PlaySound()
}
