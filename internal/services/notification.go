package services

import (
	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/ports"
)

// Sound event types passed to the player
const (
	SoundEventPermission = "permission"
	SoundEventInput      = "input"
	SoundEventEnded      = "ended"
)

// NotificationService plays sounds for user-facing session transitions
type NotificationService struct {
	enabled     bool
	soundPlayer ports.SoundPlayer
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(soundPlayer ports.SoundPlayer, enabled bool) *NotificationService {
	return &NotificationService{
		enabled:     enabled,
		soundPlayer: soundPlayer,
	}
}

// Run consumes transitions until the channel closes
func (s *NotificationService) Run(transitions <-chan domain.Transition) {
	for transition := range transitions {
		s.HandleTransition(transition)
	}
}

// HandleTransition plays a sound when the transition needs the user's
// attention
func (s *NotificationService) HandleTransition(transition domain.Transition) {
	if !s.enabled {
		return
	}
	eventType, ok := SoundEventFor(transition)
	if !ok {
		return
	}
	logging.Logger.Debug("Playing sound for transition",
		"kind", transition.Kind,
		"session", transition.Session.ID,
		"sound_event", eventType)
	if err := s.soundPlayer.PlaySoundForEvent(eventType); err != nil {
		logging.Logger.Warn("Failed to play notification sound", "error", err)
	}
}

// SoundEventFor maps a transition to a sound event type. The second return is
// false for transitions that stay silent (internal phase churn, updates).
func SoundEventFor(transition domain.Transition) (string, bool) {
	switch transition.Kind {
	case domain.TransitionPermissionRequest:
		return SoundEventPermission, true
	case domain.TransitionPhaseChange:
		switch transition.Session.Phase {
		case domain.PhaseWaitingForInput, domain.PhaseWaitingForApproval:
			return SoundEventInput, true
		case domain.PhaseEnded:
			return SoundEventEnded, true
		}
	}
	return "", false
}

// PlaySound plays the default notification sound
func (s *NotificationService) PlaySound() error {
	logging.Logger.Debug("Playing notification sound")
	return s.soundPlayer.PlaySound()
}

// PlaySoundForEvent plays a sound for a specific event type
func (s *NotificationService) PlaySoundForEvent(eventType string) error {
	logging.Logger.Debug("Playing sound for event", "event", eventType)
	return s.soundPlayer.PlaySoundForEvent(eventType)
}
