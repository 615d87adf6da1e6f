package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renato0307/farol/internal/domain"
	portsmocks "github.com/renato0307/farol/internal/ports/mocks"
)

func TestHandleTransitionPlaysSoundForPermission(t *testing.T) {
	player := portsmocks.NewMockSoundPlayer(t)
	player.EXPECT().PlaySoundForEvent(SoundEventPermission).Return(nil)

	service := NewNotificationService(player, true)
	service.HandleTransition(domain.Transition{
		Kind: domain.TransitionPermissionRequest,
		Session: domain.Session{
			ID:    "sess-1",
			Phase: domain.PhaseWaitingForApproval,
		},
	})
}

func TestHandleTransitionPlaysSoundForInputAndEnded(t *testing.T) {
	tests := []struct {
		name       string
		phase      domain.Phase
		soundEvent string
	}{
		{name: "waiting for input", phase: domain.PhaseWaitingForInput, soundEvent: SoundEventInput},
		{name: "waiting for approval", phase: domain.PhaseWaitingForApproval, soundEvent: SoundEventInput},
		{name: "ended", phase: domain.PhaseEnded, soundEvent: SoundEventEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := portsmocks.NewMockSoundPlayer(t)
			player.EXPECT().PlaySoundForEvent(tt.soundEvent).Return(nil)

			service := NewNotificationService(player, true)
			service.HandleTransition(domain.Transition{
				Kind:    domain.TransitionPhaseChange,
				Session: domain.Session{ID: "sess-1", Phase: tt.phase},
			})
		})
	}
}

func TestHandleTransitionStaysSilent(t *testing.T) {
	tests := []struct {
		name       string
		transition domain.Transition
	}{
		{
			name: "plain update",
			transition: domain.Transition{
				Kind:    domain.TransitionUpdate,
				Session: domain.Session{ID: "sess-1", Phase: domain.PhaseProcessing},
			},
		},
		{
			name: "working phase change",
			transition: domain.Transition{
				Kind:    domain.TransitionPhaseChange,
				Session: domain.Session{ID: "sess-1", Phase: domain.PhaseRunningTool},
			},
		},
		{
			name: "permission resolved",
			transition: domain.Transition{
				Kind:    domain.TransitionPermissionResolved,
				Session: domain.Session{ID: "sess-1", Phase: domain.PhaseWaitingForApproval},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := portsmocks.NewMockSoundPlayer(t)

			service := NewNotificationService(player, true)
			service.HandleTransition(tt.transition)

			player.AssertNotCalled(t, "PlaySoundForEvent")
		})
	}
}

func TestHandleTransitionDisabled(t *testing.T) {
	player := portsmocks.NewMockSoundPlayer(t)

	service := NewNotificationService(player, false)
	service.HandleTransition(domain.Transition{
		Kind:    domain.TransitionPermissionRequest,
		Session: domain.Session{ID: "sess-1", Phase: domain.PhaseWaitingForApproval},
	})

	player.AssertNotCalled(t, "PlaySoundForEvent")
}

func TestSoundEventFor(t *testing.T) {
	_, ok := SoundEventFor(domain.Transition{Kind: domain.TransitionAdd})
	assert.False(t, ok)

	event, ok := SoundEventFor(domain.Transition{
		Kind:    domain.TransitionPermissionRequest,
		Session: domain.Session{Phase: domain.PhaseWaitingForApproval},
	})
	assert.True(t, ok)
	assert.Equal(t, SoundEventPermission, event)
}
