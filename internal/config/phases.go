package config

// phaseOrder is the canonical ordering used to assign palette colors
var phaseOrder = []string{
	"idle",
	"processing",
	"runningTool",
	"waitingForInput",
	"waitingForApproval",
	"compacting",
	"error",
	"ended",
}

// defaultPhasePalette holds 256-color codes, one per phase in phaseOrder
var defaultPhasePalette = []string{"246", "214", "214", "39", "204", "135", "196", "240"}

// PhaseConfig maps session phases to display colors
type PhaseConfig struct {
	Colors []string
}

// NewPhaseConfig creates a PhaseConfig from an override palette.
// An empty override keeps the default palette.
func NewPhaseConfig(colors []string) *PhaseConfig {
	config := &PhaseConfig{Colors: colors}
	if len(config.Colors) == 0 {
		config.Colors = defaultPhasePalette
	}
	return config
}

// GetColor returns a color for a given phase based on its position
// in the canonical phase order. If the palette is shorter than the
// phase list, colors cycle.
func (c *PhaseConfig) GetColor(phase string) string {
	for i, p := range phaseOrder {
		if p == phase {
			if i < len(c.Colors) {
				return c.Colors[i]
			}
			return c.Colors[i%len(c.Colors)]
		}
	}

	// Default color if phase not found
	if len(c.Colors) > 0 {
		return c.Colors[0]
	}
	return "246"
}
