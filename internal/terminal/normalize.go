package terminal

import (
	"regexp"
	"strconv"
	"strings"
)

// ansiPattern matches CSI sequences: colors, styles, cursor movement,
// cursor hide/show and line clears all share the ESC [ ... final-byte shape
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// oscPattern matches OSC sequences (terminal title updates etc.)
var oscPattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	newlineRuns  = regexp.MustCompile(`\n{3,}`)
	percentValue = regexp.MustCompile(`(\d+)%`)
)

// spinnerGlyphs is the fixed set of characters agent CLIs animate while busy:
// the classic 10-frame braille spinner plus the circular arc frames.
const spinnerGlyphs = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏◐◓◑◒◜◝◞◟◠◡"

// Normalized is the result of cleaning one chunk of raw terminal output.
type Normalized struct {
	HasSpinner bool
	Original   string
	Progress   *int
	Text       string
}

// Normalize strips terminal control sequences from raw process output and
// extracts spinner and progress signals. Spinner glyphs are checked against
// the original text; progress against the stripped text. Idempotent on Text.
func Normalize(raw string) Normalized {
	result := Normalized{
		Original:   raw,
		HasSpinner: strings.ContainsAny(raw, spinnerGlyphs),
	}

	stripped := ansiPattern.ReplaceAllString(raw, "")
	stripped = oscPattern.ReplaceAllString(stripped, "")
	stripped = strings.ReplaceAll(stripped, "\r", "")

	result.Progress = extractProgress(stripped)

	stripped = horizontalWS.ReplaceAllString(stripped, " ")
	stripped = newlineRuns.ReplaceAllString(stripped, "\n\n")
	result.Text = strings.TrimSpace(stripped)

	return result
}

// extractProgress returns the first integer in 0-100 immediately followed
// by a percent sign, or nil if none is present.
func extractProgress(text string) *int {
	for _, match := range percentValue.FindAllStringSubmatch(text, -1) {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if value >= 0 && value <= 100 {
			return &value
		}
	}
	return nil
}
