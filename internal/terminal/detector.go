package terminal

import (
	"regexp"
	"strings"
	"time"
)

// Coarse output-derived statuses. These are weaker signals than hook events
// and only ever feed the `status` field of frames built by the launcher.
const (
	StatusIdle            = "idle"
	StatusThinking        = "thinking"
	StatusWorking         = "working"
	StatusWaitingInput    = "waitingInput"
	StatusWaitingApproval = "waitingApproval"
	StatusError           = "error"
)

const (
	defaultBufferSize    = 20
	defaultDebounce      = 500 * time.Millisecond
	defaultMinConfidence = 0.5

	// Confidence reported when nothing matched and the previous status is
	// retained. Kept below the minimum so it can never commit a change.
	retainedConfidence = 0.2
	spinnerConfidence  = 0.6
)

// Rule is one pattern family: any pattern hit claims the status at the
// given priority. Priorities are distinct within a profile.
type Rule struct {
	Confidence float64
	Patterns   []*regexp.Regexp
	Priority   int
	Status     string
}

// Detection is the result of classifying one output chunk.
type Detection struct {
	Confidence     float64
	MatchedPattern string
	Status         string
}

// DetectorConfig tunes the hysteresis behavior.
type DetectorConfig struct {
	BufferSize    int
	Debounce      time.Duration
	MinConfidence float64
}

// Detector classifies a window of recent output into a coarse status.
// It keeps a bounded rolling buffer of normalized chunks and applies
// hysteresis so the visible status does not flap between polls.
// Not safe for concurrent use; one detector per watched process.
type Detector struct {
	buffer           []string
	config           DetectorConfig
	current          string
	lastChange       time.Time
	rules            []Rule
	thinkingPriority int
}

// NewDetector creates a detector for the given agent profile.
// A nil config field falls back to its default.
func NewDetector(rules []Rule, config DetectorConfig) *Detector {
	if config.BufferSize <= 0 {
		config.BufferSize = defaultBufferSize
	}
	if config.Debounce <= 0 {
		config.Debounce = defaultDebounce
	}
	if config.MinConfidence <= 0 {
		config.MinConfidence = defaultMinConfidence
	}

	thinkingPriority := 0
	for _, rule := range rules {
		if rule.Status == StatusThinking {
			thinkingPriority = rule.Priority
		}
	}

	return &Detector{
		config:           config,
		current:          StatusIdle,
		rules:            rules,
		thinkingPriority: thinkingPriority,
	}
}

// Detect normalizes the chunk, appends it to the rolling buffer and
// recomputes the status candidate. The committed status only changes when
// the candidate differs, the debounce interval has elapsed and the
// candidate's confidence meets the minimum. The returned Detection always
// reports the candidate's own confidence.
func (d *Detector) Detect(chunk string) Detection {
	normalized := Normalize(chunk)

	if normalized.Text != "" {
		d.buffer = append(d.buffer, normalized.Text)
		if len(d.buffer) > d.config.BufferSize {
			d.buffer = d.buffer[len(d.buffer)-d.config.BufferSize:]
		}
	}
	window := strings.Join(d.buffer, "\n")

	candidate, confidence, matched := d.classify(window, normalized.HasSpinner)

	if candidate != d.current &&
		time.Since(d.lastChange) >= d.config.Debounce &&
		confidence >= d.config.MinConfidence {
		d.current = candidate
		d.lastChange = time.Now()
	}

	return Detection{
		Confidence:     confidence,
		MatchedPattern: matched,
		Status:         d.current,
	}
}

// classify scans the rule table in one pass; the highest-priority family
// with any match wins. A spinner in the current chunk claims the thinking
// status unless an explicit match outranks it.
func (d *Detector) classify(window string, hasSpinner bool) (status string, confidence float64, matched string) {
	bestPriority := -1
	for _, rule := range d.rules {
		if rule.Priority <= bestPriority {
			continue
		}
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(window) {
				bestPriority = rule.Priority
				status = rule.Status
				confidence = rule.Confidence
				matched = pattern.String()
				break
			}
		}
	}

	if hasSpinner && bestPriority < d.thinkingPriority {
		return StatusThinking, spinnerConfidence, "spinner"
	}
	if bestPriority >= 0 {
		return status, confidence, matched
	}

	// Nothing matched: retain the previous status at low confidence
	// rather than resetting to idle.
	return d.current, retainedConfidence, ""
}

// Current returns the committed status.
func (d *Detector) Current() string {
	return d.current
}

// Reset clears the buffer and forces the status back to idle.
func (d *Detector) Reset() {
	d.buffer = nil
	d.current = StatusIdle
	d.lastChange = time.Time{}
}
