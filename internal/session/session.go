// Package session holds the single-user form state and drives it through
// Idle, Generating, Complete and Error.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/opinity/proposal-generator/internal/budget"
	"github.com/opinity/proposal-generator/internal/locale"
	"github.com/opinity/proposal-generator/internal/logger"
	"github.com/opinity/proposal-generator/internal/types"
)

// State is the application state of the form.
type State string

// States of the form
const (
	StateIdle       State = "IDLE"
	StateGenerating State = "GENERATING"
	StateComplete   State = "COMPLETE"
	StateError      State = "ERROR"
)

// Events that move the form between states
const (
	EventSubmit  = "submit"
	EventSuccess = "success"
	EventFailure = "failure"
	EventReset   = "reset"
	EventDismiss = "dismiss"
)

// Form defaults
const (
	DefaultEngineers = 2
	DefaultHours     = 80
)

var (
	// ErrEmptyNotes is returned when a submit carries only whitespace; the state does not change
	ErrEmptyNotes = errors.New("intake notes are empty")
	// ErrBusy is returned while a generation is in flight
	ErrBusy = errors.New("a proposal is being generated")
	// ErrTranscriptionBusy is returned when a voice note is already being transcribed
	ErrTranscriptionBusy = errors.New("a voice note is already being transcribed")
	// ErrUnknownDemo is returned for a demo kind other than manual or cloud
	ErrUnknownDemo = errors.New("unknown demo data")
)

// TransitionError reports an event that is not allowed in the current state
type TransitionError struct {
	From  State
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Event, strings.ToLower(string(e.From)))
}

// Form is the editable input of the page.
type Form struct {
	Notes       string `json:"notes"`
	LinkedInURL string `json:"linkedInUrl"`
	Engineers   int    `json:"engineers"`
	Hours       int    `json:"hours"`
}

// Config returns the generation config described by the form.
func (f Form) Config() types.GenerationConfig {
	return types.GenerationConfig{LinkedInURL: f.LinkedInURL, Engineers: f.Engineers, Hours: f.Hours}
}

// Snapshot is a consistent copy of the session.
type Snapshot struct {
	State        State           `json:"state"`
	Language     types.Language  `json:"language"`
	Form         Form            `json:"form"`
	Proposal     *types.Proposal `json:"proposal,omitempty"`
	ErrorMessage string          `json:"error,omitempty"`
	Budget       budget.Estimate `json:"budget"`
	Transcribing bool            `json:"transcribing"`
}

// Session is the state of one user's form. All methods are safe for concurrent use.
type Session struct {
	mu           sync.Mutex
	state        State
	language     types.Language
	form         Form
	proposal     *types.Proposal
	errMsg       string
	transcribing bool
	log          *logger.Logger
}

// New returns an Idle session with the default form.
func New(lang types.Language, log *logger.Logger) *Session {
	if lang == "" {
		lang = types.LanguageEnglish
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		state:    StateIdle,
		language: lang,
		form:     Form{Engineers: DefaultEngineers, Hours: DefaultHours},
		log:      log,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Language returns the current language.
func (s *Session) Language() types.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// Proposal returns the current proposal, nil unless Complete.
func (s *Session) Proposal() *types.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proposal
}

// Snapshot returns a copy of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:        s.state,
		Language:     s.language,
		Form:         s.form,
		Proposal:     s.proposal,
		ErrorMessage: s.errMsg,
		Budget:       budget.EstimateFor(s.form.Config(), s.language),
		Transcribing: s.transcribing,
	}
}

// Submit records the form and moves Idle to Generating. Blank notes are refused
// with ErrEmptyNotes and an invalid config with its validation error; neither changes state.
func (s *Session) Submit(notes string, cfg types.GenerationConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
	case StateGenerating:
		return ErrBusy
	default:
		return &TransitionError{From: s.state, Event: EventSubmit}
	}

	s.form = Form{Notes: notes, LinkedInURL: cfg.LinkedInURL, Engineers: cfg.Engineers, Hours: cfg.Hours}
	if strings.TrimSpace(notes) == "" {
		return ErrEmptyNotes
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.transition(StateGenerating, EventSubmit)
	s.errMsg = ""
	return nil
}

// Succeed stores the proposal and moves Generating to Complete.
func (s *Session) Succeed(p *types.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateGenerating {
		return &TransitionError{From: s.state, Event: EventSuccess}
	}
	s.proposal = p
	s.errMsg = ""
	s.transition(StateComplete, EventSuccess)
	return nil
}

// Fail stores the display message and moves Generating to Error. Any proposal is discarded.
func (s *Session) Fail(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateGenerating {
		return &TransitionError{From: s.state, Event: EventFailure}
	}
	s.proposal = nil
	s.errMsg = message
	s.transition(StateError, EventFailure)
	return nil
}

// Reset discards the proposal and moves Complete to Idle.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateComplete {
		return &TransitionError{From: s.state, Event: EventReset}
	}
	s.proposal = nil
	s.transition(StateIdle, EventReset)
	return nil
}

// Dismiss clears the error notice and moves Error to Idle. The notes are kept for another attempt.
func (s *Session) Dismiss() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateError {
		return &TransitionError{From: s.state, Event: EventDismiss}
	}
	s.errMsg = ""
	s.transition(StateIdle, EventDismiss)
	return nil
}

// SetLanguage switches the output language. Refused while generating.
func (s *Session) SetLanguage(lang types.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGenerating {
		return ErrBusy
	}
	s.language = lang
	return nil
}

// UpdateForm replaces the form fields without submitting. Refused while generating.
func (s *Session) UpdateForm(f Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGenerating {
		return ErrBusy
	}
	s.form = f
	return nil
}

// InsertDemo replaces the notes with a localized demo set ("manual" or "cloud").
func (s *Session) InsertDemo(kind string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGenerating {
		return "", ErrBusy
	}
	notes, ok := locale.For(s.language).DemoNotes[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDemo, kind)
	}
	s.form.Notes = notes
	return notes, nil
}

// BeginTranscription marks a voice note as in flight.
func (s *Session) BeginTranscription() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGenerating {
		return ErrBusy
	}
	if s.transcribing {
		return ErrTranscriptionBusy
	}
	s.transcribing = true
	return nil
}

// EndTranscription clears the in-flight flag and merges transcript into the notes.
// It returns the resulting notes.
func (s *Session) EndTranscription(transcript string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcribing = false
	s.form.Notes = MergeTranscript(s.form.Notes, transcript)
	return s.form.Notes
}

// transition must be called with mu held.
func (s *Session) transition(to State, event string) {
	s.log.Info("session transition", "from", string(s.state), "event", event, "to", string(to))
	s.state = to
}

// VoiceNotePrefix separates a transcript appended to existing notes.
const VoiceNotePrefix = "\n\n[Voice Note]: "

// MergeTranscript appends a transcript to the notes. An empty transcript leaves the notes
// unchanged and empty notes are replaced by the transcript.
func MergeTranscript(notes, transcript string) string {
	if transcript == "" {
		return notes
	}
	if strings.TrimSpace(notes) == "" {
		return transcript
	}
	return notes + VoiceNotePrefix + transcript
}
