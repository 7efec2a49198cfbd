package session

import (
	"context"
	"errors"

	"github.com/opinity/proposal-generator/internal/audio"
	"github.com/opinity/proposal-generator/internal/locale"
	"github.com/opinity/proposal-generator/internal/logger"
	"github.com/opinity/proposal-generator/internal/proposal"
	"github.com/opinity/proposal-generator/internal/types"
)

// Generator produces proposals.
type Generator interface {
	Generate(ctx context.Context, req proposal.Request) (*types.Proposal, error)
}

// Transcriber turns voice notes into text.
type Transcriber interface {
	TranscribeClip(ctx context.Context, clip *audio.Clip, lang types.Language) (string, error)
}

// Enricher derives an audience hint from a LinkedIn URL.
type Enricher interface {
	AudienceHint(ctx context.Context, profileURL string) string
}

// ErrVoiceDisabled is returned by Transcribe when no transcriber is configured
var ErrVoiceDisabled = errors.New("voice notes are not enabled")

// Workflow runs generations and transcriptions against a Session.
type Workflow struct {
	session     *Session
	generator   Generator
	transcriber Transcriber
	enricher    Enricher
	variant     types.SchemaVariant
	log         *logger.Logger
}

// WorkflowOption configures a Workflow
type WorkflowOption func(*Workflow)

// WithTranscriber enables voice notes.
func WithTranscriber(t Transcriber) WorkflowOption {
	return func(w *Workflow) { w.transcriber = t }
}

// WithEnricher enables LinkedIn enrichment.
func WithEnricher(e Enricher) WorkflowOption {
	return func(w *Workflow) { w.enricher = e }
}

// WithVariant selects the proposal variant. Extended is the default.
func WithVariant(v types.SchemaVariant) WorkflowOption {
	return func(w *Workflow) { w.variant = v }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) WorkflowOption {
	return func(w *Workflow) { w.log = l }
}

// NewWorkflow creates a Workflow over s.
func NewWorkflow(s *Session, g Generator, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		session:   s,
		generator: g,
		variant:   types.VariantExtended,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Session returns the session the workflow drives.
func (w *Workflow) Session() *Session {
	return w.session
}

// Variant returns the proposal variant requested by Run.
func (w *Workflow) Variant() types.SchemaVariant {
	return w.variant
}

// Run submits the form and performs one generation. Submit errors (ErrEmptyNotes, ErrBusy,
// validation, TransitionError) leave the state untouched. A generation error moves the
// session to Error with its display message and is returned as well.
func (w *Workflow) Run(ctx context.Context, notes string, cfg types.GenerationConfig) (*types.Proposal, error) {
	return w.RunNotify(ctx, notes, cfg, nil)
}

// RunNotify is Run with a callback invoked once the session entered Generating,
// before the generation call is made.
func (w *Workflow) RunNotify(ctx context.Context, notes string, cfg types.GenerationConfig, onGenerating func(Snapshot)) (*types.Proposal, error) {
	if err := w.session.Submit(notes, cfg); err != nil {
		return nil, err
	}
	if onGenerating != nil {
		onGenerating(w.session.Snapshot())
	}
	lang := w.session.Language()

	hint := ""
	if w.enricher != nil && cfg.LinkedInURL != "" {
		hint = w.enricher.AudienceHint(ctx, cfg.LinkedInURL)
	}

	p, err := w.generator.Generate(ctx, proposal.Request{
		Notes:        notes,
		Language:     lang,
		Config:       cfg,
		Variant:      w.variant,
		AudienceHint: hint,
	})
	if err != nil {
		w.log.Warn("generation failed", "error", err)
		_ = w.session.Fail(DisplayMessage(err, lang))
		return nil, err
	}

	_ = w.session.Succeed(p)
	return p, nil
}

// Transcribe transcribes a voice note and merges it into the notes. Failures are
// reported to the caller only; the application state never changes.
func (w *Workflow) Transcribe(ctx context.Context, clip *audio.Clip) (transcript, notes string, err error) {
	return w.TranscribeIn(ctx, clip, "")
}

// TranscribeIn is Transcribe with an explicit spoken language. An empty lang uses the session language.
func (w *Workflow) TranscribeIn(ctx context.Context, clip *audio.Clip, lang types.Language) (transcript, notes string, err error) {
	if w.transcriber == nil {
		return "", "", ErrVoiceDisabled
	}
	if err := w.session.BeginTranscription(); err != nil {
		return "", "", err
	}
	if lang == "" {
		lang = w.session.Language()
	}

	transcript, err = w.transcriber.TranscribeClip(ctx, clip, lang)
	if err != nil {
		w.log.Warn("transcription failed", "error", err)
		notes = w.session.EndTranscription("")
		return "", notes, err
	}
	notes = w.session.EndTranscription(transcript)
	return transcript, notes, nil
}

// DisplayMessage converts a generation error into the notice shown to the user.
func DisplayMessage(err error, lang types.Language) string {
	text := locale.For(lang).Errors

	var cfgErr *proposal.ConfigurationError
	var svcErr *proposal.ServiceError
	var emptyErr *proposal.EmptyResponseError
	var malformedErr *proposal.MalformedResponseError

	switch {
	case errors.As(err, &cfgErr):
		return cfgErr.Message
	case errors.As(err, &emptyErr), errors.As(err, &malformedErr):
		return text.InvalidFormat
	case errors.As(err, &svcErr):
		return text.ServiceUnavailable
	default:
		return text.Unexpected
	}
}
