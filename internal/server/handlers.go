package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/opinity/proposal-generator/internal/audio"
	"github.com/opinity/proposal-generator/internal/export"
	"github.com/opinity/proposal-generator/internal/locale"
	"github.com/opinity/proposal-generator/internal/session"
	"github.com/opinity/proposal-generator/internal/types"
)

// GenerateRequest represents the request body for /api/proposals and /api/session/form
type GenerateRequest struct {
	Notes       string `json:"notes"`
	LinkedInURL string `json:"linkedInUrl,omitempty"`
	Engineers   int    `json:"engineers"`
	Hours       int    `json:"hours"`
}

// Config returns the generation config of the request.
func (r GenerateRequest) Config() types.GenerationConfig {
	return types.GenerationConfig{
		LinkedInURL: strings.TrimSpace(r.LinkedInURL),
		Engineers:   r.Engineers,
		Hours:       r.Hours,
	}
}

// LanguageRequest represents the request body for /api/session/language
type LanguageRequest struct {
	Language string `json:"language"`
}

// DemoRequest represents the request body for /api/session/demo
type DemoRequest struct {
	Kind string `json:"kind"`
}

// TranscriptionResponse represents the response for /api/transcriptions
type TranscriptionResponse struct {
	Transcript string `json:"transcript"`
	Notes      string `json:"notes"`
}

// handleSession returns a snapshot of the session
func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.workflow.Session().Snapshot())
}

// handleLanguage switches the output language
func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	var req LanguageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}
	if req.Language == "" {
		s.errorFor(w, &ErrValidation{Field: "language", Message: "is required"})
		return
	}
	lang, err := types.ParseLanguage(req.Language)
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "language", Message: err.Error()})
		return
	}

	if err := s.workflow.Session().SetLanguage(lang); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.workflow.Session().Snapshot())
}

// handleForm stores the form as typed so later merges (voice notes, reloads) start from it
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}
	if err := req.Config().Validate(); err != nil {
		s.errorFor(w, err)
		return
	}

	form := session.Form{Notes: req.Notes, LinkedInURL: req.Config().LinkedInURL, Engineers: req.Engineers, Hours: req.Hours}
	if err := s.workflow.Session().UpdateForm(form); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.workflow.Session().Snapshot())
}

// handleDemo replaces the notes with a demo set
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	var req DemoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}
	if _, err := s.workflow.Session().InsertDemo(req.Kind); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.workflow.Session().Snapshot())
}

// handleReset discards the proposal
func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	if err := s.workflow.Session().Reset(); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.workflow.Session().Snapshot())
}

// handleDismiss clears the error notice
func (s *Server) handleDismiss(w http.ResponseWriter, _ *http.Request) {
	if err := s.workflow.Session().Dismiss(); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.workflow.Session().Snapshot())
}

// handleGenerate runs one generation and returns the resulting snapshot.
// A failed generation still answers with the snapshot (state ERROR) under the mapped status.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}

	_, err := s.workflow.Run(r.Context(), req.Notes, req.Config())
	if err != nil && isSubmitError(err) {
		s.submitErrorResponse(w, err)
		return
	}

	snap := s.workflow.Session().Snapshot()
	if err != nil {
		s.jsonResponse(w, HTTPStatus(err), snap)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// handleGenerateStream runs one generation and streams its progress via SSE.
// Submit errors are answered as plain JSON because the stream has not started yet.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}

	var sse *SSEWriter
	var streamErr error
	_, err := s.workflow.RunNotify(r.Context(), req.Notes, req.Config(), func(snap session.Snapshot) {
		sse, streamErr = NewSSEWriter(w)
		if streamErr != nil {
			return
		}
		if err := sse.WriteState(snap); err != nil {
			s.log.Warn("failed to write SSE event", "error", err)
		}
	})

	if sse == nil {
		switch {
		case err != nil && isSubmitError(err):
			s.submitErrorResponse(w, err)
		case streamErr != nil:
			s.errorResponse(w, http.StatusInternalServerError, streamErr.Error())
		default:
			s.errorResponse(w, http.StatusInternalServerError, "generation did not start")
		}
		return
	}

	snap := s.workflow.Session().Snapshot()
	if err != nil {
		sse.WriteError(HTTPStatus(err), snap.ErrorMessage)
		return
	}
	sse.WriteComplete(snap)
}

// submitErrorResponse answers a rejected submit; the empty-notes notice is localized.
func (s *Server) submitErrorResponse(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrEmptyNotes) {
		text := locale.For(s.workflow.Session().Language())
		s.errorResponse(w, http.StatusBadRequest, text.Errors.EmptyNotes)
		return
	}
	s.errorFor(w, err)
}

// handleTranscribe transcribes a voice note from a raw audio body or a multipart "audio" field
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var lang types.Language
	if q := r.URL.Query().Get("lang"); q != "" {
		parsed, err := types.ParseLanguage(q)
		if err != nil {
			s.errorFor(w, &ErrValidation{Field: "lang", Message: err.Error()})
			return
		}
		lang = parsed
	}

	clip, err := s.readClip(r)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	transcript, notes, err := s.workflow.TranscribeIn(r.Context(), clip, lang)
	if err != nil {
		if errors.Is(err, session.ErrVoiceDisabled) {
			s.errorResponse(w, http.StatusNotImplemented, err.Error())
			return
		}
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, TranscriptionResponse{Transcript: transcript, Notes: notes})
}

func (s *Server) readClip(r *http.Request) (*audio.Clip, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return audio.Capture(r.Body, s.maxAudioBytes)
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, &ErrValidation{Field: "audio", Message: err.Error()}
	}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, audio.ErrNoAudio
		}
		if err != nil {
			return nil, &ErrValidation{Field: "audio", Message: err.Error()}
		}
		if part.FormName() == "audio" {
			defer func() { _ = part.Close() }()
			return audio.Capture(part, s.maxAudioBytes)
		}
		_ = part.Close()
	}
}

// handleExport downloads the current proposal in the requested format
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	p := s.workflow.Session().Proposal()
	if p == nil {
		s.errorFor(w, ErrNoProposal)
		return
	}
	if format.RequiresExtended() && !p.IsExtended() {
		s.errorFor(w, export.ErrExtendedOnly)
		return
	}

	var buf bytes.Buffer
	if err := export.Render(r.Context(), &buf, format, p, s.now()); err != nil {
		s.log.Error("export failed", "format", string(format), "generation_id", p.GenerationID.String(), "error", err)
		s.errorFor(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("failed to write export", "error", err)
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	return nil
}
