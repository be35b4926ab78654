package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"newsroom/internal/llm"
	"newsroom/internal/session"
)

var (
	// ErrInputMissing is returned when neither audio nor image was supplied.
	ErrInputMissing = errors.New("no audio or image input provided")
	// ErrNoPriorReport is returned when a revision is requested before any
	// report has been generated.
	ErrNoPriorReport = errors.New("no report to revise")
	// ErrInference wraps model-call failures and unusable model output.
	ErrInference = errors.New("inference failed")
)

const (
	reporterSystemPrompt = "You are an expert news reporter. Your task is to write a clear, concise, and factual news report. Synthesize all available information into a single, coherent story."
	editorSystemPrompt   = "You are a professional news editor. Revise the news report to address the feedback. Provide only the full, revised news report."
)

// Reporter mediates all interaction with the multimodal model: it builds
// prompts from session state and returns updated state. It never persists
// state itself; callers do that through a session.Store.
type Reporter struct {
	log *slog.Logger
	llm llm.Client
}

// New constructs a Reporter. Constructed once at process start and passed to
// handlers; there is no package-level model state.
func New(log *slog.Logger, client llm.Client) *Reporter {
	return &Reporter{log: log, llm: client}
}

// Generate transcribes/describes whichever inputs the session holds and
// synthesizes the initial news report. It fails with ErrInputMissing before
// any model call when both inputs are absent.
func (r *Reporter) Generate(ctx context.Context, st session.State) (session.State, error) {
	if st.AudioPath == "" && st.ImagePath == "" {
		return st, ErrInputMissing
	}

	if st.AudioPath != "" {
		r.log.Info("transcribing audio", "session_id", st.ID)
		transcript, err := r.llm.Transcribe(ctx, st.AudioPath)
		if err != nil {
			return st, fmt.Errorf("%w: transcribe: %w", ErrInference, err)
		}
		st.Transcript = transcript
	}

	if st.ImagePath != "" {
		r.log.Info("describing image", "session_id", st.ID)
		description, err := r.llm.DescribeImage(ctx, st.ImagePath)
		if err != nil {
			return st, fmt.Errorf("%w: describe image: %w", ErrInference, err)
		}
		st.ImageDescription = description
	}

	r.log.Info("generating report", "session_id", st.ID)
	report, err := r.llm.Complete(ctx, reporterSystemPrompt, buildReportPrompt(st))
	if err != nil {
		return st, fmt.Errorf("%w: create report: %w", ErrInference, err)
	}
	st.Report = report
	return st, nil
}

// Revise replaces the current report with a revision addressing the feedback.
// It fails with ErrNoPriorReport before any model call when the session has
// not produced a report yet.
func (r *Reporter) Revise(ctx context.Context, st session.State, feedback string) (session.State, error) {
	if !st.HasReport() {
		return st, ErrNoPriorReport
	}

	r.log.Info("revising report", "session_id", st.ID)
	revised, err := r.llm.Complete(ctx, editorSystemPrompt, buildRevisionPrompt(st, feedback))
	if err != nil {
		return st, fmt.Errorf("%w: revise report: %w", ErrInference, err)
	}
	// The previous report is replaced wholesale; there is no versioning.
	st.Report = revised
	return st, nil
}

// buildReportPrompt bundles whichever sources are present into the initial
// report prompt.
func buildReportPrompt(st session.State) string {
	var parts []string
	if st.Transcript != "" {
		parts = append(parts, fmt.Sprintf("--- Transcribed Audio ---\n%q", st.Transcript))
	}
	if st.ImageDescription != "" {
		parts = append(parts, fmt.Sprintf("--- Image Description ---\n%q", st.ImageDescription))
	}
	return strings.Join(parts, "\n\n")
}

// buildRevisionPrompt embeds the original sources, the current draft, and the
// feedback so the model revises rather than rewrites from nothing.
func buildRevisionPrompt(st session.State, feedback string) string {
	transcript := st.Transcript
	if transcript == "" {
		transcript = "Not available."
	}
	description := st.ImageDescription
	if description == "" {
		description = "Not available."
	}
	return fmt.Sprintf(
		"**Original Source Information:**\n--- Transcribed Audio ---\n%q\n--- Image Description ---\n%q\n\n**Current Draft of News Report:**\n%q\n\n**Latest Human Feedback:**\n%q",
		transcript, description, st.Report, feedback,
	)
}
