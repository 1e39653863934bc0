package runtime

import (
	"context"
	"fmt"
	"strings"
)

// Runtime wires the provider client, session memory, and the two agents
// (chat and code) behind a single ProcessRequest entry point.
type Runtime struct {
	options  Options
	client   Client
	sessions *SessionStore
	logger   Logger
}

// New builds a runtime from options, applying defaults and validating the
// provider configuration.
func New(options Options) (*Runtime, error) {
	options.setDefaults()
	if err := options.validate(); err != nil {
		return nil, err
	}
	client, err := NewClient(options)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		options:  options,
		client:   client,
		sessions: NewSessionStore(),
		logger:   options.Logger,
	}, nil
}

// Sessions exposes the session store so hosts can attach documents or
// inspect transcripts.
func (r *Runtime) Sessions() *SessionStore {
	return r.sessions
}

// ProcessRequest classifies the prompt, dispatches to the matching agent,
// records the turn in session memory, and returns the structured result.
func (r *Runtime) ProcessRequest(ctx context.Context, req Request) (GenerationResult, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = r.options.SessionID
	}
	logger := r.logger.With(F("session", sessionID))

	history := r.sessions.Recent(sessionID, r.options.HistoryWindow)
	documents := r.sessions.Documents(sessionID)

	classification := classify(ctx, r.client, logger, req.Prompt, history)
	logger.Info("request classified",
		F("type", classification.Type),
		F("confidence", fmt.Sprintf("%.2f", classification.Confidence)))

	var (
		result GenerationResult
		err    error
	)
	switch classification.Type {
	case RequestCode:
		result, err = r.codeTurn(ctx, req, history, documents, logger)
	default:
		result, err = r.chatTurn(ctx, req, history, documents)
	}
	if err != nil {
		// Keep the failed turn in memory so follow-up prompts have context.
		r.sessions.Append(sessionID,
			ChatMessage{Role: RoleUser, Content: req.Prompt},
			ChatMessage{Role: RoleAssistant, Content: "error: " + err.Error()})
		return GenerationResult{}, err
	}

	result.RequestType = classification.Type
	result.Confidence = classification.Confidence
	result.Reasoning = classification.Reasoning
	result.SessionID = sessionID
	return result, nil
}

func (r *Runtime) chatTurn(ctx context.Context, req Request, history []ChatMessage, documents []Document) (GenerationResult, error) {
	system := chatSystemPrompt(BuildDocumentContext(documents, r.options.DocumentContextLimit))
	messages := append(append([]ChatMessage(nil), history...), ChatMessage{Role: RoleUser, Content: req.Prompt})

	reply, err := r.client.Complete(ctx, system, messages)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("chat turn: %w", err)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = r.options.SessionID
	}
	r.sessions.Append(sessionID,
		ChatMessage{Role: RoleUser, Content: req.Prompt},
		ChatMessage{Role: RoleAssistant, Content: reply})

	return GenerationResult{Response: reply}, nil
}

func (r *Runtime) codeTurn(ctx context.Context, req Request, history []ChatMessage, documents []Document, logger Logger) (GenerationResult, error) {
	incremental := !req.DisableIncremental && strings.TrimSpace(req.EditorCode) != ""

	var prompt string
	if incremental {
		prompt = incrementalCodePrompt(req, history)
	} else {
		prompt = fullCodePrompt(req, history, BuildDocumentContext(documents, r.options.DocumentContextLimit))
	}

	reply, err := r.client.Complete(ctx, "", []ChatMessage{{Role: RoleUser, Content: prompt}})
	if err != nil {
		return GenerationResult{}, fmt.Errorf("code turn: %w", err)
	}

	parsed := parseCodeResponse(reply, incremental, req.EditorFilename, req.EditorLanguage, logger)

	note := parsed.Explanation
	if parsed.Update != nil {
		note += fmt.Sprintf("\n\nPrepared %d incremental operation(s).", len(parsed.Update.Operations))
	} else {
		note += fmt.Sprintf("\n\nGenerated %s (%s).", parsed.Filename, parsed.Language)
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = r.options.SessionID
	}
	r.sessions.Append(sessionID,
		ChatMessage{Role: RoleUser, Content: req.Prompt},
		ChatMessage{Role: RoleAssistant, Content: note})

	return GenerationResult{
		Response: parsed.Explanation,
		Code:     parsed.Code,
		Filename: parsed.Filename,
		Language: parsed.Language,
		Update:   parsed.Update,
	}, nil
}
