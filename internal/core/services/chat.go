package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/core/ports/driving"
	"github.com/custodia-labs/clausewise/internal/logger"
)

// Ensure ChatService implements the interfaces.
var (
	_ driving.ChatService    = (*ChatService)(nil)
	_ driving.SummaryService = (*ChatService)(nil)
)

// AnswerPlaceholder is recorded as the assistant reply when answering fails.
const AnswerPlaceholder = "Error: Unable to generate a response. Please check your API configuration."

// ChatService answers questions and produces detailed summaries, recording
// both in the document's chat session.
type ChatService struct {
	repo          *documentRepository
	sessions      *SessionStore
	answerer      *Answerer
	summarizer    *Summarizer
	namer         *ChatNamer
	historyWindow int
	docLocks      *keyedMutex
}

// NewChatService creates a chat service.
func NewChatService(
	blobs driven.BlobStore,
	sessions *SessionStore,
	answerer *Answerer,
	summarizer *Summarizer,
	namer *ChatNamer,
	retrieval domain.RetrievalSettings,
) *ChatService {
	return &ChatService{
		repo:          newDocumentRepository(blobs),
		sessions:      sessions,
		answerer:      answerer,
		summarizer:    summarizer,
		namer:         namer,
		historyWindow: min(positiveOr(retrieval.HistoryWindow, domain.DefaultHistoryWindow), domain.DefaultHistoryLimit),
		docLocks:      newKeyedMutex(),
	}
}

// Ask answers req.Query against the document.
//
// The document's session is created on first use. The question and the
// answer are appended as one pair; when generation fails the pair carries
// AnswerPlaceholder and the error is returned.
func (s *ChatService) Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResult, error) {
	logger.Section("Ask")
	defer logger.Step("ask")()
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}

	doc, err := s.repo.LoadDocument(ctx, req.Owner, req.DocumentID)
	if err != nil {
		return nil, err
	}
	index, err := s.repo.LoadIndex(ctx, req.Owner, doc.ID)
	if err != nil {
		return nil, err
	}
	if index.Len() == 0 && !IsSummaryRequest(req.Query) {
		return nil, domain.ErrEmptyIndex
	}
	chunks, err := s.repo.LoadChunks(ctx, req.Owner, doc.ID)
	if err != nil {
		return nil, err
	}

	session, err := s.resolveSession(ctx, req, doc)
	if err != nil {
		return nil, err
	}

	answer, answerErr := s.answerer.Answer(ctx, AnswerInput{
		Query:          req.Query,
		Index:          index,
		Chunks:         domain.ChunkTexts(chunks),
		History:        session.History(s.historyWindow),
		Classification: storedClassification(doc),
	})

	reply := AnswerPlaceholder
	if answerErr == nil {
		reply = answer.Text
	}

	if answerErr == nil && answer.Summary != nil {
		answer.Summary.DocumentID = doc.ID
		s.storeDetailed(ctx, req.Owner, answer.Summary)
	}

	updated, err := s.sessions.Append(ctx, req.Owner, session.ID,
		domain.ChatMessage{Role: domain.RoleUser, Content: req.Query},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: reply},
	)
	if err != nil {
		return nil, fmt.Errorf("record exchange: %w", err)
	}
	if answerErr != nil {
		return nil, answerErr
	}

	return &domain.AskResult{
		SessionID:    updated.ID,
		SessionName:  updated.Name,
		Response:     reply,
		MessageCount: updated.MessageCount,
		Route:        answer.Route,
	}, nil
}

// DetailedSummary generates a detailed summary of the document's leading
// chunks, stores it, and records it in the document's session. A failed
// summary is recorded in the session but not stored.
func (s *ChatService) DetailedSummary(ctx context.Context, owner, documentID string) (*domain.Summary, error) {
	logger.Section("Detailed Summary")
	defer logger.Step("detailed summary")()

	doc, err := s.repo.LoadDocument(ctx, owner, documentID)
	if err != nil {
		return nil, err
	}
	chunks, err := s.repo.LoadChunks(ctx, owner, doc.ID)
	if err != nil {
		return nil, err
	}

	text := SummaryText(domain.ChunkTexts(chunks), domain.DefaultSummaryChunks)
	var summary *domain.Summary
	if cls := storedClassification(doc); cls != nil {
		summary = s.summarizer.SummarizeAs(ctx, text, domain.SummaryDetailed, *cls)
	} else {
		summary = s.summarizer.Summarize(ctx, text, domain.SummaryDetailed)
	}
	summary.DocumentID = doc.ID

	if !summary.Failed {
		if err := s.repo.SaveSummary(ctx, owner, summary); err != nil {
			return nil, err
		}
	}

	session, err := s.documentSession(ctx, owner, doc, summary.Text, "")
	if err != nil {
		logger.Warn("Could not create chat session: %v", err)
		return summary, nil
	}
	_, err = s.sessions.Append(ctx, owner, session.ID,
		domain.ChatMessage{Role: domain.RoleUser, Content: summaryCommand},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: summary.Text},
	)
	if err != nil {
		logger.Warn("Could not record summary in session %s: %v", session.ID, err)
	}
	return summary, nil
}

// storeDetailed persists a generated detailed summary. A failed summary is
// not stored so an earlier good one survives.
func (s *ChatService) storeDetailed(ctx context.Context, owner string, summary *domain.Summary) {
	if summary.Failed {
		return
	}
	if err := s.repo.SaveSummary(ctx, owner, summary); err != nil {
		logger.Warn("Could not store detailed summary: %v", err)
	}
}

// ShortSummary returns the summary stored at ingestion.
func (s *ChatService) ShortSummary(ctx context.Context, owner, documentID string) (*domain.Summary, error) {
	if _, err := s.repo.LoadDocument(ctx, owner, documentID); err != nil {
		return nil, err
	}
	return s.repo.LoadSummary(ctx, owner, documentID, domain.SummaryShort)
}

// resolveSession returns the session named by req, or the document's
// session, creating it on first use.
func (s *ChatService) resolveSession(
	ctx context.Context, req domain.AskRequest, doc *domain.Document,
) (*domain.ChatSession, error) {
	if req.SessionID != "" {
		session, err := s.sessions.Get(ctx, req.Owner, req.SessionID)
		if err != nil {
			return nil, err
		}
		if session.DocumentID != "" && session.DocumentID != doc.ID {
			return nil, fmt.Errorf("session %s belongs to document %s: %w",
				session.ID, session.DocumentID, domain.ErrInvalidInput)
		}
		return session, nil
	}

	var summary string
	if short, err := s.repo.LoadSummary(ctx, req.Owner, doc.ID, domain.SummaryShort); err == nil && !short.Failed {
		summary = short.Text
	}
	return s.documentSession(ctx, req.Owner, doc, summary, req.Query)
}

// documentSession returns the document's session, creating and naming it
// if none exists. Creation is serialised per document.
func (s *ChatService) documentSession(
	ctx context.Context, owner string, doc *domain.Document, summary, query string,
) (*domain.ChatSession, error) {
	unlock := s.docLocks.Lock(owner + "/" + doc.ID)
	defer unlock()

	session, err := s.sessions.ForDocument(ctx, owner, doc.ID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}

	name := s.namer.Name(ctx, doc.Title, summary, query)
	logger.Info("Creating chat session %q for document %s", name, doc.ID)
	return s.sessions.Create(ctx, &domain.ChatSession{
		Name:         name,
		Owner:        owner,
		DocumentID:   doc.ID,
		DocumentName: doc.Title,
		DocumentPath: doc.URI,
	})
}

// storedClassification returns the classification recorded at ingestion,
// or nil when the type was never determined.
func storedClassification(doc *domain.Document) *Classification {
	if !doc.AgreementType.IsValid() || doc.AgreementType == domain.AgreementUnknown {
		return nil
	}
	return &Classification{Type: doc.AgreementType, Label: doc.AgreementType.Label()}
}
