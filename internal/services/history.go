package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/hc-chat-history/internal/logger"
	"github.com/sbilibin2017/hc-chat-history/internal/models"
)

// ErrSessionNotFound is returned when a session id does not resolve.
var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionTitle is used when a session is created without one.
const DefaultSessionTitle = "New Consultation"

// SessionReader defines read-only operations for chat sessions.
type SessionReader interface {
	GetByID(ctx context.Context, id string) (*models.SessionDB, error)
	ListByUserID(ctx context.Context, userID string) ([]models.SessionDB, error)
}

// SessionWriter defines write operations for chat sessions.
type SessionWriter interface {
	Save(ctx context.Context, session models.SessionDB) error
	UpdateTitle(ctx context.Context, id, title string, now time.Time) error
	Touch(ctx context.Context, id string, now time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// MessageReader defines read-only operations for messages.
type MessageReader interface {
	ListBySessionID(ctx context.Context, sessionID string) ([]models.MessageDB, error)
}

// MessageWriter defines write operations for messages.
type MessageWriter interface {
	Save(ctx context.Context, msg models.MessageDB) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// HistoryService handles session and message CRUD plus event publishing.
type HistoryService struct {
	sessionReader SessionReader
	sessionWriter SessionWriter
	messageReader MessageReader
	messageWriter MessageWriter
	kafkaWriter   KafkaWriter
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(
	sessionReader SessionReader,
	sessionWriter SessionWriter,
	messageReader MessageReader,
	messageWriter MessageWriter,
	kafkaWriter KafkaWriter,
) *HistoryService {
	return &HistoryService{
		sessionReader: sessionReader,
		sessionWriter: sessionWriter,
		messageReader: messageReader,
		messageWriter: messageWriter,
		kafkaWriter:   kafkaWriter,
	}
}

// ListSessions returns the user's sessions, most recently updated
// first, each with its messages in timestamp order.
func (s *HistoryService) ListSessions(ctx context.Context, userID string) ([]models.SessionWithMessages, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	sessions, err := s.sessionReader.ListByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list sessions", "err", err)
		return nil, err
	}

	result := make([]models.SessionWithMessages, 0, len(sessions))
	for _, session := range sessions {
		messages, err := s.listMessages(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.SessionWithMessages{
			Session:  session.Public(),
			Messages: messages,
		})
	}

	return result, nil
}

// GetSession returns one session with its messages.
func (s *HistoryService) GetSession(ctx context.Context, sessionID string) (*models.SessionWithMessages, error) {
	session, err := s.sessionReader.GetByID(ctx, sessionID)
	if err != nil {
		logger.Log.Errorw("failed to get session", "err", err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	messages, err := s.listMessages(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &models.SessionWithMessages{
		Session:  session.Public(),
		Messages: messages,
	}, nil
}

// CreateSession creates a session for the user. An omitted or blank
// title falls back to DefaultSessionTitle.
func (s *HistoryService) CreateSession(ctx context.Context, userID, title string) (*models.SessionWithMessages, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	if strings.TrimSpace(title) == "" {
		title = DefaultSessionTitle
	}

	now := time.Now().UTC()
	session := models.SessionDB{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessionWriter.Save(ctx, session); err != nil {
		logger.Log.Errorw("failed to save session", "err", err)
		return nil, err
	}

	return &models.SessionWithMessages{
		Session:  session.Public(),
		Messages: []models.Message{},
	}, nil
}

// SaveMessageParams carries the message-save input. MessageID is
// optional: when supplied, a retry with the same id updates the
// existing row instead of creating a duplicate.
type SaveMessageParams struct {
	SessionID         string
	Role              string
	Content           string
	ImageURL          *string
	ExtractedSymptoms any
	GroundingSources  any
	AnalysisResults   any
	MessageID         string
}

// SaveMessage upserts a message by id, bumps the parent session's
// updated_at to the save time and publishes a message.saved event.
func (s *HistoryService) SaveMessage(ctx context.Context, params SaveMessageParams) (*models.Message, error) {
	if params.SessionID == "" || params.Role == "" || params.Content == "" {
		return nil, fmt.Errorf("%w: sessionId, role and content are required", ErrValidation)
	}

	id := params.MessageID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()

	symptoms, err := encodePayload(params.ExtractedSymptoms)
	if err != nil {
		return nil, err
	}
	sources, err := encodePayload(params.GroundingSources)
	if err != nil {
		return nil, err
	}
	analysis, err := encodePayload(params.AnalysisResults)
	if err != nil {
		return nil, err
	}

	msg := models.MessageDB{
		ID:                id,
		SessionID:         params.SessionID,
		Role:              params.Role,
		Content:           params.Content,
		ImageURL:          params.ImageURL,
		ExtractedSymptoms: symptoms,
		GroundingSources:  sources,
		AnalysisResults:   analysis,
		CreatedAt:         now,
	}

	if err := s.messageWriter.Save(ctx, msg); err != nil {
		logger.Log.Errorw("failed to save message", "err", err)
		return nil, err
	}

	if err := s.sessionWriter.Touch(ctx, params.SessionID, now); err != nil {
		logger.Log.Errorw("failed to touch session", "err", err)
		return nil, err
	}

	s.publishMessageSaved(ctx, models.MessageSavedEvent{
		Type:      "message.saved",
		SessionID: params.SessionID,
		MessageID: id,
		Role:      params.Role,
		SavedAt:   now,
	})

	return &models.Message{
		ID:                id,
		SessionID:         params.SessionID,
		Role:              params.Role,
		Content:           params.Content,
		ImageURL:          params.ImageURL,
		ExtractedSymptoms: params.ExtractedSymptoms,
		GroundingSources:  params.GroundingSources,
		AnalysisResults:   params.AnalysisResults,
		CreatedAt:         now,
	}, nil
}

// UpdateSessionTitle renames a session.
func (s *HistoryService) UpdateSessionTitle(ctx context.Context, sessionID, title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}

	if err := s.sessionWriter.UpdateTitle(ctx, sessionID, title, time.Now().UTC()); err != nil {
		logger.Log.Errorw("failed to update session title", "err", err)
		return err
	}

	return nil
}

// DeleteSession removes a session and, via the store's cascade, its
// messages. Deleting a missing session succeeds.
func (s *HistoryService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessionWriter.Delete(ctx, sessionID); err != nil {
		logger.Log.Errorw("failed to delete session", "err", err)
		return err
	}
	return nil
}

// ClearUserData removes all sessions owned by the user, cascading to
// their messages. Idempotent.
func (s *HistoryService) ClearUserData(ctx context.Context, userID string) error {
	if err := s.sessionWriter.DeleteByUserID(ctx, userID); err != nil {
		logger.Log.Errorw("failed to clear user data", "err", err)
		return err
	}
	return nil
}

// publishMessageSaved publishes the event to Kafka. Failures are
// logged, never surfaced: the write already succeeded.
func (s *HistoryService) publishMessageSaved(ctx context.Context, evt models.MessageSavedEvent) {
	if s.kafkaWriter == nil {
		return
	}

	data, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Errorw("failed to marshal message event", "message_id", evt.MessageID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.SessionID),
		Value: data,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish message event", "message_id", evt.MessageID, "error", err)
		return
	}

	logger.Log.Infow("published message event", "message_id", evt.MessageID, "session_id", evt.SessionID)
}

// listMessages loads and decodes a session's messages.
func (s *HistoryService) listMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	rows, err := s.messageReader.ListBySessionID(ctx, sessionID)
	if err != nil {
		logger.Log.Errorw("failed to list messages", "err", err)
		return nil, err
	}

	messages := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		msg, err := decodeMessage(row)
		if err != nil {
			// Stored JSON that no longer parses is a data-integrity
			// fault; surface it instead of dropping the payload.
			logger.Log.Errorw("corrupt message payload", "message_id", row.ID, "error", err)
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// encodePayload serializes an optional structured payload to JSON
// text, or nil when absent.
func encodePayload(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding message payload: %w", err)
	}
	s := string(data)
	return &s, nil
}

// decodePayload parses stored JSON text back into a structured value.
func decodePayload(s *string) (any, error) {
	if s == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(*s), &v); err != nil {
		return nil, fmt.Errorf("decoding message payload: %w", err)
	}
	return v, nil
}

func decodeMessage(row models.MessageDB) (models.Message, error) {
	symptoms, err := decodePayload(row.ExtractedSymptoms)
	if err != nil {
		return models.Message{}, err
	}
	sources, err := decodePayload(row.GroundingSources)
	if err != nil {
		return models.Message{}, err
	}
	analysis, err := decodePayload(row.AnalysisResults)
	if err != nil {
		return models.Message{}, err
	}

	return models.Message{
		ID:                row.ID,
		SessionID:         row.SessionID,
		Role:              row.Role,
		Content:           row.Content,
		ImageURL:          row.ImageURL,
		ExtractedSymptoms: symptoms,
		GroundingSources:  sources,
		AnalysisResults:   analysis,
		CreatedAt:         row.CreatedAt,
	}, nil
}
