package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/hc-chat-history/internal/logger"
	"github.com/sbilibin2017/hc-chat-history/internal/models"
)

const messageColumns = `id, session_id, role, content, image_url, extracted_symptoms, grounding_sources, analysis_results, created_at`

// MessageReadRepository handles message read operations.
type MessageReadRepository struct {
	db *sqlx.DB
}

func NewMessageReadRepository(db *sqlx.DB) *MessageReadRepository {
	return &MessageReadRepository{db: db}
}

// ListBySessionID returns the session's messages in timestamp order.
func (r *MessageReadRepository) ListBySessionID(ctx context.Context, sessionID string) ([]models.MessageDB, error) {
	const query = `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE session_id = ?
		ORDER BY created_at ASC
	`

	var messages []models.MessageDB
	err := r.db.SelectContext(ctx, &messages, query, sessionID)

	logger.Log.Infow("message list query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{sessionID},
		"count", len(messages),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return messages, nil
}

// MessageWriteRepository handles message write operations.
type MessageWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewMessageWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *MessageWriteRepository {
	return &MessageWriteRepository{db: db, txGetter: txGetter}
}

// Save performs an UPSERT by message id: re-submitting an existing id
// replaces the row's mutable fields and timestamp instead of failing.
func (r *MessageWriteRepository) Save(ctx context.Context, msg models.MessageDB) error {
	const query = `
		INSERT INTO messages (` + messageColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET role = excluded.role,
		    content = excluded.content,
		    image_url = excluded.image_url,
		    extracted_symptoms = excluded.extracted_symptoms,
		    grounding_sources = excluded.grounding_sources,
		    analysis_results = excluded.analysis_results,
		    created_at = excluded.created_at
	`
	args := []any{
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.ImageURL,
		msg.ExtractedSymptoms, msg.GroundingSources, msg.AnalysisResults, msg.CreatedAt,
	}

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	res, err := executor.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("message upsert",
		"query", strings.Join(strings.Fields(query), " "),
		"message_id", msg.ID,
		"session_id", msg.SessionID,
		"result", rowsAffected,
		"error", err,
	)

	return err
}
