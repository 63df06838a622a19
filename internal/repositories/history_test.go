package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/hc-chat-history/internal/models"
)

func seedUser(t *testing.T, db interface {
	Save(ctx context.Context, user models.UserDB) error
}) models.UserDB {
	t.Helper()
	user := newTestUser("alice", "alice@example.com")
	require.NoError(t, db.Save(context.Background(), user))
	return user
}

func newTestSession(userID string, at time.Time) models.SessionDB {
	return models.SessionDB{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     "New Consultation",
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func newTestMessage(sessionID string, at time.Time) models.MessageDB {
	return models.MessageDB{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      "user",
		Content:   "hello",
		CreatedAt: at,
	}
}

func TestSessionRepository_SaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, NewUserWriteRepository(db))
	reader := NewSessionReadRepository(db)
	writer := NewSessionWriteRepository(db, nil)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	session := newTestSession(user.ID, now)
	require.NoError(t, writer.Save(ctx, session))

	got, err := reader.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.Title, got.Title)
	assert.Equal(t, user.ID, got.UserID)

	got, err = reader.GetByID(ctx, "no-such-session")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_ListOrderedByUpdatedAt(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, NewUserWriteRepository(db))
	reader := NewSessionReadRepository(db)
	writer := NewSessionWriteRepository(db, nil)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	older := newTestSession(user.ID, base.Add(-time.Hour))
	newer := newTestSession(user.ID, base)
	require.NoError(t, writer.Save(ctx, older))
	require.NoError(t, writer.Save(ctx, newer))

	sessions, err := reader.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, newer.ID, sessions[0].ID)
	assert.Equal(t, older.ID, sessions[1].ID)

	// Touching the older session moves it to the front.
	require.NoError(t, writer.Touch(ctx, older.ID, base.Add(time.Hour)))

	sessions, err = reader.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, sessions[0].ID)
}

func TestSessionRepository_UpdateTitle(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, NewUserWriteRepository(db))
	reader := NewSessionReadRepository(db)
	writer := NewSessionWriteRepository(db, nil)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	session := newTestSession(user.ID, now)
	require.NoError(t, writer.Save(ctx, session))

	require.NoError(t, writer.UpdateTitle(ctx, session.ID, "Knee pain follow-up", now.Add(time.Minute)))

	got, err := reader.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Knee pain follow-up", got.Title)

	// Missing session: no rows affected, no error.
	assert.NoError(t, writer.UpdateTitle(ctx, "no-such-session", "x", now))
}

func TestMessageRepository_SaveAndList(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, NewUserWriteRepository(db))
	sessionWriter := NewSessionWriteRepository(db, nil)
	msgReader := NewMessageReadRepository(db)
	msgWriter := NewMessageWriteRepository(db, nil)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	session := newTestSession(user.ID, now)
	require.NoError(t, sessionWriter.Save(ctx, session))

	first := newTestMessage(session.ID, now)
	symptoms := `["fever","cough"]`
	first.ExtractedSymptoms = &symptoms

	second := newTestMessage(session.ID, now.Add(time.Minute))
	second.Role = "assistant"
	second.Content = "sounds viral"

	// Insert out of order; listing must sort by timestamp.
	require.NoError(t, msgWriter.Save(ctx, second))
	require.NoError(t, msgWriter.Save(ctx, first))

	messages, err := msgReader.ListBySessionID(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, first.ID, messages[0].ID)
	assert.Equal(t, second.ID, messages[1].ID)
	require.NotNil(t, messages[0].ExtractedSymptoms)
	assert.JSONEq(t, symptoms, *messages[0].ExtractedSymptoms)
	assert.Nil(t, messages[1].ExtractedSymptoms)
}

func TestMessageRepository_UpsertByID(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, NewUserWriteRepository(db))
	sessionWriter := NewSessionWriteRepository(db, nil)
	msgReader := NewMessageReadRepository(db)
	msgWriter := NewMessageWriteRepository(db, nil)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	session := newTestSession(user.ID, now)
	require.NoError(t, sessionWriter.Save(ctx, session))

	msg := newTestMessage(session.ID, now)
	require.NoError(t, msgWriter.Save(ctx, msg))

	msg.Content = "edited"
	msg.CreatedAt = now.Add(time.Minute)
	require.NoError(t, msgWriter.Save(ctx, msg), "re-saving the same id must not fail")

	messages, err := msgReader.ListBySessionID(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1, "upsert must not create a second row")
	assert.Equal(t, "edited", messages[0].Content)
	assert.Equal(t, msg.CreatedAt, messages[0].CreatedAt.UTC())
}

func TestCascadeDeletes(t *testing.T) {
	db := setupTestDB(t)
	userWriter := NewUserWriteRepository(db)
	user := seedUser(t, userWriter)
	sessionWriter := NewSessionWriteRepository(db, nil)
	msgReader := NewMessageReadRepository(db)
	msgWriter := NewMessageWriteRepository(db, nil)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	first := newTestSession(user.ID, now)
	second := newTestSession(user.ID, now)
	require.NoError(t, sessionWriter.Save(ctx, first))
	require.NoError(t, sessionWriter.Save(ctx, second))
	require.NoError(t, msgWriter.Save(ctx, newTestMessage(first.ID, now)))
	require.NoError(t, msgWriter.Save(ctx, newTestMessage(second.ID, now)))

	// Deleting one session removes its messages only.
	require.NoError(t, sessionWriter.Delete(ctx, first.ID))
	messages, err := msgReader.ListBySessionID(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
	messages, err = msgReader.ListBySessionID(ctx, second.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	// Deleting by user removes the remaining session and its messages.
	require.NoError(t, sessionWriter.DeleteByUserID(ctx, user.ID))
	sessions, err := NewSessionReadRepository(db).ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	messages, err = msgReader.ListBySessionID(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	// Idempotent: clearing an already-empty user succeeds.
	assert.NoError(t, sessionWriter.DeleteByUserID(ctx, user.ID))
	assert.NoError(t, sessionWriter.Delete(ctx, first.ID))
}
