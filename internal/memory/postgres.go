package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/infinitydev4/reenove-sub000/internal/database"
	apperrors "github.com/infinitydev4/reenove-sub000/internal/errors"
)

// PostgresLog implements Log using PostgreSQL.
type PostgresLog struct {
	txm *database.TxManager
}

// NewPostgresLog creates a new PostgresLog. Queries run through the
// transaction manager so callers can batch writes in one transaction.
func NewPostgresLog(txm *database.TxManager) *PostgresLog {
	return &PostgresLog{txm: txm}
}

// Append inserts a turn.
func (l *PostgresLog) Append(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO conversation_log (
			id, session_id, role, content, created_at
		) VALUES (
			$1, $2, $3, $4, $5
		)`

	_, err := l.txm.GetQuerier(ctx).Exec(ctx, query,
		entry.ID,
		entry.SessionID,
		entry.Role,
		entry.Content,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.DatabaseError("memory.Append", err)
	}

	return nil
}

// Recent returns the latest turns of a session, oldest first.
func (l *PostgresLog) Recent(ctx context.Context, sessionID uuid.UUID, limit int) ([]Entry, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM (
			SELECT id, session_id, role, content, created_at
			FROM conversation_log
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) latest
		ORDER BY created_at ASC`

	rows, err := l.txm.GetQuerier(ctx).Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("memory.Recent", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Role, &e.Content, &e.CreatedAt); err != nil {
			return nil, apperrors.DatabaseError("memory.Recent", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("memory.Recent", err)
	}

	return entries, nil
}
