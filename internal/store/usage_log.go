package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UsageLog struct {
	ID             uuid.UUID `db:"id"`
	OwnerID        string    `db:"owner_id"`
	ConversationID uuid.UUID `db:"conversation_id"`
	Mode           string    `db:"mode"`
	Model          string    `db:"model"`
	TokensUsed     int       `db:"tokens_used"`
	CreatedAt      time.Time `db:"created_at"`
}

const sqlInsertUsageLog = `
INSERT INTO usage_logs (owner_id, conversation_id, mode, model, tokens_used)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, owner_id, conversation_id, mode, model, tokens_used, created_at
`

func (s *Store) InsertUsageLog(ctx context.Context, usageLog UsageLog) (UsageLog, error) {
	err := s.db.GetContext(ctx, &usageLog, sqlInsertUsageLog,
		usageLog.OwnerID,
		usageLog.ConversationID,
		usageLog.Mode,
		usageLog.Model,
		usageLog.TokensUsed,
	)
	if err != nil {
		s.logger.Error(ctx, "failed to insert usage log", err)
		return UsageLog{}, fmt.Errorf("failed to insert usage log: %w", err)
	}
	return usageLog, nil
}
