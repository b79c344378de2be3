package repository

import (
	"context"
	"time"

	"github.com/Lina3386/weekgram/internal/models"
)

// DigestLog records the last delivered digest.
type DigestLog struct {
	Date   string    `json:"date"`
	ChatID string    `json:"chatId"`
	SentAt time.Time `json:"sentAt"`
}

type DigestLogRepository struct {
	kv *KVRepository
}

func NewDigestLogRepository(kv *KVRepository) *DigestLogRepository {
	return &DigestLogRepository{kv: kv}
}

func (r *DigestLogRepository) GetLastDigest(ctx context.Context) (*DigestLog, error) {
	entry := &DigestLog{}
	ok, err := r.kv.Load(ctx, LastDigestKey, entry)
	if err != nil || !ok {
		return nil, err
	}
	return entry, nil
}

// IsSentOnDate reports whether a digest was already delivered on the calendar day of date.
func (r *DigestLogRepository) IsSentOnDate(ctx context.Context, date time.Time) (bool, error) {
	entry, err := r.GetLastDigest(ctx)
	if err != nil || entry == nil {
		return false, err
	}
	return entry.Date == date.Format(models.DateLayout), nil
}

func (r *DigestLogRepository) MarkSent(ctx context.Context, date time.Time, chatID string, sentAt time.Time) error {
	return r.kv.Store(ctx, LastDigestKey, DigestLog{
		Date:   date.Format(models.DateLayout),
		ChatID: chatID,
		SentAt: sentAt.UTC(),
	})
}

func (r *DigestLogRepository) DeleteLastDigest(ctx context.Context) error {
	return r.kv.Delete(ctx, LastDigestKey)
}
