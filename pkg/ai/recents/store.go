// Package recents keeps the bounded per-(user, tool) history of AI tool runs.
//
// The ceiling is eventually consistent: writers racing on the same key may
// briefly leave Capacity+k entries, and every Append settles its key back to
// Capacity after its own insert commits.
package recents

import (
	"context"
	"errors"
	"fmt"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/specification"
	"gymflow-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Capacity is the maximum number of recent entries kept per (user, tool).
const Capacity = 10

var (
	ErrInvalidEntry     = errors.New("invalid recent entry")
	ErrStoreUnavailable = errors.New("recents store unavailable")
)

const logModule = "RECENTS"

type Store struct {
	uowFactory unitofwork.RepositoryFactory
	locker     KeyLocker
	logger     logger.ILogger
}

// NewStore builds a Store. A nil locker means no per-key locking.
func NewStore(uowFactory unitofwork.RepositoryFactory, locker KeyLocker, log logger.ILogger) *Store {
	if locker == nil {
		locker = NopLocker{}
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Store{
		uowFactory: uowFactory,
		locker:     locker,
		logger:     log,
	}
}

func keySpec(userId uuid.UUID, tool entity.AiTool) specification.Specification {
	return specification.RecentKey{
		UserID: userId,
		Tool:   string(tool),
		Kind:   string(entity.RecentKindRecent),
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

// Append inserts a new recent entry, evicting the oldest one for its key when
// the key is already at Capacity. Appending an id that already exists is a
// no-op, so a redelivered save never evicts twice.
func (s *Store) Append(ctx context.Context, entry *entity.AiRecent) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.AiRecentRepository().FindOne(ctx, specification.ByID{ID: entry.Id})
	if err != nil {
		return unavailable("lookup", err)
	}
	if existing != nil {
		s.logger.Debug(logModule, "Duplicate append ignored", map[string]interface{}{
			"recent_id": entry.Id.String(),
		})
		return nil
	}

	unlock, err := s.locker.Lock(ctx, lockKey(entry.UserId, entry.Tool))
	if err != nil {
		// Without the lock the append still goes ahead and Settle bounds the overshoot.
		s.logger.Warn(logModule, "Key lock unavailable, appending without it", map[string]interface{}{
			"user_id": entry.UserId.String(),
			"tool":    string(entry.Tool),
			"error":   err.Error(),
		})
		unlock = func() {}
	}
	defer unlock()

	if err := s.evictAndInsert(ctx, entry); err != nil {
		return err
	}

	if _, err := s.Settle(ctx, entry.UserId, entry.Tool); err != nil {
		s.logger.Warn(logModule, "Settle after append failed", map[string]interface{}{
			"user_id": entry.UserId.String(),
			"tool":    string(entry.Tool),
			"error":   err.Error(),
		})
	}
	return nil
}

func (s *Store) evictAndInsert(ctx context.Context, entry *entity.AiRecent) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return unavailable("begin", err)
	}
	defer uow.Rollback()

	repo := uow.AiRecentRepository()
	count, err := repo.Count(ctx, keySpec(entry.UserId, entry.Tool))
	if err != nil {
		return unavailable("count", err)
	}
	if count >= Capacity {
		if _, err := repo.DeleteOldest(ctx, 1, keySpec(entry.UserId, entry.Tool)); err != nil {
			return unavailable("evict", err)
		}
	}
	if err := repo.Create(ctx, entry); err != nil {
		return unavailable("insert", err)
	}
	if err := uow.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

// Settle trims a key back to Capacity, oldest first, and reports how many
// entries were removed.
func (s *Store) Settle(ctx context.Context, userId uuid.UUID, tool entity.AiTool) (int64, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).AiRecentRepository()
	count, err := repo.Count(ctx, keySpec(userId, tool))
	if err != nil {
		return 0, unavailable("count", err)
	}
	if count <= Capacity {
		return 0, nil
	}
	removed, err := repo.DeleteOldest(ctx, int(count-Capacity), keySpec(userId, tool))
	if err != nil {
		return 0, unavailable("trim", err)
	}
	s.logger.Info(logModule, "Trimmed overshoot", map[string]interface{}{
		"user_id": userId.String(),
		"tool":    string(tool),
		"count":   count,
		"removed": removed,
	})
	return removed, nil
}

func (s *Store) CountByKey(ctx context.Context, userId uuid.UUID, tool entity.AiTool) (int64, error) {
	count, err := s.uowFactory.NewUnitOfWork(ctx).AiRecentRepository().Count(ctx, keySpec(userId, tool))
	if err != nil {
		return 0, unavailable("count", err)
	}
	return count, nil
}

// ListRecent returns entries newest first. A non-positive limit means Capacity.
func (s *Store) ListRecent(ctx context.Context, userId uuid.UUID, tool entity.AiTool, limit, offset int) ([]*entity.AiRecent, error) {
	if limit <= 0 {
		limit = Capacity
	}
	if offset < 0 {
		offset = 0
	}
	recents, err := s.uowFactory.NewUnitOfWork(ctx).AiRecentRepository().FindAll(ctx,
		keySpec(userId, tool),
		specification.ChronologicalOrder{Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, unavailable("list", err)
	}
	return recents, nil
}

// DeleteOldest removes the single oldest entry for the key. An empty key is a no-op.
func (s *Store) DeleteOldest(ctx context.Context, userId uuid.UUID, tool entity.AiTool) error {
	if _, err := s.uowFactory.NewUnitOfWork(ctx).AiRecentRepository().DeleteOldest(ctx, 1, keySpec(userId, tool)); err != nil {
		return unavailable("delete oldest", err)
	}
	return nil
}

// Clear deletes every recent entry of a user, or only those of one tool.
func (s *Store) Clear(ctx context.Context, userId uuid.UUID, tool *entity.AiTool) (int64, error) {
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.ByRecentKind{Kind: string(entity.RecentKindRecent)},
	}
	if tool != nil {
		specs = append(specs, specification.ByTool{Tool: string(*tool)})
	}
	removed, err := s.uowFactory.NewUnitOfWork(ctx).AiRecentRepository().DeleteAll(ctx, specs...)
	if err != nil {
		return 0, unavailable("clear", err)
	}
	return removed, nil
}

// Purge deletes every entry a user owns, whatever its kind.
func (s *Store) Purge(ctx context.Context, userId uuid.UUID) (int64, error) {
	removed, err := s.uowFactory.NewUnitOfWork(ctx).AiRecentRepository().DeleteAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return 0, unavailable("purge", err)
	}
	return removed, nil
}

// OverCapacity lists the keys currently holding more than Capacity entries.
func (s *Store) OverCapacity(ctx context.Context) ([]contract.RecentKeyCount, error) {
	keys, err := s.uowFactory.NewUnitOfWork(ctx).AiRecentRepository().CountByKey(ctx, Capacity+1)
	if err != nil {
		return nil, unavailable("count by key", err)
	}
	return keys, nil
}

func validateEntry(entry *entity.AiRecent) error {
	switch {
	case entry == nil:
		return fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	case entry.Id == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrInvalidEntry)
	case entry.UserId == uuid.Nil:
		return fmt.Errorf("%w: missing user id", ErrInvalidEntry)
	case !entry.Tool.IsValid():
		return fmt.Errorf("%w: unknown tool %q", ErrInvalidEntry, entry.Tool)
	case entry.Kind != "" && entry.Kind != entity.RecentKindRecent:
		return fmt.Errorf("%w: kind %q cannot be appended", ErrInvalidEntry, entry.Kind)
	case entry.CreatedAt.IsZero():
		return fmt.Errorf("%w: missing created_at", ErrInvalidEntry)
	}
	return nil
}
