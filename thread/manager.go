package thread

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oenomel87/agora/discussion"
	"github.com/oenomel87/agora/entity"
	"github.com/oenomel87/agora/errors"
	"github.com/oenomel87/agora/internal/mylog"
)

type (
	Manager interface {
		CreateThread(ctx context.Context, title string) (*entity.Thread, error)
		GetThreads(ctx context.Context) ([]entity.Thread, error)
		GetThreadByID(ctx context.Context, threadID string) (*entity.Thread, error)
		DeleteThread(ctx context.Context, threadID string) (bool, error)
		AddMessage(ctx context.Context, threadID string, role string, content string, model *discussion.ModelName, requestID *string) (*entity.Message, error)
		UpdateTitle(ctx context.Context, threadID string, title string) (bool, error)
		UpdatePhase(ctx context.Context, threadID string, phase discussion.Phase) (bool, error)
	}

	manager struct {
		logger *mylog.Logger
		db     *gorm.DB
	}
)

func NewManager(logger *mylog.Logger, db *gorm.DB) Manager {
	return &manager{
		logger: logger,
		db:     db,
	}
}

func (s *manager) CreateThread(ctx context.Context, title string) (*entity.Thread, error) {
	tx := s.db.WithContext(ctx)

	thread := entity.Thread{
		Title: title,
	}

	if err := tx.Create(&thread).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to create thread")
	}

	return &thread, nil
}

func (s *manager) GetThreads(ctx context.Context) ([]entity.Thread, error) {
	tx := s.db.WithContext(ctx)

	var threads []entity.Thread
	if err := tx.Order("updated_at DESC").Find(&threads).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to find threads")
	}

	return threads, nil
}

func (s *manager) GetThreadByID(ctx context.Context, threadID string) (*entity.Thread, error) {
	tx := s.db.WithContext(ctx)

	var thread entity.Thread
	r := tx.Preload("Messages", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC, id ASC")
	}).Find(&thread, "id = ?", threadID)
	if r.Error != nil {
		return nil, errors.Wrapf(r.Error, "failed to find thread")
	}
	if r.RowsAffected == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "thread %q not found", threadID)
	}

	return &thread, nil
}

func (s *manager) DeleteThread(ctx context.Context, threadID string) (bool, error) {
	var deleted bool
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", threadID).Delete(&entity.Message{}).Error; err != nil {
			return errors.Wrapf(err, "failed to delete messages")
		}

		r := tx.Delete(&entity.Thread{}, "id = ?", threadID)
		if r.Error != nil {
			return errors.Wrapf(r.Error, "failed to delete thread")
		}
		deleted = r.RowsAffected > 0

		return nil
	}); err != nil {
		return false, err
	}

	return deleted, nil
}

// AddMessage inserts one message and bumps the parent thread's updated_at in
// a single transaction, so recency ordering never observes a half-applied
// append. Assistant appends also bump the thread's per-model turn counter.
// A requestID makes the insert idempotent: a replayed request returns the
// already-persisted row untouched.
func (s *manager) AddMessage(
	ctx context.Context,
	threadID string,
	role string,
	content string,
	model *discussion.ModelName,
	requestID *string,
) (*entity.Message, error) {
	var msg entity.Message
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var thread entity.Thread
		if r := tx.Find(&thread, "id = ?", threadID); r.Error != nil {
			return errors.Wrapf(r.Error, "failed to find thread")
		} else if r.RowsAffected == 0 {
			return errors.Wrapf(errors.ErrNotFound, "thread %q not found", threadID)
		}

		msg.ThreadID = thread.ID
		msg.Role = role
		msg.Content = content
		msg.RequestID = requestID
		if model != nil {
			name := model.String()
			msg.Model = &name
		}

		if requestID != nil {
			r := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "request_id"}},
				DoNothing: true,
			}).Create(&msg)
			if r.Error != nil {
				return errors.Wrapf(r.Error, "failed to save message")
			}
			if r.RowsAffected == 0 {
				s.logger.Debug("duplicate request id, keeping existing message", "request_id", *requestID)
				// msg already carries a fresh primary key from the hook, so
				// reload into a clean struct to keep it out of the WHERE.
				var existing entity.Message
				if err := tx.Where("request_id = ?", *requestID).First(&existing).Error; err != nil {
					return errors.Wrapf(err, "failed to load existing message")
				}
				msg = existing
				return nil
			}
		} else if err := tx.Create(&msg).Error; err != nil {
			return errors.Wrapf(err, "failed to save message")
		}

		if model != nil && role == discussion.RoleAssistant {
			counts := thread.TurnCounts.Data()
			if counts == nil {
				counts = map[string]int{}
			}
			counts[model.String()]++
			thread.TurnCounts = datatypes.NewJSONType(counts)
		}

		if err := tx.Save(&thread).Error; err != nil {
			return errors.Wrapf(err, "failed to touch thread")
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return &msg, nil
}

func (s *manager) UpdateTitle(ctx context.Context, threadID string, title string) (bool, error) {
	tx := s.db.WithContext(ctx)

	r := tx.Model(&entity.Thread{}).Where("id = ?", threadID).Update("title", title)
	if r.Error != nil {
		return false, errors.Wrapf(r.Error, "failed to update title")
	}

	return r.RowsAffected > 0, nil
}

func (s *manager) UpdatePhase(ctx context.Context, threadID string, phase discussion.Phase) (bool, error) {
	tx := s.db.WithContext(ctx)

	r := tx.Model(&entity.Thread{}).Where("id = ?", threadID).Update("phase", phase)
	if r.Error != nil {
		return false, errors.Wrapf(r.Error, "failed to update phase")
	}

	return r.RowsAffected > 0, nil
}
