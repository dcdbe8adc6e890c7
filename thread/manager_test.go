package thread_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/oenomel87/agora/discussion"
	"github.com/oenomel87/agora/entity"
	"github.com/oenomel87/agora/errors"
	"github.com/oenomel87/agora/internal/db"
	"github.com/oenomel87/agora/internal/mylog"
	"github.com/oenomel87/agora/thread"
)

type ThreadManagerTestSuite struct {
	suite.Suite
	context.Context

	manager thread.Manager
	DB      *gorm.DB
}

func (s *ThreadManagerTestSuite) SetupTest() {
	s.Context = context.TODO()

	gormDB, err := db.OpenDB(filepath.Join(s.T().TempDir(), "agora_test.db"))
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(gormDB))

	s.DB = gormDB
	s.manager = thread.NewManager(mylog.NewLogger("error", "json"), gormDB)
}

func (s *ThreadManagerTestSuite) TearDownTest() {
	s.Require().NoError(db.CloseDB(s.DB))
}

func (s *ThreadManagerTestSuite) TestCreateThreadDefaults() {
	created, err := s.manager.CreateThread(s.Context, "")
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
	s.Equal(entity.DefaultThreadTitle, created.Title)
	s.Equal(discussion.PhaseOpinion, created.Phase)

	found, err := s.manager.GetThreadByID(s.Context, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Empty(found.Messages)
}

func (s *ThreadManagerTestSuite) TestGetThreadNotFound() {
	_, err := s.manager.GetThreadByID(s.Context, "no-such-thread")
	s.Require().Error(err)
	s.True(errors.Is(err, errors.ErrNotFound))
}

func (s *ThreadManagerTestSuite) TestAddMessageOrdering() {
	created, err := s.manager.CreateThread(s.Context, "ordering")
	s.Require().NoError(err)

	model := discussion.ModelGemini
	_, err = s.manager.AddMessage(s.Context, created.ID, discussion.RoleUser, "hi", nil, nil)
	s.Require().NoError(err)
	_, err = s.manager.AddMessage(s.Context, created.ID, discussion.RoleAssistant, "hello", &model, nil)
	s.Require().NoError(err)

	found, err := s.manager.GetThreadByID(s.Context, created.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Messages, 2)

	s.Equal(discussion.RoleUser, found.Messages[0].Role)
	s.Nil(found.Messages[0].Model)
	s.Equal(discussion.RoleAssistant, found.Messages[1].Role)
	s.Require().NotNil(found.Messages[1].Model)
	s.Equal("gemini", *found.Messages[1].Model)

	for i := 1; i < len(found.Messages); i++ {
		s.False(found.Messages[i].CreatedAt.Before(found.Messages[i-1].CreatedAt))
	}
}

func (s *ThreadManagerTestSuite) TestAddMessageBumpsUpdatedAt() {
	created, err := s.manager.CreateThread(s.Context, "bump")
	s.Require().NoError(err)

	time.Sleep(10 * time.Millisecond)
	_, err = s.manager.AddMessage(s.Context, created.ID, discussion.RoleUser, "hi", nil, nil)
	s.Require().NoError(err)

	found, err := s.manager.GetThreadByID(s.Context, created.ID)
	s.Require().NoError(err)
	s.True(found.UpdatedAt.After(created.UpdatedAt))
}

func (s *ThreadManagerTestSuite) TestAddMessageToMissingThread() {
	_, err := s.manager.AddMessage(s.Context, "no-such-thread", discussion.RoleUser, "hi", nil, nil)
	s.Require().Error(err)
	s.True(errors.Is(err, errors.ErrNotFound))
}

func (s *ThreadManagerTestSuite) TestAddMessageIdempotentByRequestID() {
	created, err := s.manager.CreateThread(s.Context, "idempotent")
	s.Require().NoError(err)

	requestID := "req-1"
	first, err := s.manager.AddMessage(s.Context, created.ID, discussion.RoleUser, "hi", nil, &requestID)
	s.Require().NoError(err)

	afterFirst, err := s.manager.GetThreadByID(s.Context, created.ID)
	s.Require().NoError(err)

	time.Sleep(10 * time.Millisecond)
	replayed, err := s.manager.AddMessage(s.Context, created.ID, discussion.RoleUser, "hi", nil, &requestID)
	s.Require().NoError(err)
	s.Equal(first.ID, replayed.ID)
	s.Equal("hi", replayed.Content)

	found, err := s.manager.GetThreadByID(s.Context, created.ID)
	s.Require().NoError(err)
	s.Len(found.Messages, 1)

	// A replay must not disturb recency ordering.
	s.Equal(afterFirst.UpdatedAt, found.UpdatedAt)
}

func (s *ThreadManagerTestSuite) TestAssistantMessageBumpsTurnCount() {
	created, err := s.manager.CreateThread(s.Context, "turns")
	s.Require().NoError(err)

	model := discussion.ModelGPT
	_, err = s.manager.AddMessage(s.Context, created.ID, discussion.RoleAssistant, "first", &model, nil)
	s.Require().NoError(err)
	_, err = s.manager.AddMessage(s.Context, created.ID, discussion.RoleAssistant, "second", &model, nil)
	s.Require().NoError(err)

	found, err := s.manager.GetThreadByID(s.Context, created.ID)
	s.Require().NoError(err)
	s.Equal(2, found.TurnCounts.Data()["gpt"])
}

func (s *ThreadManagerTestSuite) TestListThreadsMostRecentFirst() {
	first, err := s.manager.CreateThread(s.Context, "first")
	s.Require().NoError(err)
	time.Sleep(10 * time.Millisecond)
	second, err := s.manager.CreateThread(s.Context, "second")
	s.Require().NoError(err)

	threads, err := s.manager.GetThreads(s.Context)
	s.Require().NoError(err)
	s.Require().Len(threads, 2)
	s.Equal(second.ID, threads[0].ID)

	// Appending to the older thread moves it to the front.
	time.Sleep(10 * time.Millisecond)
	_, err = s.manager.AddMessage(s.Context, first.ID, discussion.RoleUser, "hi", nil, nil)
	s.Require().NoError(err)

	threads, err = s.manager.GetThreads(s.Context)
	s.Require().NoError(err)
	s.Equal(first.ID, threads[0].ID)
}

func (s *ThreadManagerTestSuite) TestDeleteThread() {
	created, err := s.manager.CreateThread(s.Context, "doomed")
	s.Require().NoError(err)
	_, err = s.manager.AddMessage(s.Context, created.ID, discussion.RoleUser, "hi", nil, nil)
	s.Require().NoError(err)

	deleted, err := s.manager.DeleteThread(s.Context, created.ID)
	s.Require().NoError(err)
	s.True(deleted)

	_, err = s.manager.GetThreadByID(s.Context, created.ID)
	s.True(errors.Is(err, errors.ErrNotFound))

	var count int64
	s.Require().NoError(s.DB.Model(&entity.Message{}).Where("thread_id = ?", created.ID).Count(&count).Error)
	s.EqualValues(0, count)
}

func (s *ThreadManagerTestSuite) TestDeleteMissingThreadReturnsFalse() {
	deleted, err := s.manager.DeleteThread(s.Context, "no-such-thread")
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *ThreadManagerTestSuite) TestUpdateTitle() {
	created, err := s.manager.CreateThread(s.Context, "before")
	s.Require().NoError(err)

	updated, err := s.manager.UpdateTitle(s.Context, created.ID, "after")
	s.Require().NoError(err)
	s.True(updated)

	found, err := s.manager.GetThreadByID(s.Context, created.ID)
	s.Require().NoError(err)
	s.Equal("after", found.Title)

	updated, err = s.manager.UpdateTitle(s.Context, "no-such-thread", "after")
	s.Require().NoError(err)
	s.False(updated)
}

func (s *ThreadManagerTestSuite) TestUpdatePhase() {
	created, err := s.manager.CreateThread(s.Context, "phased")
	s.Require().NoError(err)

	updated, err := s.manager.UpdatePhase(s.Context, created.ID, discussion.PhaseFreeTalk)
	s.Require().NoError(err)
	s.True(updated)

	found, err := s.manager.GetThreadByID(s.Context, created.ID)
	s.Require().NoError(err)
	s.Equal(discussion.PhaseFreeTalk, found.Phase)
}

func TestThreadManager(t *testing.T) {
	suite.Run(t, new(ThreadManagerTestSuite))
}
