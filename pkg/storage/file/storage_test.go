package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/storage"
)

type StorageTestSuite struct {
	suite.Suite
	tempDir string
	path    string
	clock   *quartz.Mock
	storage *Storage
}

func TestStorage(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

func (s *StorageTestSuite) SetupTest() {
	// Create temp directory for test files
	tempDir, err := os.MkdirTemp("", "session-storage-test")
	s.Require().NoError(err)
	s.tempDir = tempDir
	s.path = filepath.Join(tempDir, "sessions.json")

	s.clock = quartz.NewMock(s.T())
	s.clock.Set(time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC))

	st, err := New(s.options())
	s.Require().NoError(err)
	s.storage = st
}

func (s *StorageTestSuite) TearDownTest() {
	s.storage.Close()
	os.RemoveAll(s.tempDir)
}

func (s *StorageTestSuite) options() *storage.Options {
	return &storage.Options{
		Path:          s.path,
		MaxSessionAge: time.Hour,
		AutoCleanup:   false,
		Clock:         s.clock,
	}
}

func newSession(id string, updated time.Time) *entities.Session {
	deck := entities.NewDeck()
	alice := entities.NewPlayer("alice")
	alice.AddCards(deck.Draw(7)...)
	bot := entities.NewComputerPlayer("Smart Sarah", entities.Medium)
	bot.AddCards(deck.Draw(7)...)

	return &entities.Session{
		ID:          id,
		Players:     []*entities.Player{alice, bot},
		Direction:   -1,
		DiscardPile: deck.Draw(1),
		DrawPile:    deck.Cards,
		ActiveColor: entities.Green,
		Status:      entities.StatusPlaying,
		CreatedAt:   updated,
		UpdatedAt:   updated,
	}
}

func (s *StorageTestSuite) TestSaveAndLoadSession() {
	// Setup
	ctx := context.Background()
	session := newSession("session-1", s.clock.Now())

	// Execute
	err := s.storage.SaveSession(ctx, session)
	s.Require().NoError(err, "Failed to save session")

	// Assert
	loaded, err := s.storage.LoadSession(ctx, session.ID)
	s.Require().NoError(err, "Failed to load session")
	s.Equal(session, loaded, "Snapshot must round-trip")
	s.NotSame(session, loaded, "Storage must not hand out the live session")
}

func (s *StorageTestSuite) TestSnapshotsSurviveRestart() {
	ctx := context.Background()
	session := newSession("session-1", s.clock.Now())
	s.Require().NoError(s.storage.SaveSession(ctx, session))

	reopened, err := New(s.options())
	s.Require().NoError(err)
	defer reopened.Close()

	loaded, err := reopened.LoadSession(ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(entities.DeckSize, len(loaded.DrawPile)+len(loaded.DiscardPile)+len(loaded.Players[0].Hand)+len(loaded.Players[1].Hand))
	s.Equal(session.Players[1].Hand, loaded.Players[1].Hand)
	s.Equal(session.Direction, loaded.Direction)
	s.True(session.UpdatedAt.Equal(loaded.UpdatedAt))
}

func (s *StorageTestSuite) TestSaveCopiesSession() {
	ctx := context.Background()
	session := newSession("session-1", s.clock.Now())
	s.Require().NoError(s.storage.SaveSession(ctx, session))

	session.Players[0].Hand = nil

	loaded, err := s.storage.LoadSession(ctx, session.ID)
	s.Require().NoError(err)
	s.Len(loaded.Players[0].Hand, 7)
}

func (s *StorageTestSuite) TestLoadMissingSession() {
	_, err := s.storage.LoadSession(context.Background(), "missing")

	s.True(errors.Is(err, storage.ErrSessionNotFound))
}

func (s *StorageTestSuite) TestDeleteSession() {
	// Setup
	ctx := context.Background()
	session := newSession("session-1", s.clock.Now())
	s.Require().NoError(s.storage.SaveSession(ctx, session))

	// Execute
	err := s.storage.DeleteSession(ctx, session.ID)

	// Assert
	s.Require().NoError(err, "Failed to delete session")
	_, err = s.storage.LoadSession(ctx, session.ID)
	s.ErrorIs(err, storage.ErrSessionNotFound, "Session should be deleted")
}

func (s *StorageTestSuite) TestListSessions() {
	// Setup
	ctx := context.Background()
	first := newSession("session-1", s.clock.Now())
	second := newSession("session-2", s.clock.Now().Add(time.Minute))
	s.Require().NoError(s.storage.SaveSession(ctx, second))
	s.Require().NoError(s.storage.SaveSession(ctx, first))

	// Execute
	listed, err := s.storage.ListSessions(ctx)

	// Assert
	s.Require().NoError(err, "Failed to list sessions")
	s.Require().Len(listed, 2, "Wrong number of sessions")
	s.Equal("session-1", listed[0].ID, "Oldest session first")
}

func (s *StorageTestSuite) TestCleanupOldSessions() {
	// Setup
	ctx := context.Background()
	oldSession := newSession("old-session", s.clock.Now().Add(-2*time.Hour))
	fresh := newSession("new-session", s.clock.Now())
	s.Require().NoError(s.storage.SaveSession(ctx, oldSession))
	s.Require().NoError(s.storage.SaveSession(ctx, fresh))

	// Execute
	removed, err := s.storage.CleanupOldSessions(ctx, time.Hour)

	// Assert
	s.Require().NoError(err, "Failed to cleanup old sessions")
	s.Equal([]string{"old-session"}, removed)
	sessions, err := s.storage.ListSessions(ctx)
	s.Require().NoError(err)
	s.Len(sessions, 1, "Should have only one session after cleanup")
	s.Equal(fresh.ID, sessions[0].ID, "Wrong session remained after cleanup")
}

func (s *StorageTestSuite) TestMemoryOnly() {
	ctx := context.Background()
	memory := NewMemory()
	defer memory.Close()

	s.Require().NoError(memory.SaveSession(ctx, newSession("session-1", s.clock.Now())))

	_, err := memory.LoadSession(ctx, "session-1")
	s.NoError(err)
	entries, err := os.ReadDir(s.tempDir)
	s.Require().NoError(err)
	s.Empty(entries, "Memory storage must not write files")
}
