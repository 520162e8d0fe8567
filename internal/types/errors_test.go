package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (s *ErrorTestSuite) TestNewGameError() {
	// Setup
	code := ErrCapacity
	message := "session is full"

	// Execute
	err := NewGameError(code, message)

	// Assert
	s.Equal(code, err.Code, "Error code should match")
	s.Equal(message, err.Message, "Error message should match")
	s.Nil(err.Err, "Underlying error should be nil")
}

func (s *ErrorTestSuite) TestWrapError() {
	// Setup
	code := ErrDatabaseError
	message := "saving session"
	underlying := errors.New("disk full")

	// Execute
	err := WrapError(code, message, underlying)

	// Assert
	s.Equal(code, err.Code, "Error code should match")
	s.Equal(message, err.Message, "Error message should match")
	s.Equal(underlying, err.Err, "Underlying error should match")
	s.ErrorIs(err, underlying)
}

func (s *ErrorTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      *GameError
		expected string
	}{
		{
			name:     "Simple error",
			err:      NewGameError(ErrNotPlayerTurn, "not your turn"),
			expected: "NOT_PLAYER_TURN: not your turn",
		},
		{
			name:     "Formatted error",
			err:      Errorf(ErrIllegalCard, "card %s is not in hand", "abc"),
			expected: "ILLEGAL_CARD: card abc is not in hand",
		},
		{
			name:     "Wrapped error",
			err:      WrapError(ErrInternalError, "computer loop", errors.New("step bound exceeded")),
			expected: "INTERNAL_ERROR: computer loop (step bound exceeded)",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error(), "Error string should match expected format")
		})
	}
}

func (s *ErrorTestSuite) TestIsGameError() {
	// Setup
	gameErr := NewGameError(ErrGameNotFound, "game not found")
	regularErr := errors.New("regular error")

	testCases := []struct {
		name     string
		err      error
		code     ErrorCode
		expected bool
	}{
		{
			name:     "Matching game error",
			err:      gameErr,
			code:     ErrGameNotFound,
			expected: true,
		},
		{
			name:     "Wrapped game error",
			err:      fmt.Errorf("loading session: %w", gameErr),
			code:     ErrGameNotFound,
			expected: true,
		},
		{
			name:     "Non-matching game error",
			err:      gameErr,
			code:     ErrInternalError,
			expected: false,
		},
		{
			name:     "Regular error",
			err:      regularErr,
			code:     ErrGameNotFound,
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			code:     ErrGameNotFound,
			expected: false,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			result := IsGameError(tc.err, tc.code)
			s.Equal(tc.expected, result, "IsGameError result should match expected value")
		})
	}
}

func (s *ErrorTestSuite) TestAs() {
	// Setup
	gameErr := NewGameError(ErrGameNotFound, "game not found")
	regularErr := errors.New("regular error")

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Game error",
			err:      gameErr,
			expected: true,
		},
		{
			name:     "Regular error",
			err:      regularErr,
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			var target *GameError
			result := As(tc.err, &target)
			s.Equal(tc.expected, result, "As result should match expected value")
			if tc.expected {
				s.Equal(gameErr, target, "Target should be set to the game error")
			}
		})
	}
}

func (s *ErrorTestSuite) TestCodeOf() {
	s.Equal(ErrCapacity, CodeOf(NewGameError(ErrCapacity, "full")))
	s.Equal(ErrInternalError, CodeOf(errors.New("boom")), "Plain errors map to the internal code")
}
