package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/uno/internal/types"
	"github.com/fadedpez/uno/pkg/entities"
)

// ResponseEmoji maps error codes to appropriate emojis
var ResponseEmoji = map[types.ErrorCode]string{
	types.ErrGameNotFound:     "🔍",
	types.ErrGameNotActive:    "⏸️",
	types.ErrGameAlreadyEnded: "🏁",
	types.ErrDepletedDeck:     "🂠",
	types.ErrPlayerNotFound:   "👤",
	types.ErrNotPlayerTurn:    "⏳",
	types.ErrCapacity:         "👥",
	types.ErrNotEnoughPlayers: "🤷",
	types.ErrIllegalCard:      "❌",
	types.ErrInvalidCommand:   "⛔",
	types.ErrInvalidArgument:  "❗",
	types.ErrInternalError:    "💥",
	types.ErrDatabaseError:    "💾",
}

// ColorEmoji renders card colors
var ColorEmoji = map[entities.Color]string{
	entities.Red:    "🟥",
	entities.Blue:   "🟦",
	entities.Green:  "🟩",
	entities.Yellow: "🟨",
	entities.Wild:   "🌈",
}

// EmbedColor is the embed side bar color for each card color
var EmbedColor = map[entities.Color]int{
	entities.Red:    0xD72600,
	entities.Blue:   0x0956BF,
	entities.Green:  0x379711,
	entities.Yellow: 0xECD407,
	entities.Wild:   0x222222,
}

// FormatError renders an error for a channel message
func FormatError(err error) string {
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		emoji := ResponseEmoji[gameErr.Code]
		if emoji == "" {
			emoji = "❌"
		}
		return fmt.Sprintf("%s %s", emoji, gameErr.Message)
	}
	return fmt.Sprintf("❌ An error occurred: %v", err)
}

// FormatCard renders a card with its color emoji
func FormatCard(card *entities.Card) string {
	if card == nil {
		return "none"
	}
	return fmt.Sprintf("%s %s", ColorEmoji[card.Color], card.String())
}

// FormatSession renders a one-line status for a session
func FormatSession(session *entities.Session) string {
	switch session.Status {
	case entities.StatusWaiting:
		names := make([]string, 0, len(session.Players))
		for _, p := range session.Players {
			names = append(names, p.Name)
		}
		return fmt.Sprintf("🃏 Table %s is waiting (%d/%d): %s",
			shortID(session.ID), len(session.Players), entities.MaxPlayers, strings.Join(names, ", "))
	case entities.StatusFinished:
		winner := session.Player(session.Winner)
		if winner == nil {
			return fmt.Sprintf("🏁 Table %s finished", shortID(session.ID))
		}
		return fmt.Sprintf("🏁 Table %s finished, %s wins", shortID(session.ID), winner.Name)
	}

	current := session.CurrentPlayer()
	name := "nobody"
	if current != nil {
		name = current.Name
	}
	return fmt.Sprintf("🃏 Table %s: %s to play on %s (active %s) | draw pile %d",
		shortID(session.ID), name, FormatCard(session.TopCard()),
		ColorEmoji[session.ActiveColor], len(session.DrawPile))
}

// NewSummaryEmbed builds the announcement embed for a finished match
func NewSummaryEmbed(summary *entities.GameSummary) *discordgo.MessageEmbed {
	color := EmbedColor[entities.Wild]
	fields := make([]*discordgo.MessageEmbedField, 0, len(summary.Players))
	for _, p := range summary.Players {
		label := p.PlayerName
		if p.IsComputer {
			label = fmt.Sprintf("%s (%s bot)", p.PlayerName, p.Difficulty)
		}
		value := fmt.Sprintf("%d cards left", p.CardsLeft)
		if p.PlayerID == summary.Winner {
			value = "🏆 winner"
			if c, ok := EmbedColor[p.FavoriteColor]; ok {
				color = c
			}
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: label, Value: value, Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s wins!", summary.WinnerName),
		Description: fmt.Sprintf("%d turns in %s", summary.TotalTurns, summary.Duration.Round(time.Second)),
		Color:       color,
		Fields:      fields,
		Timestamp:   summary.CompletedAt.Format(time.RFC3339),
	}
}

// SendMessage posts a plain message to a channel
func SendMessage(s SessionHandler, channelID, content string) error {
	_, err := s.ChannelMessageSend(channelID, content)
	return err
}

// SendEmbed posts an embed to a channel
func SendEmbed(s SessionHandler, channelID string, embed *discordgo.MessageEmbed) error {
	_, err := s.ChannelMessageSendEmbed(channelID, embed)
	return err
}

// SendErrorMessage posts an error to a channel
func SendErrorMessage(s SessionHandler, channelID string, err error) error {
	return SendMessage(s, channelID, FormatError(err))
}

// Helper functions

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
