package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const captionTimeFormat = "2006-01-02 15:04:05"

// BotAPI defines the interface for Telegram bot API operations.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier delivers a stored image and its analysis to a destination.
type Notifier interface {
	// Deliver sends the image as a photo with a timestamp caption, then the
	// analysis as a separate text message. Transport errors propagate.
	Deliver(imagePath, analysis string) error
}

// TelegramNotifier sends notifications to a fixed Telegram chat.
type TelegramNotifier struct {
	api    BotAPI
	chatID int64
}

func NewTelegramNotifier(api BotAPI, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{api: api, chatID: chatID}
}

// Deliver implements the Notifier interface. The text message is only sent
// after the photo message has completed.
func (n *TelegramNotifier) Deliver(imagePath, analysis string) error {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", imagePath, err)
	}

	timestamp := time.Now().Format(captionTimeFormat)

	photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FileBytes{
		Name:  filepath.Base(imagePath),
		Bytes: imageData,
	})
	photo.Caption = timestamp
	if _, err := n.api.Send(photo); err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	log.Info().Int64("chatID", n.chatID).Str("timestamp", timestamp).Msg("photo sent to telegram")

	msg := tgbotapi.NewMessage(n.chatID, analysis)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send analysis message: %w", err)
	}
	log.Info().Int64("chatID", n.chatID).Msg("analysis sent to telegram")

	return nil
}
