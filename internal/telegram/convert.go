package telegram

import (
	"sweetshop-bot/internal/bot"
	"sweetshop-bot/internal/media"

	tgbotapi "gopkg.in/telegram-bot-api.v4"
)

// toIncoming strips one Telegram update down to the router's Incoming.
// It also returns the chat to answer into and, for callback queries, the
// callback id to acknowledge. ok is false for update kinds the bot ignores
// (edits, channel posts, joins).
func toIncoming(update tgbotapi.Update) (in bot.Incoming, chatID int64, callbackID string, ok bool) {
	if cq := update.CallbackQuery; cq != nil && cq.From != nil {
		in.UserID = int64(cq.From.ID)
		in.Action = cq.Data
		chatID = in.UserID
		if cq.Message != nil && cq.Message.Chat != nil {
			chatID = cq.Message.Chat.ID
		}
		return in, chatID, cq.ID, true
	}

	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return bot.Incoming{}, 0, "", false
	}

	in.UserID = int64(m.From.ID)
	in.Attachment = attachmentFrom(m)
	if in.Attachment == nil {
		in.Text = m.Text
	}
	return in, m.Chat.ID, "", true
}

func attachmentFrom(m *tgbotapi.Message) *media.Attachment {
	switch {
	case m.Photo != nil && len(*m.Photo) > 0:
		// Telegram sends several sizes; the last one is the largest.
		p := (*m.Photo)[len(*m.Photo)-1]
		return &media.Attachment{
			Kind:     media.KindPhoto,
			FileID:   p.FileID,
			FileSize: p.FileSize,
			Width:    p.Width,
			Height:   p.Height,
		}
	case m.Document != nil:
		return &media.Attachment{
			Kind:     media.KindDocument,
			FileID:   m.Document.FileID,
			FileSize: m.Document.FileSize,
			FileName: m.Document.FileName,
			MimeType: m.Document.MimeType,
		}
	case m.Audio != nil:
		return &media.Attachment{
			Kind:      media.KindAudio,
			FileID:    m.Audio.FileID,
			FileSize:  m.Audio.FileSize,
			Title:     m.Audio.Title,
			Performer: m.Audio.Performer,
			Duration:  m.Audio.Duration,
		}
	case m.Video != nil:
		return &media.Attachment{
			Kind:     media.KindVideo,
			FileID:   m.Video.FileID,
			FileSize: m.Video.FileSize,
			Width:    m.Video.Width,
			Height:   m.Video.Height,
			Duration: m.Video.Duration,
		}
	}
	return nil
}

// buildMessage turns a router reply into a sendable Telegram message.
func buildMessage(chatID int64, reply bot.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeHTML

	if len(reply.ReplyKeyboard) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(reply.ReplyKeyboard))
		for _, row := range reply.ReplyKeyboard {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, buttons)
		}
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(rows...)
	}

	if len(reply.Inline) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reply.Inline))
		for _, row := range reply.Inline {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				if btn.URL != "" {
					buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(btn.Label, btn.URL))
				} else {
					buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Action))
				}
			}
			rows = append(rows, buttons)
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	return msg
}
