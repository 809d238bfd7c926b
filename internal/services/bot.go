package services

import (
	"context"
	"log"
	"sync"
	"time"

	tele "gopkg.in/telebot.v3"
)

// Bot delivers notifications to one Telegram chat.
type Bot struct {
	token  string
	chatID int64

	once sync.Once
	bot  *tele.Bot
	err  error
}

func NewBot(token string, chatID int64) (*Bot, error) {
	return &Bot{token: token, chatID: chatID}, nil
}

func (bot *Bot) client() (*tele.Bot, error) {
	bot.once.Do(func() {
		bot.bot, bot.err = tele.NewBot(tele.Settings{
			Token:  bot.token,
			Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		})
	})
	return bot.bot, bot.err
}

func (bot *Bot) SendMsg(chatID int64, text string) error {
	b, err := bot.client()
	if err != nil {
		return err
	}

	_, err = b.Send(tele.ChatID(chatID), text, &tele.SendOptions{
		ParseMode: tele.ModeHTML,
	})
	return err
}

func (bot *Bot) Notify(ctx context.Context, text string) error {
	return bot.SendMsg(bot.chatID, text)
}

// LogNotifier is used when no bot is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, text string) error {
	log.Println("notify:", text)
	return nil
}
