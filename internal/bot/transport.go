package bot

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-telegram-bot-api/telegram-bot-api"
	log "github.com/sirupsen/logrus"
)

// Transport - операции чат-платформы, нужные диспетчеру и рассылке.
type Transport interface {
	SendText(chatID int64, text string) error
	SendKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) error
	// SendPhoto отправляет фото с подписью; если вложение не ушло,
	// сам откатывается на текстовую отправку той же подписи.
	SendPhoto(chatID int64, photoPath, caption string) error
	IsMember(userID int) (bool, error)
	DownloadPhoto(fileID string) ([]byte, error)
}

// Telegram - реализация Transport поверх Bot API.
type Telegram struct {
	api         *tgbotapi.BotAPI
	groupChatID int64
}

func NewTelegram(api *tgbotapi.BotAPI, groupChatID int64) *Telegram {
	return &Telegram{api: api, groupChatID: groupChatID}
}

func (t *Telegram) SendText(chatID int64, text string) error {
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (t *Telegram) SendKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	_, err := t.api.Send(msg)
	return err
}

func (t *Telegram) SendPhoto(chatID int64, photoPath, caption string) error {
	photo := tgbotapi.NewPhotoUpload(chatID, photoPath)
	photo.Caption = caption
	if _, err := t.api.Send(photo); err != nil {
		// Вложение не ушло - подпись важнее картинки.
		log.WithError(err).WithField("photo", photoPath).
			Warn("фото не отправилось, откатываюсь на текст")
		return t.SendText(chatID, caption)
	}
	return nil
}

// IsMember проверяет членство пользователя в группе клуба.
func (t *Telegram) IsMember(userID int) (bool, error) {
	member, err := t.api.GetChatMember(tgbotapi.ChatConfigWithUser{
		ChatID: t.groupChatID,
		UserID: userID,
	})
	if err != nil {
		return false, err
	}
	return member.IsMember() || member.IsAdministrator() || member.IsCreator(), nil
}

// DownloadPhoto скачивает файл через файловый API Telegram.
func (t *Telegram) DownloadPhoto(fileID string) ([]byte, error) {
	file, err := t.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", t.api.Token, file.FilePath)
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP статус: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// GroupSender - адаптер для рассылки объявлений в группу.
type GroupSender struct {
	transport Transport
	chatID    int64
	// resolve переводит относительный путь фотографии в абсолютный.
	resolve func(string) string
}

func NewGroupSender(transport Transport, chatID int64, resolve func(string) string) *GroupSender {
	return &GroupSender{transport: transport, chatID: chatID, resolve: resolve}
}

func (g *GroupSender) SendGroupText(text string) error {
	return g.transport.SendText(g.chatID, text)
}

func (g *GroupSender) SendGroupPhoto(photoPath, caption string) error {
	return g.transport.SendPhoto(g.chatID, g.resolve(photoPath), caption)
}
