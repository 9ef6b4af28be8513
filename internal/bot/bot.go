// Package bot принимает события Telegram и раздает их диалогам.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram-bot-api/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/t1ery/AutoClubBot/internal/domain"
	"github.com/t1ery/AutoClubBot/internal/media"
	"github.com/t1ery/AutoClubBot/internal/session"
	"github.com/t1ery/AutoClubBot/internal/storage"
	"github.com/t1ery/AutoClubBot/internal/workflow"
)

const (
	replyNotMember = "Бот доступен только участникам группы клуба. " +
		"Сначала вступите в группу."
	replyPhotoFailed = "Не получилось загрузить фотографию. " +
		"Пришлите её ещё раз, пожалуйста."
	replyNoDialog = "Сейчас нет активного диалога. Выберите действие:"
)

// Команды, которые внутри диалога равнозначны набранному тексту.
var inlineCommands = map[string]bool{
	"skip": true, "done": true, "finish": true, "cancel": true, "continue": true,
}

// Bot - диспетчер: ворота членства, маршрутизация команд, кнопок,
// текста и фотографий.
type Bot struct {
	api       *tgbotapi.BotAPI
	transport Transport
	sessions  *session.Store
	engine    *workflow.Engine
	store     storage.Storage
	media     *media.Store
}

func New(api *tgbotapi.BotAPI, transport Transport, sessions *session.Store,
	engine *workflow.Engine, store storage.Storage, mediaStore *media.Store) *Bot {
	return &Bot{
		api:       api,
		transport: transport,
		sessions:  sessions,
		engine:    engine,
		store:     store,
		media:     mediaStore,
	}
}

// Run запускает цикл обновлений. Каждое обновление обрабатывается
// в своей горутине; события одного пользователя сериализует
// хранилище сессий.
func (b *Bot) Run() error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates, err := b.api.GetUpdatesChan(updateConfig)
	if err != nil {
		return fmt.Errorf("подписка на обновления: %w", err)
	}
	log.Info("бот запущен")

	for update := range updates {
		update := update
		go b.handleUpdate(update)
	}
	return nil
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("паника при обработке обновления")
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	// Приветствие новых участников группы.
	if msg.NewChatMembers != nil {
		for _, newUser := range *msg.NewChatMembers {
			b.welcome(newUser.ID, msg.Chat.ID)
		}
		return
	}
	// Диалоги живут только в личке.
	if !msg.Chat.IsPrivate() {
		return
	}

	userID := int64(msg.From.ID)
	if !b.gate(msg.From.ID, msg.Chat.ID) {
		return
	}

	b.sessions.Acquire(userID)
	defer b.sessions.Release(userID)

	if msg.IsCommand() {
		b.handleCommand(userID, msg)
		return
	}

	ctx := context.Background()
	switch {
	case msg.Photo != nil && len(*msg.Photo) > 0:
		b.handlePhoto(ctx, userID, msg)
	case msg.Text != "":
		reply, handled := b.engine.HandleEvent(ctx, userID, workflow.Event{Text: msg.Text})
		if !handled {
			b.sendMenu(userID, replyNoDialog)
			return
		}
		b.reply(userID, reply)
	}
}

// gate пропускает только участников группы клуба.
func (b *Bot) gate(userID int, chatID int64) bool {
	ok, err := b.transport.IsMember(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).
			Warn("не удалось проверить членство")
		_ = b.transport.SendText(chatID, replyNotMember)
		return false
	}
	if !ok {
		_ = b.transport.SendText(chatID, replyNotMember)
	}
	return ok
}

func (b *Bot) handleCommand(userID int64, msg *tgbotapi.Message) {
	cmd := msg.Command()

	// /skip и прочие внутри диалога - то же самое, что текст.
	if inlineCommands[cmd] {
		reply, handled := b.engine.HandleEvent(context.Background(), userID,
			workflow.Event{Text: "/" + cmd})
		if !handled {
			b.sendMenu(userID, replyNoDialog)
			return
		}
		b.reply(userID, reply)
		return
	}

	switch cmd {
	case "start", "help":
		b.sendMenu(userID, helpText)
	case "register":
		b.reply(userID, b.engine.Start(userID, session.KindRegistration))
	case "addcar":
		b.reply(userID, b.engine.Start(userID, session.KindAddCar))
	case "invite":
		b.reply(userID, b.engine.Start(userID, session.KindCreateInvitation))
	case "search":
		b.reply(userID, b.engine.Start(userID, session.KindSearch))
	case "profile":
		b.viewProfile(userID)
	case "mycars":
		b.viewCars(userID)
	case "myinvites":
		b.viewInvitations(userID)
	case "stats":
		b.viewStats(userID)
	default:
		b.sendMenu(userID, "Не знаю такой команды. Выберите действие:")
	}
}

// handlePhoto скачивает лучшую версию фотографии и передает её
// диалогу. Сбой загрузки не трогает сессию - шаг просто повторится.
func (b *Bot) handlePhoto(ctx context.Context, userID int64, msg *tgbotapi.Message) {
	sess := b.sessions.Get(userID)
	if sess == nil {
		b.sendMenu(userID, replyNoDialog)
		return
	}

	sizes := *msg.Photo
	best := sizes[len(sizes)-1] // последняя - самая большая
	data, err := b.transport.DownloadPhoto(best.FileID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("фото не скачалось")
		b.reply(userID, replyPhotoFailed)
		return
	}

	bucket, kind := photoBucket(sess.Kind)
	path, err := b.media.Save(bucket, userID, kind, data)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("фото не сохранилось")
		b.reply(userID, replyPhotoFailed)
		return
	}

	reply, handled := b.engine.HandleEvent(ctx, userID, workflow.Event{PhotoPath: path})
	if handled {
		b.reply(userID, reply)
	}
}

// photoBucket выбирает корзину и имя по виду диалога.
func photoBucket(kind session.Kind) (bucket, name string) {
	switch kind {
	case session.KindRegistration:
		return media.BucketMembers, "profile"
	case session.KindCreateInvitation:
		return media.BucketCars, "invite"
	default:
		return media.BucketCars, "car"
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	// Кнопку надо погасить независимо от результата.
	if _, err := b.api.AnswerCallbackQuery(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.WithError(err).Debug("ответ на callback не ушёл")
	}

	userID := int64(cb.From.ID)
	if !b.gate(cb.From.ID, userID) {
		return
	}

	b.sessions.Acquire(userID)
	defer b.sessions.Release(userID)

	switch cb.Data {
	case cbRegister:
		b.reply(userID, b.engine.Start(userID, session.KindRegistration))
	case cbAddCar:
		b.reply(userID, b.engine.Start(userID, session.KindAddCar))
	case cbInvite:
		b.reply(userID, b.engine.Start(userID, session.KindCreateInvitation))
	case cbSearch:
		b.reply(userID, b.engine.Start(userID, session.KindSearch))
	case cbProfile:
		b.viewProfile(userID)
	case cbCars:
		b.viewCars(userID)
	case cbInvites:
		b.viewInvitations(userID)
	case cbStats:
		b.viewStats(userID)
	}
}

// welcome здоровается с новичком в личке, а если личка закрыта - в
// группе, уже без кнопок.
func (b *Bot) welcome(userID int, groupChatID int64) {
	err := b.transport.SendKeyboard(int64(userID),
		"Добро пожаловать в клуб! Чем займёмся?", mainMenuKeyboard())
	if err != nil {
		_ = b.transport.SendText(groupChatID,
			"Добро пожаловать! Напишите мне в личку, чтобы вступить в клуб.")
	}
}

func (b *Bot) viewProfile(userID int64) {
	m, err := b.store.FindMemberByUser(context.Background(), userID)
	if errors.Is(err, domain.ErrNotFound) {
		b.reply(userID, "Анкеты ещё нет. Команда /register - вступить в клуб.")
		return
	}
	if err != nil {
		b.storeTrouble(userID, err)
		return
	}
	if m.PhotoPath != "" {
		_ = b.transport.SendPhoto(userID, b.media.Path(m.PhotoPath), renderProfile(m))
		return
	}
	b.reply(userID, renderProfile(m))
}

func (b *Bot) viewCars(userID int64) {
	ctx := context.Background()
	m, err := b.store.FindMemberByUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		b.reply(userID, "Анкеты ещё нет. Команда /register - вступить в клуб.")
		return
	}
	if err != nil {
		b.storeTrouble(userID, err)
		return
	}
	cars, err := b.store.CarsForMember(ctx, m.ID)
	if err != nil {
		b.storeTrouble(userID, err)
		return
	}
	b.reply(userID, renderCars(cars))
}

func (b *Bot) viewInvitations(userID int64) {
	ctx := context.Background()
	m, err := b.store.FindMemberByUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		b.reply(userID, "Анкеты ещё нет. Команда /register - вступить в клуб.")
		return
	}
	if err != nil {
		b.storeTrouble(userID, err)
		return
	}
	invitations, err := b.store.InvitationsForInviter(ctx, m.ID)
	if err != nil {
		b.storeTrouble(userID, err)
		return
	}
	b.reply(userID, renderInvitations(invitations))
}

func (b *Bot) viewStats(userID int64) {
	st, err := b.store.Stats(context.Background())
	if err != nil {
		b.storeTrouble(userID, err)
		return
	}
	b.reply(userID, renderStats(st))
}

func (b *Bot) storeTrouble(userID int64, err error) {
	log.WithError(err).WithField("user_id", userID).Error("запрос к хранилищу не удался")
	b.reply(userID, "Что-то пошло не так. Попробуйте позже.")
}

func (b *Bot) reply(userID int64, text string) {
	if text == "" {
		return
	}
	if err := b.transport.SendText(userID, text); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("ответ не доставлен")
	}
}

func (b *Bot) sendMenu(userID int64, text string) {
	if err := b.transport.SendKeyboard(userID, text, mainMenuKeyboard()); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("меню не доставлено")
	}
}
