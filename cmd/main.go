package main

import (
	"flag"

	"github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/t1ery/AutoClubBot/config"
	"github.com/t1ery/AutoClubBot/internal/bot"
	"github.com/t1ery/AutoClubBot/internal/media"
	"github.com/t1ery/AutoClubBot/internal/notify"
	"github.com/t1ery/AutoClubBot/internal/session"
	"github.com/t1ery/AutoClubBot/internal/storage"
	"github.com/t1ery/AutoClubBot/internal/workflow"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	// .env необязателен - токен может лежать и в конфигурации.
	if err := godotenv.Load(); err != nil {
		log.Debug(".env не найден, продолжаю без него")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("конфигурация не загрузилась")
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("база данных не открылась")
	}
	defer db.Close()
	store := storage.NewSQLiteStorage(db)

	mediaStore, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		log.WithError(err).Fatal("хранилище фотографий не создалось")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.WithError(err).Fatal("подключение к Telegram не удалось")
	}
	api.Debug = cfg.Debug
	log.WithField("account", api.Self.UserName).Info("авторизация в Telegram")

	transport := bot.NewTelegram(api, cfg.GroupChatID)
	composer := notify.NewComposer()
	broadcaster := notify.NewBroadcaster(
		bot.NewGroupSender(transport, cfg.GroupChatID, mediaStore.Path), composer)

	sessions := session.NewStore()
	engine := workflow.NewEngine(sessions,
		workflow.NewRegistration(store, broadcaster, composer, cfg.HomeCountry),
		workflow.NewAddCar(store, broadcaster, composer),
		workflow.NewCreateInvitation(store, broadcaster, composer),
		workflow.NewSearch(store),
	)

	b := bot.New(api, transport, sessions, engine, store, mediaStore)
	if err := b.Run(); err != nil {
		log.WithError(err).Fatal("бот остановился")
	}
}
