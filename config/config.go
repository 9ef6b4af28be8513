package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Структура для конфигурации
type Config struct {
	BotToken     string `yaml:"BotToken"`
	GroupChatID  int64  `yaml:"GroupChatID"`
	DatabasePath string `yaml:"DatabasePath"`
	MediaDir     string `yaml:"MediaDir"`
	HomeCountry  string `yaml:"HomeCountry"`
	Debug        bool   `yaml:"Debug"`
}

// Load читает конфигурацию из yaml-файла. Токен можно переопределить
// переменной окружения BOT_TOKEN (удобно для .env).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации: %w", err)
	}
	cfg := &Config{
		DatabasePath: "club.db",
		MediaDir:     "media",
		HomeCountry:  "Россия",
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}
	if token := os.Getenv("BOT_TOKEN"); token != "" {
		cfg.BotToken = token
	}
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("не задан BotToken")
	}
	if cfg.GroupChatID == 0 {
		return nil, fmt.Errorf("не задан GroupChatID")
	}
	return cfg, nil
}
