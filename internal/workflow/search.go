package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/t1ery/AutoClubBot/internal/domain"
	"github.com/t1ery/AutoClubBot/internal/session"
	"github.com/t1ery/AutoClubBot/internal/storage"
)

const stepSearchNumber = "number"

// Больше строк в одно сообщение не влезает по-человечески.
const searchMaxRows = 15

const searchPrompt = "Введите номер или его часть (минимум 2 символа):"

// Search - разовый поиск по реестру номеров. После выдачи
// результатов сессия сразу завершается.
type Search struct {
	store storage.Storage
}

func NewSearch(store storage.Storage) *Search {
	return &Search{store: store}
}

func (s *Search) Kind() session.Kind { return session.KindSearch }
func (s *Search) FirstStep() string  { return stepSearchNumber }

func (s *Search) Greeting() string {
	return "Поиск по реестру. " + searchPrompt
}

func (s *Search) Handle(ctx context.Context, sess *session.Session, ev Event) (Action, error) {
	if ev.IsPhoto() {
		return retry("Поиск работает по тексту. " + searchPrompt), nil
	}
	// Короткий запрос отсеиваем до похода в хранилище.
	query := ev.trimmed()
	if len([]rune(query)) < 2 {
		return retry("Слишком короткий запрос. " + searchPrompt), nil
	}

	cars, err := s.store.CarsByPlateSubstring(ctx, query)
	if err != nil {
		return Action{}, err
	}
	if len(cars) == 0 {
		return complete(fmt.Sprintf("По запросу %q ничего не найдено.", query)), nil
	}
	return complete(s.render(ctx, query, cars)), nil
}

func (s *Search) render(ctx context.Context, query string, cars []domain.Car) string {
	shown := cars
	if len(shown) > searchMaxRows {
		shown = shown[:searchMaxRows]
	}
	rows := lo.Map(shown, func(car domain.Car, _ int) string {
		invitations, err := s.store.InvitationsForCar(ctx, car.ID)
		invCount := len(invitations)
		if err != nil {
			invCount = 0
		}
		return fmt.Sprintf("%s - %s %s, %d, %s, фото: %d, приглашений: %d",
			car.RegNumber, car.Brand, car.Model, car.Year, car.Status,
			len(car.Photos), invCount)
	})

	header := fmt.Sprintf("Найдено по запросу %q: %d", query, len(cars))
	body := strings.Join(rows, "\n")
	if len(cars) > searchMaxRows {
		body += fmt.Sprintf("\n... и ещё %d", len(cars)-searchMaxRows)
	}
	return header + "\n" + body
}
