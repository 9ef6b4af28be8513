package bot

import (
	"fmt"
	"strings"

	"github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/samber/lo"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

// Данные callback-кнопок. Кнопки один в один повторяют команды.
const (
	cbRegister = "start_register"
	cbAddCar   = "start_addcar"
	cbInvite   = "start_invite"
	cbSearch   = "start_search"
	cbProfile  = "view_profile"
	cbCars     = "view_cars"
	cbInvites  = "view_invites"
	cbStats    = "view_stats"
)

const helpText = `Я бот автоклуба. Что умею:
/register - вступить в клуб
/addcar - добавить автомобиль в гараж
/invite - записать приглашение незнакомому водителю
/search - поиск по реестру номеров
/profile - моя анкета
/mycars - мой гараж
/myinvites - мои приглашения
/stats - статистика клуба

Внутри диалогов работают /skip, /done, /finish.`

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Вступить в клуб", cbRegister),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Добавить автомобиль", cbAddCar),
			tgbotapi.NewInlineKeyboardButtonData("Приглашение", cbInvite),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Поиск по номеру", cbSearch),
			tgbotapi.NewInlineKeyboardButtonData("Статистика", cbStats),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Моя анкета", cbProfile),
			tgbotapi.NewInlineKeyboardButtonData("Мой гараж", cbCars),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Мои приглашения", cbInvites),
		),
	)
}

// renderProfile - анкета участника для режима просмотра.
func renderProfile(m *domain.Member) string {
	lines := []string{
		"Ваша анкета:",
		"Имя: " + m.DisplayName(),
	}
	for _, pair := range [][2]string{
		{"Город", m.City}, {"Страна", m.Country},
		{"Телефон", m.Phone}, {"О себе", m.About},
	} {
		if pair[1] != "" {
			lines = append(lines, pair[0]+": "+pair[1])
		}
	}
	lines = append(lines,
		"В клубе с "+m.JoinDate.Format("02.01.2006"),
		"Статус: "+m.Status)
	return strings.Join(lines, "\n")
}

func renderCars(cars []domain.Car) string {
	if len(cars) == 0 {
		return "В гараже пусто. Добавьте автомобиль командой /addcar."
	}
	rows := lo.Map(cars, func(car domain.Car, i int) string {
		row := fmt.Sprintf("%d. %s %s", i+1, car.Brand, car.Model)
		if car.Year != 0 {
			row += fmt.Sprintf(", %d", car.Year)
		}
		if car.RegNumber != "" {
			row += ", " + car.RegNumber
		}
		if n := len(car.Photos); n > 0 {
			row += fmt.Sprintf(" (фото: %d)", n)
		}
		return row
	})
	return "Ваш гараж:\n" + strings.Join(rows, "\n")
}

func renderInvitations(invitations []domain.Invitation) string {
	if len(invitations) == 0 {
		return "Вы ещё никого не приглашали. Команда /invite - записать приглашение."
	}
	rows := lo.Map(invitations, func(inv domain.Invitation, i int) string {
		row := fmt.Sprintf("%d. %s, статус: %s",
			i+1, inv.InviteDate.Format("02.01.2006"), inv.Status)
		if inv.Location != "" {
			row += ", " + inv.Location
		}
		return row
	})
	return "Ваши приглашения:\n" + strings.Join(rows, "\n")
}

func renderStats(st domain.Stats) string {
	return fmt.Sprintf(`Статистика клуба:
Участников: %d (активных: %d)
Автомобилей в реестре: %d
Приглашений: %d (успешных: %d)`,
		st.TotalMembers, st.ActiveMembers, st.TotalCars,
		st.TotalInvitations, st.SuccessfulInvitations)
}
