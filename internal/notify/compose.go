// Package notify собирает тексты уведомлений и рассылает их в группу.
package notify

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

// Composer строит два текста по одной сущности: подтверждение для
// самого пользователя и объявление для группы.
type Composer struct{}

func NewComposer() *Composer { return &Composer{} }

// joinLines склеивает непустые строки.
func joinLines(lines ...string) string {
	return strings.Join(lo.Filter(lines, func(s string, _ int) bool {
		return s != ""
	}), "\n")
}

func optional(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func (c *Composer) memberCard(m *domain.Member) string {
	return joinLines(
		"Имя: "+m.DisplayName(),
		optional("Город", m.City),
		optional("Страна", m.Country),
		optional("Телефон", m.Phone),
		optional("О себе", m.About),
		"В клубе с "+m.JoinDate.Format("02.01.2006"),
	)
}

func (c *Composer) carCard(car *domain.Car) string {
	lines := []string{
		"Марка: " + car.Brand,
		"Модель: " + car.Model,
	}
	if car.Year != 0 {
		lines = append(lines, fmt.Sprintf("Год: %d", car.Year))
	}
	lines = append(lines, optional("Гос. номер", car.RegNumber))
	if n := len(car.Photos); n > 0 {
		lines = append(lines, fmt.Sprintf("Фотографий: %d", n))
	}
	return joinLines(lines...)
}

// MemberConfirmation - личное подтверждение регистрации.
func (c *Composer) MemberConfirmation(m *domain.Member) string {
	return "Вы зарегистрированы в клубе!\n\n" + c.memberCard(m)
}

// MemberBroadcast - объявление о новом участнике для группы.
func (c *Composer) MemberBroadcast(m *domain.Member) string {
	return "Встречайте нового участника клуба!\n\n" + c.memberCard(m)
}

// CarConfirmation - личное подтверждение добавления машины.
func (c *Composer) CarConfirmation(car *domain.Car) string {
	return "Автомобиль добавлен в ваш гараж.\n\n" + c.carCard(car)
}

// FirstCarBroadcast - полное объявление для первой машины участника:
// анкета плюс автомобиль.
func (c *Composer) FirstCarBroadcast(m *domain.Member, car *domain.Car) string {
	return "Новый участник клуба на своём автомобиле!\n\n" +
		c.memberCard(m) + "\n\n" + c.carCard(car)
}

// AdditionalCarBroadcast - короткое объявление для следующих машин.
func (c *Composer) AdditionalCarBroadcast(m *domain.Member, car *domain.Car) string {
	return fmt.Sprintf("%s добавил в гараж ещё один автомобиль.\n\n%s",
		m.DisplayName(), c.carCard(car))
}

// InvitationConfirmation - личное подтверждение приглашения.
func (c *Composer) InvitationConfirmation(plate string) string {
	return "Приглашение записано. Номер " + plate + " теперь в списке ожидания."
}

// InvitationBroadcast - объявление о приглашении для группы.
func (c *Composer) InvitationBroadcast(m *domain.Member, car *domain.Car, inv *domain.Invitation) string {
	carLine := ""
	if inv.Brand != "" || inv.Model != "" {
		carLine = strings.TrimSpace("Автомобиль: " + strings.TrimSpace(inv.Brand+" "+inv.Model))
	}
	return joinLines(
		fmt.Sprintf("%s пригласил в клуб водителя %s!", m.DisplayName(), car.RegNumber),
		carLine,
		"Дата: "+inv.InviteDate.Format("02.01.2006"),
		optional("Место", inv.Location),
		optional("Контакты", inv.Contact),
		optional("Заметки", inv.Notes),
	)
}

// BroadcastPhoto выбирает фотографию для объявления: сначала первая
// фотография из диалога, затем фото профиля, иначе пусто.
func BroadcastPhoto(workflowPhotos []string, m *domain.Member) string {
	if len(workflowPhotos) > 0 {
		return workflowPhotos[0]
	}
	if m != nil && m.PhotoPath != "" {
		return m.PhotoPath
	}
	return ""
}
