package domain

import "time"

// Статусы участников, автомобилей и приглашений.
const (
	MemberStatusNew    = "new"
	MemberStatusActive = "active"

	CarStatusActive            = "active"
	CarStatusInvitationPending = "invitation pending"

	InvitationStatusNew        = "new"
	InvitationStatusSuccessful = "successful"
)

// Member - участник клуба.
type Member struct {
	ID        string    // Внутренний идентификатор (uuid)
	UserID    int64     // Идентификатор пользователя Telegram
	FirstName string    // Имя
	LastName  string    // Фамилия
	City      string    // Город
	Country   string    // Страна
	Phone     string    // Телефон
	About     string    // О себе
	PhotoPath string    // Фото профиля (относительный путь)
	JoinDate  time.Time // Дата вступления
	Status    string
}

// DisplayName возвращает имя с фамилией, если она указана.
func (m *Member) DisplayName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// Car - автомобиль в реестре клуба. MemberID пустой, если машина
// заведена по приглашению и владелец ещё не вступил.
type Car struct {
	ID        string
	MemberID  string
	Brand     string
	Model     string
	Year      int
	RegNumber string   // Нормализованный гос. номер
	Photos    []string // Фотографии (относительные пути)
	Status    string
	CreatedAt time.Time
}

// Invitation - приглашение, оставленное незнакомому водителю.
type Invitation struct {
	ID         string
	CarID      string
	InviterID  string // Member.ID пригласившего
	Location   string
	Brand      string
	Model      string
	Contact    string
	Notes      string
	Photos     []string
	InviteDate time.Time
	Status     string
}

// Stats - сводная статистика клуба.
type Stats struct {
	TotalMembers          int
	ActiveMembers         int
	TotalCars             int
	TotalInvitations      int
	SuccessfulInvitations int
}

// MemberDraft - анкета участника, заполняемая по шагам.
// Обязательно только имя.
type MemberDraft struct {
	FirstName string
	LastName  string
	City      string
	Country   string
	Phone     string
	About     string
	PhotoPath string
}

// CarDraft - данные автомобиля, заполняемые по шагам.
type CarDraft struct {
	Brand     string
	Model     string
	Year      int
	RegNumber string
	Photos    []string
}

// InvitationDraft - данные приглашения. Обязателен только гос. номер.
// CarID заполняется, когда номер совпал с машиной, уже ожидающей
// приглашения, и новая запись должна привязаться к ней.
type InvitationDraft struct {
	RegNumber string
	CarID     string
	Location  string
	Brand     string
	Model     string
	Contact   string
	Notes     string
	Photos    []string
}
