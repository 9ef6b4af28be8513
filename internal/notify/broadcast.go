package notify

import (
	log "github.com/sirupsen/logrus"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

// GroupSender отправляет сообщения в групповой чат клуба.
type GroupSender interface {
	SendGroupText(text string) error
	// SendGroupPhoto обязан сам откатиться на текстовую отправку,
	// если вложение не ушло.
	SendGroupPhoto(photoPath, caption string) error
}

// Broadcaster публикует объявления в группе. Ошибки доставки
// логируются и проглатываются: завершённую запись они не отменяют
// и пользователю не показываются.
type Broadcaster struct {
	sender   GroupSender
	composer *Composer
}

func NewBroadcaster(sender GroupSender, composer *Composer) *Broadcaster {
	return &Broadcaster{sender: sender, composer: composer}
}

func (b *Broadcaster) send(caption, photoPath string) {
	var err error
	if photoPath != "" {
		err = b.sender.SendGroupPhoto(photoPath, caption)
	} else {
		err = b.sender.SendGroupText(caption)
	}
	if err != nil {
		log.WithError(err).Warn("объявление в группу не доставлено")
	}
}

// NewMember объявляет о регистрации участника.
func (b *Broadcaster) NewMember(m *domain.Member) {
	b.send(b.composer.MemberBroadcast(m), BroadcastPhoto(nil, m))
}

// FirstCar объявляет о первом автомобиле участника.
func (b *Broadcaster) FirstCar(m *domain.Member, car *domain.Car) {
	b.send(b.composer.FirstCarBroadcast(m, car), BroadcastPhoto(car.Photos, m))
}

// AdditionalCar объявляет об очередном автомобиле участника.
func (b *Broadcaster) AdditionalCar(m *domain.Member, car *domain.Car) {
	b.send(b.composer.AdditionalCarBroadcast(m, car), BroadcastPhoto(car.Photos, nil))
}

// Invitation объявляет об оставленном приглашении.
func (b *Broadcaster) Invitation(m *domain.Member, car *domain.Car, inv *domain.Invitation) {
	b.send(b.composer.InvitationBroadcast(m, car, inv), BroadcastPhoto(inv.Photos, nil))
}
