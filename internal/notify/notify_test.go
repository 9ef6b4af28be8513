package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

type fakeSender struct {
	texts     []string
	photos    []string
	captions  []string
	photoErr  error
	textCalls int
}

func (f *fakeSender) SendGroupText(text string) error {
	f.textCalls++
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeSender) SendGroupPhoto(photoPath, caption string) error {
	if f.photoErr != nil {
		return f.photoErr
	}
	f.photos = append(f.photos, photoPath)
	f.captions = append(f.captions, caption)
	return nil
}

func testMember() *domain.Member {
	return &domain.Member{
		FirstName: "Иван",
		LastName:  "Петров",
		Country:   "Россия",
		JoinDate:  time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Status:    domain.MemberStatusNew,
	}
}

func TestBroadcastPhotoPreference(t *testing.T) {
	t.Parallel()

	m := testMember()
	require.Equal(t, "", BroadcastPhoto(nil, m))

	m.PhotoPath = "members/1_profile_1.jpg"
	require.Equal(t, "members/1_profile_1.jpg", BroadcastPhoto(nil, m))

	// Фото из диалога важнее фото профиля.
	require.Equal(t, "cars/1_car_2.jpg",
		BroadcastPhoto([]string{"cars/1_car_2.jpg", "cars/1_car_3.jpg"}, m))
}

func TestMemberBroadcastOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	c := NewComposer()
	text := c.MemberBroadcast(testMember())
	require.Contains(t, text, "Иван Петров")
	require.Contains(t, text, "Страна: Россия")
	require.NotContains(t, text, "Телефон")
	require.NotContains(t, text, "Город")
}

func TestCarBroadcastVariants(t *testing.T) {
	t.Parallel()

	c := NewComposer()
	m := testMember()
	car := &domain.Car{Brand: "Lada", Model: "Niva", Year: 2010, RegNumber: "A123BC77"}

	first := c.FirstCarBroadcast(m, car)
	require.Contains(t, first, "Новый участник клуба")
	require.Contains(t, first, "Имя: Иван Петров")
	require.Contains(t, first, "Модель: Niva")

	extra := c.AdditionalCarBroadcast(m, car)
	require.Contains(t, extra, "ещё один автомобиль")
	require.NotContains(t, extra, "Имя:")
}

func TestBroadcasterDegradesToTextOnPhotoFailure(t *testing.T) {
	t.Parallel()

	// Транспорт сам откатывается на текст; проверяем, что ошибка
	// поверх этого только логируется и наружу не выходит.
	sender := &fakeSender{photoErr: errors.New("upload failed")}
	b := NewBroadcaster(sender, NewComposer())

	m := testMember()
	car := &domain.Car{Brand: "Lada", Model: "Niva", Photos: []string{"cars/1_car_1.jpg"}}
	b.FirstCar(m, car)
	require.Empty(t, sender.photos)
}

func TestBroadcasterTextOnlyWhenNoPhoto(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	b := NewBroadcaster(sender, NewComposer())
	b.NewMember(testMember())

	require.Equal(t, 1, sender.textCalls)
	require.Empty(t, sender.photos)
	require.Contains(t, sender.texts[0], "нового участника")
}

func TestInvitationBroadcast(t *testing.T) {
	t.Parallel()

	c := NewComposer()
	m := testMember()
	car := &domain.Car{RegNumber: "E555KX99"}
	inv := &domain.Invitation{
		Brand:      "BMW",
		Location:   "парковка у ТЦ",
		InviteDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	}

	text := c.InvitationBroadcast(m, car, inv)
	require.Contains(t, text, "E555KX99")
	require.Contains(t, text, "Автомобиль: BMW")
	require.Contains(t, text, "Место: парковка у ТЦ")
	require.Contains(t, text, "28.08.2026")
	require.NotContains(t, text, "Контакты")
}
