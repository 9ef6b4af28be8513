package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/t1ery/AutoClubBot/internal/domain"
	"github.com/t1ery/AutoClubBot/internal/notify"
	"github.com/t1ery/AutoClubBot/internal/session"
	"github.com/t1ery/AutoClubBot/internal/storage"
)

func TestRegistrationAllSkipped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	greeting := f.engine.Start(1, session.KindRegistration)
	require.Contains(t, greeting, "Как вас зовут")

	f.send(t, 1, "Ivan")
	for _, step := range []string{"фамилия", "город", "Страна", "Телефон", "о себе", "фото"} {
		_ = step
		f.send(t, 1, "/skip")
	}

	// Сессии больше нет.
	require.False(t, f.engine.Active(1))

	m, err := f.store.FindMemberByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Ivan", m.FirstName)
	require.Empty(t, m.LastName)
	require.Empty(t, m.City)
	require.Equal(t, "Россия", m.Country, "пропущенная страна получает значение по умолчанию")
	require.Empty(t, m.PhotoPath)
	require.Equal(t, domain.MemberStatusNew, m.Status)
	require.False(t, m.JoinDate.IsZero())

	// Объявление ушло без фотографии.
	require.Len(t, f.notifier.newMembers, 1)
	require.Empty(t, notify.BroadcastPhoto(nil, f.notifier.newMembers[0]))
}

func TestRegistrationNameRequired(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.engine.Start(2, session.KindRegistration)
	reply := f.send(t, 2, "/skip")
	require.Contains(t, reply, "обязательно")
	require.Equal(t, "name", f.sessions.Get(2).Step)
}

func TestRegistrationWithPhoto(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.engine.Start(3, session.KindRegistration)
	f.send(t, 3, "Анна")
	for i := 0; i < 5; i++ {
		f.send(t, 3, "/skip")
	}
	f.sendPhoto(t, 3, "members/3_profile_1.jpg")

	m, err := f.store.FindMemberByUser(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, "members/3_profile_1.jpg", m.PhotoPath)
}

func TestRegistrationPhotoStepRejectsText(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.engine.Start(4, session.KindRegistration)
	f.send(t, 4, "Пётр")
	for i := 0; i < 5; i++ {
		f.send(t, 4, "/skip")
	}
	reply := f.send(t, 4, "вот моя фотография")
	require.Contains(t, reply, "фотографию")
	require.True(t, f.engine.Active(4))
}

func TestRegistrationPhotoRejectedAtTextStep(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.engine.Start(5, session.KindRegistration)
	reply := f.sendPhoto(t, 5, "members/5_profile_1.jpg")
	require.Contains(t, reply, "текст")
	require.Equal(t, "name", f.sessions.Get(5).Step)
}

// failingStorage ломает сохранение участника.
type failingStorage struct {
	*storage.MemoryStorage
}

func (f *failingStorage) CreateMember(_ context.Context, _ *domain.Member) error {
	return domain.WrapStore("create member", errors.New("disk full"))
}

func TestRegistrationStoreFailureEndsSession(t *testing.T) {
	t.Parallel()

	store := &failingStorage{MemoryStorage: storage.NewMemoryStorage()}
	notifier := &recordingNotifier{}
	sessions := session.NewStore()
	engine := NewEngine(sessions,
		NewRegistration(store, notifier, notify.NewComposer(), "Россия"))

	engine.Start(6, session.KindRegistration)
	reply, handled := engine.HandleEvent(context.Background(), 6, Event{Text: "Иван"})
	require.True(t, handled)
	_ = reply
	for i := 0; i < 5; i++ {
		engine.HandleEvent(context.Background(), 6, Event{Text: "/skip"})
	}
	reply, handled = engine.HandleEvent(context.Background(), 6, Event{Text: "/skip"})
	require.True(t, handled)
	require.Contains(t, reply, "Попробуйте позже")
	require.False(t, engine.Active(6))
	require.Empty(t, notifier.newMembers)
}
