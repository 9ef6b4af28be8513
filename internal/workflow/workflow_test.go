package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/t1ery/AutoClubBot/internal/domain"
	"github.com/t1ery/AutoClubBot/internal/notify"
	"github.com/t1ery/AutoClubBot/internal/session"
	"github.com/t1ery/AutoClubBot/internal/storage"
)

// recordingNotifier запоминает, какие объявления ушли бы в группу.
type recordingNotifier struct {
	newMembers     []*domain.Member
	firstCars      []*domain.Car
	additionalCars []*domain.Car
	invitations    []*domain.Invitation
}

func (n *recordingNotifier) NewMember(m *domain.Member) { n.newMembers = append(n.newMembers, m) }
func (n *recordingNotifier) FirstCar(_ *domain.Member, c *domain.Car) {
	n.firstCars = append(n.firstCars, c)
}
func (n *recordingNotifier) AdditionalCar(_ *domain.Member, c *domain.Car) {
	n.additionalCars = append(n.additionalCars, c)
}
func (n *recordingNotifier) Invitation(_ *domain.Member, _ *domain.Car, inv *domain.Invitation) {
	n.invitations = append(n.invitations, inv)
}

type fixture struct {
	engine   *Engine
	store    *storage.MemoryStorage
	notifier *recordingNotifier
	sessions *session.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemoryStorage()
	notifier := &recordingNotifier{}
	composer := notify.NewComposer()
	sessions := session.NewStore()
	engine := NewEngine(sessions,
		NewRegistration(store, notifier, composer, "Россия"),
		NewAddCar(store, notifier, composer),
		NewCreateInvitation(store, notifier, composer),
		NewSearch(store),
	)
	return &fixture{engine: engine, store: store, notifier: notifier, sessions: sessions}
}

// send прогоняет одно текстовое событие и возвращает ответ.
func (f *fixture) send(t *testing.T, userID int64, text string) string {
	t.Helper()
	reply, handled := f.engine.HandleEvent(context.Background(), userID, Event{Text: text})
	require.True(t, handled, "событие должно попасть в активный диалог")
	return reply
}

func (f *fixture) sendPhoto(t *testing.T, userID int64, path string) string {
	t.Helper()
	reply, handled := f.engine.HandleEvent(context.Background(), userID, Event{PhotoPath: path})
	require.True(t, handled)
	return reply
}

// registerMember быстро проводит пользователя через регистрацию.
func (f *fixture) registerMember(t *testing.T, userID int64, name string) *domain.Member {
	t.Helper()
	f.engine.Start(userID, session.KindRegistration)
	f.send(t, userID, name)
	for i := 0; i < 6; i++ {
		f.send(t, userID, "/skip")
	}
	m, err := f.store.FindMemberByUser(context.Background(), userID)
	require.NoError(t, err)
	return m
}

// addPendingCar кладёт в хранилище машину в статусе ожидания.
func (f *fixture) addPendingCar(t *testing.T, plate string) *domain.Car {
	t.Helper()
	car := &domain.Car{
		RegNumber: plate,
		Brand:     "unknown",
		Model:     "unknown",
		Status:    domain.CarStatusInvitationPending,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.store.CreateCar(context.Background(), car))
	return car
}
