// Package workflow реализует пошаговые диалоги бота: регистрацию,
// добавление автомобиля, приглашение и поиск по реестру.
package workflow

import (
	"context"
	"strings"

	"github.com/t1ery/AutoClubBot/internal/domain"
	"github.com/t1ery/AutoClubBot/internal/session"
)

// Служебные команды внутри диалогов. Диспетчер передает их как
// обычный текст, поэтому нативная команда и набранная вручную
// строка обрабатываются одинаково.
const (
	cmdSkip     = "/skip"
	cmdDone     = "/done"
	cmdFinish   = "/finish"
	cmdCancel   = "/cancel"
	cmdContinue = "/continue"
)

// Event - входящее событие диалога: текст или фотография.
// PhotoPath заполняется диспетчером после сохранения файла.
type Event struct {
	Text      string
	PhotoPath string
}

func (e Event) IsPhoto() bool { return e.PhotoPath != "" }

// is сообщает, совпадает ли текст события со служебной командой.
func (e Event) is(cmd string) bool {
	return strings.EqualFold(strings.TrimSpace(e.Text), cmd)
}

func (e Event) trimmed() string { return strings.TrimSpace(e.Text) }

// Op - исход обработки шага.
type Op int

const (
	// OpAdvance - шаг принят, переходим к следующему.
	OpAdvance Op = iota
	// OpRetry - шаг повторяется, сессия не меняется.
	OpRetry
	// OpComplete - диалог завершён, данные сохранены.
	OpComplete
	// OpCancel - диалог прерван без сохранения.
	OpCancel
)

// Action - результат обработки события шагом.
type Action struct {
	Op    Op
	Next  string // следующий шаг при OpAdvance
	Reply string // ответ пользователю
}

func advance(next, reply string) Action { return Action{Op: OpAdvance, Next: next, Reply: reply} }
func retry(reply string) Action         { return Action{Op: OpRetry, Reply: reply} }
func complete(reply string) Action      { return Action{Op: OpComplete, Reply: reply} }
func cancel(reply string) Action        { return Action{Op: OpCancel, Reply: reply} }

// Notifier публикует объявления о завершённых сущностях в группе.
// Реализация обязана проглатывать ошибки доставки.
type Notifier interface {
	NewMember(m *domain.Member)
	FirstCar(m *domain.Member, car *domain.Car)
	AdditionalCar(m *domain.Member, car *domain.Car)
	Invitation(m *domain.Member, car *domain.Car, inv *domain.Invitation)
}

// Workflow - один пошаговый диалог.
type Workflow interface {
	Kind() session.Kind
	// FirstStep и Greeting задают начальное состояние сессии.
	FirstStep() string
	Greeting() string
	// Handle обрабатывает событие на текущем шаге. Ошибки валидации
	// наружу не выходят - они превращаются в OpRetry.
	Handle(ctx context.Context, sess *session.Session, ev Event) (Action, error)
}
