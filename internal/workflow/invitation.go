package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/t1ery/AutoClubBot/internal/domain"
	"github.com/t1ery/AutoClubBot/internal/notify"
	"github.com/t1ery/AutoClubBot/internal/session"
	"github.com/t1ery/AutoClubBot/internal/storage"
	"github.com/t1ery/AutoClubBot/internal/validator"
)

// Шаги создания приглашения.
const (
	stepInvPlate    = "reg_number"
	stepInvConfirm  = "confirm_duplicate"
	stepInvPhotos   = "photos"
	stepInvLocation = "location"
	stepInvBrand    = "brand"
	stepInvModel    = "model"
	stepInvContact  = "contact_info"
	stepInvNotes    = "notes"
)

// Марка и модель по умолчанию, когда приглашённый их не называл.
const unknownValue = "unknown"

const (
	invPlatePrompt    = "Гос. номер автомобиля, которому оставили приглашение (например А123ВС77):"
	invPhotosPrompt   = "Пришлите фотографии автомобиля. Когда закончите - /done (или /skip)."
	invLocationPrompt = "Где встретили автомобиль? (/skip - пропустить, /finish - завершить)"
	invBrandPrompt    = "Марка автомобиля? (/skip, /finish)"
	invModelPrompt    = "Модель? (/skip, /finish)"
	invContactPrompt  = "Контакты водителя, если есть (/skip, /finish):"
	invNotesPrompt    = "Заметки. Любой текст завершит приглашение (/skip, /finish):"
	invConfirmPrompt  = "/continue - продолжить, /cancel - отменить."
)

// invTextStep - необязательный текстовый шаг приглашения.
type invTextStep struct {
	id     string
	prompt string
	next   string
	assign func(d *domain.InvitationDraft, v string)
}

// Начиная с места встречи все шаги можно пропустить по одному
// (/skip) или закончить все разом (/finish).
var invSteps = []invTextStep{
	{
		id: stepInvLocation, next: stepInvBrand, prompt: invLocationPrompt,
		assign: func(d *domain.InvitationDraft, v string) { d.Location = v },
	},
	{
		id: stepInvBrand, next: stepInvModel, prompt: invBrandPrompt,
		assign: func(d *domain.InvitationDraft, v string) { d.Brand = v },
	},
	{
		id: stepInvModel, next: stepInvContact, prompt: invModelPrompt,
		assign: func(d *domain.InvitationDraft, v string) { d.Model = v },
	},
	{
		id: stepInvContact, next: stepInvNotes, prompt: invContactPrompt,
		assign: func(d *domain.InvitationDraft, v string) { d.Contact = v },
	},
}

// CreateInvitation - диалог записи приглашения, оставленного
// незнакомому водителю.
type CreateInvitation struct {
	store    storage.Storage
	notifier Notifier
	composer *notify.Composer
	now      func() time.Time
}

func NewCreateInvitation(store storage.Storage, notifier Notifier, composer *notify.Composer) *CreateInvitation {
	return &CreateInvitation{store: store, notifier: notifier, composer: composer, now: time.Now}
}

func (c *CreateInvitation) Kind() session.Kind { return session.KindCreateInvitation }
func (c *CreateInvitation) FirstStep() string  { return stepInvPlate }

func (c *CreateInvitation) Greeting() string {
	return "Запишем приглашение. " + invPlatePrompt
}

func (c *CreateInvitation) Handle(ctx context.Context, sess *session.Session, ev Event) (Action, error) {
	switch sess.Step {
	case stepInvPlate:
		return c.handlePlate(ctx, sess, ev)
	case stepInvConfirm:
		return c.handleConfirm(sess, ev), nil
	case stepInvPhotos:
		return c.handlePhotos(sess, ev), nil
	case stepInvNotes:
		return c.handleNotes(ctx, sess, ev)
	}

	for _, step := range invSteps {
		if step.id != sess.Step {
			continue
		}
		if ev.IsPhoto() {
			return retry("Сейчас нужен текст. " + step.prompt), nil
		}
		if ev.is(cmdFinish) {
			return c.finish(ctx, sess)
		}
		if ev.is(cmdSkip) {
			return advance(step.next, c.promptFor(step.next)), nil
		}
		if ev.trimmed() == "" {
			return retry(step.prompt), nil
		}
		step.assign(sess.Invitation, ev.trimmed())
		return advance(step.next, c.promptFor(step.next)), nil
	}
	return retry("Не понял. " + invPlatePrompt), nil
}

func (c *CreateInvitation) promptFor(step string) string {
	switch step {
	case stepInvPhotos:
		return invPhotosPrompt
	case stepInvNotes:
		return invNotesPrompt
	}
	for _, s := range invSteps {
		if s.id == step {
			return s.prompt
		}
	}
	return ""
}

// handlePlate проверяет номер и разбирает дубликаты: машиной может
// владеть участник, либо номер уже ждёт приглашения.
func (c *CreateInvitation) handlePlate(ctx context.Context, sess *session.Session, ev Event) (Action, error) {
	if ev.IsPhoto() {
		return retry("Сначала номер текстом. " + invPlatePrompt), nil
	}
	plate, err := validator.ValidatePlate(ev.Text)
	if err != nil {
		return retry("Номер не похож на настоящий (примеры: А123ВС77, K500MM199). " + invPlatePrompt), nil
	}
	sess.Invitation.RegNumber = plate

	matches, err := c.store.CarsByPlate(ctx, plate)
	if err != nil {
		return Action{}, err
	}
	if len(matches) == 0 {
		return advance(stepInvPhotos, invPhotosPrompt), nil
	}

	// При нескольких совпадениях смотрим на самую свежую запись.
	match := matches[0]
	if match.MemberID != "" && match.Status != domain.CarStatusInvitationPending {
		return c.reportOwned(ctx, match)
	}
	if match.Status == domain.CarStatusInvitationPending {
		sess.Invitation.CarID = match.ID
		summary, err := c.pendingSummary(ctx, match, len(matches))
		if err != nil {
			return Action{}, err
		}
		return advance(stepInvConfirm, summary+"\n"+invConfirmPrompt), nil
	}
	return advance(stepInvPhotos, invPhotosPrompt), nil
}

// reportOwned - машина уже принадлежит участнику, приглашение не
// нужно. Диалог завершается отчётом о находке.
func (c *CreateInvitation) reportOwned(ctx context.Context, car domain.Car) (Action, error) {
	owner, err := c.store.FindMemberByID(ctx, car.MemberID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Action{}, err
	}
	ownerName := "участник клуба"
	if owner != nil {
		ownerName = owner.DisplayName()
	}
	return cancel(fmt.Sprintf(
		"Этот автомобиль уже в клубе!\nВладелец: %s\nАвтомобиль: %s %s, номер %s, фотографий: %d",
		ownerName, car.Brand, car.Model, car.RegNumber, len(car.Photos))), nil
}

func (c *CreateInvitation) pendingSummary(ctx context.Context, car domain.Car, dupCount int) (string, error) {
	invitations, err := c.store.InvitationsForCar(ctx, car.ID)
	if err != nil {
		return "", err
	}
	summary := fmt.Sprintf("Номер %s уже ждёт приглашения (записей: %d, приглашений: %d).",
		car.RegNumber, dupCount, len(invitations))
	if len(invitations) > 0 {
		last := invitations[len(invitations)-1]
		summary += fmt.Sprintf("\nПоследнее приглашение: %s", last.InviteDate.Format("02.01.2006"))
		if last.Location != "" {
			summary += ", " + last.Location
		}
	}
	return summary, nil
}

// handleConfirm ждёт решения по дубликату: продолжить или отменить.
func (c *CreateInvitation) handleConfirm(sess *session.Session, ev Event) Action {
	switch {
	case ev.is(cmdContinue):
		return advance(stepInvPhotos, invPhotosPrompt)
	case ev.is(cmdCancel):
		return cancel("Приглашение отменено.")
	default:
		return retry("Номер уже в списке ожидания. " + invConfirmPrompt)
	}
}

func (c *CreateInvitation) handlePhotos(sess *session.Session, ev Event) Action {
	switch {
	case ev.IsPhoto():
		sess.Invitation.Photos = append(sess.Invitation.Photos, ev.PhotoPath)
		return retry(fmt.Sprintf("Фото добавлено (всего %d). Ещё одно или /done.",
			len(sess.Invitation.Photos)))
	case ev.is(cmdDone), ev.is(cmdSkip):
		return advance(stepInvLocation, invLocationPrompt)
	default:
		return retry("Пришлите фотографию, либо /done чтобы продолжить.")
	}
}

// handleNotes - последний шаг: любой текст завершает приглашение.
func (c *CreateInvitation) handleNotes(ctx context.Context, sess *session.Session, ev Event) (Action, error) {
	if ev.IsPhoto() {
		return retry("Сейчас нужен текст. " + invNotesPrompt), nil
	}
	if !ev.is(cmdSkip) && !ev.is(cmdFinish) && ev.trimmed() != "" {
		sess.Invitation.Notes = ev.trimmed()
	}
	return c.finish(ctx, sess)
}

func (c *CreateInvitation) finish(ctx context.Context, sess *session.Session) (Action, error) {
	member, err := c.store.FindMemberByUser(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return Action{}, domain.ErrNotRegistered
	}
	if err != nil {
		return Action{}, err
	}

	d := sess.Invitation
	car, err := c.findOrCreateCar(ctx, d)
	if err != nil {
		return Action{}, err
	}

	inv := &domain.Invitation{
		CarID:      car.ID,
		InviterID:  member.ID,
		Location:   d.Location,
		Brand:      d.Brand,
		Model:      d.Model,
		Contact:    d.Contact,
		Notes:      d.Notes,
		Photos:     d.Photos,
		InviteDate: c.now(),
		Status:     domain.InvitationStatusNew,
	}
	if err := c.store.CreateInvitation(ctx, inv); err != nil {
		return Action{}, err
	}

	c.notifier.Invitation(member, car, inv)
	return complete(c.composer.InvitationConfirmation(d.RegNumber)), nil
}

// findOrCreateCar возвращает машину в статусе ожидания по номеру,
// заводя новую запись без владельца, если её ещё нет.
func (c *CreateInvitation) findOrCreateCar(ctx context.Context, d *domain.InvitationDraft) (*domain.Car, error) {
	if d.CarID != "" {
		matches, err := c.store.CarsByPlate(ctx, d.RegNumber)
		if err != nil {
			return nil, err
		}
		for i := range matches {
			if matches[i].ID == d.CarID {
				return &matches[i], nil
			}
		}
	}

	brand, model := d.Brand, d.Model
	if brand == "" {
		brand = unknownValue
	}
	if model == "" {
		model = unknownValue
	}
	car := &domain.Car{
		Brand:     brand,
		Model:     model,
		RegNumber: d.RegNumber,
		Status:    domain.CarStatusInvitationPending,
		CreatedAt: c.now(),
	}
	if err := c.store.CreateCar(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}
