package workflow

import (
	"context"
	"time"

	"github.com/t1ery/AutoClubBot/internal/domain"
	"github.com/t1ery/AutoClubBot/internal/notify"
	"github.com/t1ery/AutoClubBot/internal/session"
	"github.com/t1ery/AutoClubBot/internal/storage"
)

// Шаги регистрации.
const (
	stepRegName     = "name"
	stepRegLastName = "last_name"
	stepRegCity     = "city"
	stepRegCountry  = "country"
	stepRegPhone    = "phone"
	stepRegAbout    = "about"
	stepRegPhoto    = "photo"
)

// regStep - один текстовый шаг анкеты.
type regStep struct {
	id       string
	prompt   string
	required bool
	next     string
	assign   func(d *domain.MemberDraft, v string)
}

// Таблица текстовых шагов; фотография обрабатывается отдельно.
var regSteps = []regStep{
	{
		id: stepRegName, next: stepRegLastName, required: true,
		prompt: "Шаг 1. Как вас зовут?",
		assign: func(d *domain.MemberDraft, v string) { d.FirstName = v },
	},
	{
		id: stepRegLastName, next: stepRegCity,
		prompt: "Шаг 2. Ваша фамилия (или /skip):",
		assign: func(d *domain.MemberDraft, v string) { d.LastName = v },
	},
	{
		id: stepRegCity, next: stepRegCountry,
		prompt: "Шаг 3. Из какого вы города? (/skip - пропустить)",
		assign: func(d *domain.MemberDraft, v string) { d.City = v },
	},
	{
		id: stepRegCountry, next: stepRegPhone,
		prompt: "Шаг 4. Страна (/skip - по умолчанию):",
		assign: func(d *domain.MemberDraft, v string) { d.Country = v },
	},
	{
		id: stepRegPhone, next: stepRegAbout,
		prompt: "Шаг 5. Телефон для связи (или /skip):",
		assign: func(d *domain.MemberDraft, v string) { d.Phone = v },
	},
	{
		id: stepRegAbout, next: stepRegPhoto,
		prompt: "Шаг 6. Пара слов о себе (или /skip):",
		assign: func(d *domain.MemberDraft, v string) { d.About = v },
	},
}

const regPhotoPrompt = "Шаг 7. Пришлите фото для анкеты (или /skip):"

// Registration - диалог вступления в клуб.
type Registration struct {
	store       storage.Storage
	notifier    Notifier
	composer    *notify.Composer
	homeCountry string
	now         func() time.Time
}

func NewRegistration(store storage.Storage, notifier Notifier, composer *notify.Composer, homeCountry string) *Registration {
	return &Registration{
		store:       store,
		notifier:    notifier,
		composer:    composer,
		homeCountry: homeCountry,
		now:         time.Now,
	}
}

func (r *Registration) Kind() session.Kind { return session.KindRegistration }
func (r *Registration) FirstStep() string  { return stepRegName }

func (r *Registration) Greeting() string {
	return "Добро пожаловать! Заполним анкету участника.\n" + regSteps[0].prompt
}

func (r *Registration) Handle(ctx context.Context, sess *session.Session, ev Event) (Action, error) {
	if sess.Step == stepRegPhoto {
		return r.handlePhoto(ctx, sess, ev)
	}

	for _, step := range regSteps {
		if step.id != sess.Step {
			continue
		}
		nextPrompt := r.promptFor(step.next)
		if ev.IsPhoto() {
			return retry("Сейчас нужен текст. " + step.prompt), nil
		}
		if ev.is(cmdSkip) {
			if step.required {
				return retry("Это поле обязательно. " + step.prompt), nil
			}
			return advance(step.next, nextPrompt), nil
		}
		if ev.trimmed() == "" {
			return retry(step.prompt), nil
		}
		step.assign(sess.Member, ev.trimmed())
		return advance(step.next, nextPrompt), nil
	}
	return retry("Не понял. " + r.promptFor(sess.Step)), nil
}

func (r *Registration) promptFor(step string) string {
	if step == stepRegPhoto {
		return regPhotoPrompt
	}
	for _, s := range regSteps {
		if s.id == step {
			return s.prompt
		}
	}
	return ""
}

// handlePhoto принимает ровно одну фотографию или /skip и завершает
// анкету.
func (r *Registration) handlePhoto(ctx context.Context, sess *session.Session, ev Event) (Action, error) {
	switch {
	case ev.IsPhoto():
		sess.Member.PhotoPath = ev.PhotoPath
	case ev.is(cmdSkip):
		// Анкета без фото.
	default:
		return retry("Пришлите фотографию или /skip."), nil
	}
	return r.finish(ctx, sess)
}

func (r *Registration) finish(ctx context.Context, sess *session.Session) (Action, error) {
	d := sess.Member
	country := d.Country
	if country == "" {
		country = r.homeCountry
	}
	member := &domain.Member{
		UserID:    sess.UserID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		City:      d.City,
		Country:   country,
		Phone:     d.Phone,
		About:     d.About,
		PhotoPath: d.PhotoPath,
		JoinDate:  r.now(),
		Status:    domain.MemberStatusNew,
	}
	if err := r.store.CreateMember(ctx, member); err != nil {
		return Action{}, err
	}
	r.notifier.NewMember(member)
	return complete(r.composer.MemberConfirmation(member)), nil
}
