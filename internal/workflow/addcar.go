package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/t1ery/AutoClubBot/internal/domain"
	"github.com/t1ery/AutoClubBot/internal/notify"
	"github.com/t1ery/AutoClubBot/internal/session"
	"github.com/t1ery/AutoClubBot/internal/storage"
	"github.com/t1ery/AutoClubBot/internal/validator"
)

// Шаги добавления автомобиля.
const (
	stepCarBrand  = "brand"
	stepCarModel  = "model"
	stepCarYear   = "year"
	stepCarPlate  = "reg_number"
	stepCarPhotos = "photos"
)

const carMinYear = 1950

const (
	carBrandPrompt  = "Какой марки ваш автомобиль?"
	carModelPrompt  = "Какая модель?"
	carYearPrompt   = "Год выпуска?"
	carPlatePrompt  = "Гос. номер (например А123ВС77) или /skip:"
	carPhotosPrompt = "Пришлите фотографии автомобиля. Когда закончите - /done (или /skip, если фото нет)."
)

// AddCar - диалог постановки автомобиля в гараж участника.
type AddCar struct {
	store    storage.Storage
	notifier Notifier
	composer *notify.Composer
	now      func() time.Time
}

func NewAddCar(store storage.Storage, notifier Notifier, composer *notify.Composer) *AddCar {
	return &AddCar{store: store, notifier: notifier, composer: composer, now: time.Now}
}

func (a *AddCar) Kind() session.Kind { return session.KindAddCar }
func (a *AddCar) FirstStep() string  { return stepCarBrand }

func (a *AddCar) Greeting() string {
	return "Добавим автомобиль. " + carBrandPrompt
}

func (a *AddCar) Handle(ctx context.Context, sess *session.Session, ev Event) (Action, error) {
	switch sess.Step {
	case stepCarBrand:
		return a.requiredText(ev, carBrandPrompt, stepCarModel, carModelPrompt,
			func(v string) { sess.Car.Brand = v }), nil
	case stepCarModel:
		return a.requiredText(ev, carModelPrompt, stepCarYear, carYearPrompt,
			func(v string) { sess.Car.Model = v }), nil
	case stepCarYear:
		return a.handleYear(sess, ev), nil
	case stepCarPlate:
		return a.handlePlate(sess, ev), nil
	case stepCarPhotos:
		return a.handlePhotos(ctx, sess, ev)
	}
	return retry("Не понял. " + carBrandPrompt), nil
}

func (a *AddCar) requiredText(ev Event, prompt, next, nextPrompt string, assign func(string)) Action {
	if ev.IsPhoto() {
		return retry("Сейчас нужен текст. " + prompt)
	}
	if ev.is(cmdSkip) {
		return retry("Это поле обязательно. " + prompt)
	}
	if ev.trimmed() == "" {
		return retry(prompt)
	}
	assign(ev.trimmed())
	return advance(next, nextPrompt)
}

// handleYear принимает только целый год в допустимом диапазоне.
func (a *AddCar) handleYear(sess *session.Session, ev Event) Action {
	if ev.IsPhoto() || ev.is(cmdSkip) {
		return retry("Это поле обязательно. " + carYearPrompt)
	}
	year, err := strconv.Atoi(ev.trimmed())
	if err != nil {
		return retry("Год должен быть числом, например 2010. " + carYearPrompt)
	}
	maxYear := a.now().Year() + 1
	if year < carMinYear || year > maxYear {
		return retry(fmt.Sprintf("Год должен быть между %d и %d. %s",
			carMinYear, maxYear, carYearPrompt))
	}
	sess.Car.Year = year
	return advance(stepCarPlate, carPlatePrompt)
}

func (a *AddCar) handlePlate(sess *session.Session, ev Event) Action {
	if ev.IsPhoto() {
		return retry("Сейчас нужен текст. " + carPlatePrompt)
	}
	if ev.is(cmdSkip) {
		return advance(stepCarPhotos, carPhotosPrompt)
	}
	plate, err := validator.ValidatePlate(ev.Text)
	if err != nil {
		return retry("Номер не похож на настоящий (примеры: А123ВС77, K500MM199). Попробуйте ещё раз или /skip.")
	}
	sess.Car.RegNumber = plate
	return advance(stepCarPhotos, carPhotosPrompt)
}

// handlePhotos копит фотографии до /done или /skip.
func (a *AddCar) handlePhotos(ctx context.Context, sess *session.Session, ev Event) (Action, error) {
	switch {
	case ev.IsPhoto():
		sess.Car.Photos = append(sess.Car.Photos, ev.PhotoPath)
		return retry(fmt.Sprintf("Фото добавлено (всего %d). Ещё одно или /done.",
			len(sess.Car.Photos))), nil
	case ev.is(cmdDone), ev.is(cmdSkip):
		return a.finish(ctx, sess)
	default:
		return retry("Пришлите фотографию, либо /done чтобы закончить."), nil
	}
}

func (a *AddCar) finish(ctx context.Context, sess *session.Session) (Action, error) {
	member, err := a.store.FindMemberByUser(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return Action{}, domain.ErrNotRegistered
	}
	if err != nil {
		return Action{}, err
	}

	d := sess.Car
	car := &domain.Car{
		MemberID:  member.ID,
		Brand:     d.Brand,
		Model:     d.Model,
		Year:      d.Year,
		RegNumber: d.RegNumber,
		Photos:    d.Photos,
		Status:    domain.CarStatusActive,
		CreatedAt: a.now(),
	}
	if err := a.store.CreateCar(ctx, car); err != nil {
		return Action{}, err
	}

	// Вариант объявления зависит от числа машин уже после записи:
	// первая машина - полное представление участника, дальше короче.
	cars, err := a.store.CarsForMember(ctx, member.ID)
	switch {
	case err != nil:
		// Машина уже сохранена, объявление не должно ронять диалог.
		log.WithError(err).WithField("member_id", member.ID).
			Warn("не удалось посчитать машины для объявления")
	case len(cars) == 1:
		a.notifier.FirstCar(member, car)
	default:
		a.notifier.AdditionalCar(member, car)
	}
	return complete(a.composer.CarConfirmation(car)), nil
}
