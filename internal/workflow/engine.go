package workflow

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/t1ery/AutoClubBot/internal/domain"
	"github.com/t1ery/AutoClubBot/internal/session"
)

// Ответы на сбои, одинаковые для всех диалогов.
const (
	replyStoreError = "Что-то пошло не так, данные не сохранились. " +
		"Попробуйте позже или напишите администратору."
	replyNotRegistered = "Сначала нужно зарегистрироваться в клубе - " +
		"команда /register."
)

// Engine связывает сессии с диалогами и применяет их решения.
type Engine struct {
	sessions  *session.Store
	workflows map[session.Kind]Workflow
}

func NewEngine(sessions *session.Store, workflows ...Workflow) *Engine {
	byKind := make(map[session.Kind]Workflow, len(workflows))
	for _, wf := range workflows {
		byKind[wf.Kind()] = wf
	}
	return &Engine{sessions: sessions, workflows: byKind}
}

// Start открывает новый диалог, молча вытесняя прежний, и
// возвращает приглашение первого шага.
func (e *Engine) Start(userID int64, kind session.Kind) string {
	wf, ok := e.workflows[kind]
	if !ok {
		return ""
	}
	e.sessions.Start(userID, kind, wf.FirstStep())
	log.WithFields(log.Fields{"user_id": userID, "workflow": kind.String()}).
		Info("диалог начат")
	return wf.Greeting()
}

// Active сообщает, есть ли у пользователя незавершённый диалог.
func (e *Engine) Active(userID int64) bool {
	return e.sessions.Get(userID) != nil
}

// HandleEvent передает событие активному диалогу пользователя.
// Возвращает ответ и признак того, что событие было обработано.
func (e *Engine) HandleEvent(ctx context.Context, userID int64, ev Event) (string, bool) {
	sess := e.sessions.Get(userID)
	if sess == nil {
		return "", false
	}
	wf, ok := e.workflows[sess.Kind]
	if !ok {
		e.sessions.End(userID)
		return "", false
	}

	action, err := wf.Handle(ctx, sess, ev)
	if err != nil {
		// Ошибки хранилища и отсутствие регистрации завершают
		// сессию и дают ровно одно сообщение пользователю.
		e.sessions.End(userID)
		if errors.Is(err, domain.ErrNotRegistered) {
			return replyNotRegistered, true
		}
		log.WithError(err).WithFields(log.Fields{
			"user_id":  userID,
			"workflow": sess.Kind.String(),
			"step":     sess.Step,
		}).Error("диалог прерван ошибкой хранилища")
		return replyStoreError, true
	}

	switch action.Op {
	case OpAdvance:
		sess.Step = action.Next
		e.sessions.Update(sess)
	case OpComplete, OpCancel:
		e.sessions.End(userID)
	}
	return action.Reply, true
}
