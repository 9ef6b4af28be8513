// Package session хранит незавершённые диалоги пользователей.
package session

import (
	"sync"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

// Kind - вид активного диалога.
type Kind int

const (
	KindNone Kind = iota
	KindRegistration
	KindAddCar
	KindCreateInvitation
	KindSearch
)

func (k Kind) String() string {
	switch k {
	case KindRegistration:
		return "registration"
	case KindAddCar:
		return "addcar"
	case KindCreateInvitation:
		return "invitation"
	case KindSearch:
		return "search"
	}
	return "none"
}

// Session - состояние одного диалога. У пользователя не бывает
// двух сессий одновременно: новый Start вытесняет старую.
type Session struct {
	UserID     int64
	Kind       Kind
	Step       string
	Member     *domain.MemberDraft
	Car        *domain.CarDraft
	Invitation *domain.InvitationDraft
	Query      string
}

// slot сериализует обработку событий одного пользователя.
type slot struct {
	mu      sync.Mutex
	session *Session
}

// Store - потокобезопасное хранилище сессий. Единственный владелец
// черновиков до их сохранения.
type Store struct {
	mu    sync.Mutex
	slots map[int64]*slot
}

func NewStore() *Store {
	return &Store{slots: make(map[int64]*slot)}
}

func (s *Store) slotFor(userID int64) *slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[userID]
	if !ok {
		sl = &slot{}
		s.slots[userID] = sl
	}
	return sl
}

// Acquire блокирует обработку событий пользователя. События разных
// пользователей друг друга не ждут.
func (s *Store) Acquire(userID int64) {
	s.slotFor(userID).mu.Lock()
}

// Release снимает блокировку, взятую Acquire.
func (s *Store) Release(userID int64) {
	s.slotFor(userID).mu.Unlock()
}

// Get возвращает активную сессию пользователя или nil.
func (s *Store) Get(userID int64) *Session {
	return s.slotFor(userID).session
}

// Start создает сессию указанного вида, молча вытесняя прежнюю
// вместе с её черновиком.
func (s *Store) Start(userID int64, kind Kind, step string) *Session {
	sess := &Session{UserID: userID, Kind: kind, Step: step}
	switch kind {
	case KindRegistration:
		sess.Member = &domain.MemberDraft{}
	case KindAddCar:
		sess.Car = &domain.CarDraft{}
	case KindCreateInvitation:
		sess.Invitation = &domain.InvitationDraft{}
	}
	s.slotFor(userID).session = sess
	return sess
}

// Update сохраняет изменённую сессию.
func (s *Store) Update(sess *Session) {
	s.slotFor(sess.UserID).session = sess
}

// End завершает сессию и уничтожает черновик.
func (s *Store) End(userID int64) {
	s.slotFor(userID).session = nil
}
