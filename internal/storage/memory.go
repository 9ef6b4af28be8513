package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

// MemoryStorage - хранилище в памяти. Используется в тестах и при
// запуске без базы данных.
type MemoryStorage struct {
	mu          sync.Mutex
	members     map[string]*domain.Member
	cars        map[string]*domain.Car
	invitations map[string]*domain.Invitation
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		members:     make(map[string]*domain.Member),
		cars:        make(map[string]*domain.Car),
		invitations: make(map[string]*domain.Invitation),
	}
}

func (s *MemoryStorage) FindMemberByUser(_ context.Context, userID int64) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStorage) FindMemberByID(_ context.Context, id string) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStorage) CreateMember(_ context.Context, m *domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	cp := *m
	s.members[m.ID] = &cp
	return nil
}

func (s *MemoryStorage) CarsForMember(_ context.Context, memberID string) ([]domain.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Car
	for _, c := range s.cars {
		if c.MemberID == memberID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStorage) CreateCar(_ context.Context, c *domain.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	cp.Photos = append([]string(nil), c.Photos...)
	s.cars[c.ID] = &cp
	return nil
}

func (s *MemoryStorage) CarsByPlate(_ context.Context, plate string) ([]domain.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Car
	for _, c := range s.cars {
		if c.RegNumber == plate {
			out = append(out, *c)
		}
	}
	// Точный поиск отдает свежие записи первыми.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStorage) CarsByPlateSubstring(_ context.Context, q string) ([]domain.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToUpper(q)
	var out []domain.Car
	for _, c := range s.cars {
		if strings.Contains(c.RegNumber, needle) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegNumber < out[j].RegNumber })
	return out, nil
}

func (s *MemoryStorage) InvitationsForCar(_ context.Context, carID string) ([]domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Invitation
	for _, inv := range s.invitations {
		if inv.CarID == carID {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InviteDate.Before(out[j].InviteDate) })
	return out, nil
}

func (s *MemoryStorage) InvitationsForInviter(_ context.Context, memberID string) ([]domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Invitation
	for _, inv := range s.invitations {
		if inv.InviterID == memberID {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InviteDate.Before(out[j].InviteDate) })
	return out, nil
}

func (s *MemoryStorage) CreateInvitation(_ context.Context, inv *domain.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	cp := *inv
	cp.Photos = append([]string(nil), inv.Photos...)
	s.invitations[inv.ID] = &cp
	return nil
}

func (s *MemoryStorage) Stats(_ context.Context) (domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := domain.Stats{
		TotalMembers:     len(s.members),
		TotalCars:        len(s.cars),
		TotalInvitations: len(s.invitations),
	}
	for _, m := range s.members {
		if m.Status == domain.MemberStatusActive {
			st.ActiveMembers++
		}
	}
	for _, inv := range s.invitations {
		if inv.Status == domain.InvitationStatusSuccessful {
			st.SuccessfulInvitations++
		}
	}
	return st, nil
}
