package storage

import (
	"context"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

// Storage - контракт хранилища клуба. Поисковые методы возвращают
// domain.ErrNotFound, если записи нет; Create-методы заполняют ID.
type Storage interface {
	FindMemberByUser(ctx context.Context, userID int64) (*domain.Member, error)
	FindMemberByID(ctx context.Context, id string) (*domain.Member, error)
	CreateMember(ctx context.Context, m *domain.Member) error

	CarsForMember(ctx context.Context, memberID string) ([]domain.Car, error)
	CreateCar(ctx context.Context, c *domain.Car) error
	// CarsByPlate ищет по точному совпадению номера, новые записи первыми.
	CarsByPlate(ctx context.Context, plate string) ([]domain.Car, error)
	// CarsByPlateSubstring ищет по подстроке без учета регистра.
	CarsByPlateSubstring(ctx context.Context, q string) ([]domain.Car, error)

	InvitationsForCar(ctx context.Context, carID string) ([]domain.Invitation, error)
	InvitationsForInviter(ctx context.Context, memberID string) ([]domain.Invitation, error)
	CreateInvitation(ctx context.Context, inv *domain.Invitation) error

	Stats(ctx context.Context) (domain.Stats, error)
}
