package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "club.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStorage(db)
}

func TestMemberRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStorage(t)

	m := &domain.Member{
		UserID:    100,
		FirstName: "Иван",
		Country:   "Россия",
		JoinDate:  time.Now().UTC().Truncate(time.Second),
		Status:    domain.MemberStatusNew,
	}
	require.NoError(t, s.CreateMember(ctx, m))
	require.NotEmpty(t, m.ID)

	got, err := s.FindMemberByUser(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)
	require.Equal(t, "Иван", got.FirstName)
	require.Equal(t, "Россия", got.Country)

	byID, err := s.FindMemberByID(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, got.UserID, byID.UserID)

	_, err = s.FindMemberByUser(ctx, 999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCarQueries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStorage(t)

	m := &domain.Member{UserID: 1, FirstName: "Петр", JoinDate: time.Now(), Status: domain.MemberStatusNew}
	require.NoError(t, s.CreateMember(ctx, m))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, plate := range []string{"A123BC77", "B900AA", "A100XX"} {
		car := &domain.Car{
			MemberID:  m.ID,
			Brand:     "Lada",
			Model:     "Niva",
			Year:      2000 + i,
			RegNumber: plate,
			Photos:    []string{"cars/1_car_0.jpg"},
			Status:    domain.CarStatusActive,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.CreateCar(ctx, car))
	}

	mine, err := s.CarsForMember(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	require.Equal(t, []string{"cars/1_car_0.jpg"}, mine[0].Photos)

	matches, err := s.CarsByPlateSubstring(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "A100XX", matches[0].RegNumber)
	require.Equal(t, "A123BC77", matches[1].RegNumber)

	exact, err := s.CarsByPlate(ctx, "B900AA")
	require.NoError(t, err)
	require.Len(t, exact, 1)
	require.Equal(t, m.ID, exact[0].MemberID)
}

func TestCarsByPlateNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStorage(t)

	old := &domain.Car{RegNumber: "X001XX", Status: domain.CarStatusInvitationPending,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	fresh := &domain.Car{RegNumber: "X001XX", Status: domain.CarStatusInvitationPending,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.CreateCar(ctx, old))
	require.NoError(t, s.CreateCar(ctx, fresh))

	got, err := s.CarsByPlate(ctx, "X001XX")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, fresh.ID, got[0].ID)
}

func TestInvitationsAndStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStorage(t)

	m := &domain.Member{UserID: 5, FirstName: "Олег", JoinDate: time.Now(), Status: domain.MemberStatusActive}
	require.NoError(t, s.CreateMember(ctx, m))
	car := &domain.Car{RegNumber: "E555KX99", Status: domain.CarStatusInvitationPending, CreatedAt: time.Now()}
	require.NoError(t, s.CreateCar(ctx, car))

	inv := &domain.Invitation{
		CarID:      car.ID,
		InviterID:  m.ID,
		Location:   "парковка у ТЦ",
		Photos:     []string{"cars/5_invite_0.jpg", "cars/5_invite_1.jpg"},
		InviteDate: time.Now().UTC().Truncate(time.Second),
		Status:     domain.InvitationStatusNew,
	}
	require.NoError(t, s.CreateInvitation(ctx, inv))

	forCar, err := s.InvitationsForCar(ctx, car.ID)
	require.NoError(t, err)
	require.Len(t, forCar, 1)
	require.Len(t, forCar[0].Photos, 2)

	forInviter, err := s.InvitationsForInviter(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, forInviter, 1)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, st.TotalMembers)
	require.Equal(t, 1, st.ActiveMembers)
	require.Equal(t, 1, st.TotalCars)
	require.Equal(t, 1, st.TotalInvitations)
	require.Equal(t, 0, st.SuccessfulInvitations)
}
