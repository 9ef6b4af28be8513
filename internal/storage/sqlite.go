package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

// SQLiteStorage - основное хранилище клуба.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

const memberColumns = `id, user_id, first_name, last_name, city, country, phone, about, photo_path, join_date, status`

func scanMember(row *sql.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.UserID, &m.FirstName, &m.LastName, &m.City,
		&m.Country, &m.Phone, &m.About, &m.PhotoPath, &m.JoinDate, &m.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.WrapStore("scan member", err)
	}
	return &m, nil
}

func (s *SQLiteStorage) FindMemberByUser(ctx context.Context, userID int64) (*domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE user_id = ?`, userID)
	return scanMember(row)
}

func (s *SQLiteStorage) FindMemberByID(ctx context.Context, id string) (*domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	return scanMember(row)
}

func (s *SQLiteStorage) CreateMember(ctx context.Context, m *domain.Member) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO members(id, user_id, first_name, last_name, city, country, phone, about, photo_path, join_date, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.FirstName, m.LastName, m.City, m.Country,
		m.Phone, m.About, m.PhotoPath, m.JoinDate, m.Status)
	return domain.WrapStore("create member", err)
}

const carColumns = `id, member_id, brand, model, year, reg_number, status, created_at`

func (s *SQLiteStorage) queryCars(ctx context.Context, query string, args ...any) ([]domain.Car, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapStore("query cars", err)
	}
	defer rows.Close()

	var out []domain.Car
	for rows.Next() {
		var c domain.Car
		var memberID sql.NullString
		if err := rows.Scan(&c.ID, &memberID, &c.Brand, &c.Model, &c.Year,
			&c.RegNumber, &c.Status, &c.CreatedAt); err != nil {
			return nil, domain.WrapStore("scan car", err)
		}
		c.MemberID = memberID.String
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStore("query cars", err)
	}
	for i := range out {
		photos, err := s.photosFor(ctx, "car_photos", "car_id", out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Photos = photos
	}
	return out, nil
}

func (s *SQLiteStorage) photosFor(ctx context.Context, table, key, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM `+table+` WHERE `+key+` = ? ORDER BY position`, id)
	if err != nil {
		return nil, domain.WrapStore("query photos", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, domain.WrapStore("scan photo", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (s *SQLiteStorage) CarsForMember(ctx context.Context, memberID string) ([]domain.Car, error) {
	return s.queryCars(ctx,
		`SELECT `+carColumns+` FROM cars WHERE member_id = ? ORDER BY created_at`, memberID)
}

func (s *SQLiteStorage) CarsByPlate(ctx context.Context, plate string) ([]domain.Car, error) {
	return s.queryCars(ctx,
		`SELECT `+carColumns+` FROM cars WHERE reg_number = ? ORDER BY created_at DESC`, plate)
}

func (s *SQLiteStorage) CarsByPlateSubstring(ctx context.Context, q string) ([]domain.Car, error) {
	pattern := "%" + strings.ToUpper(q) + "%"
	return s.queryCars(ctx,
		`SELECT `+carColumns+` FROM cars WHERE reg_number LIKE ? ORDER BY reg_number`, pattern)
}

func (s *SQLiteStorage) CreateCar(ctx context.Context, c *domain.Car) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	var memberID any
	if c.MemberID != "" {
		memberID = c.MemberID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapStore("create car", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO cars(id, member_id, brand, model, year, reg_number, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, memberID, c.Brand, c.Model, c.Year, c.RegNumber, c.Status, c.CreatedAt); err != nil {
		return domain.WrapStore("create car", err)
	}
	for i, path := range c.Photos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO car_photos(car_id, position, path) VALUES (?, ?, ?)`,
			c.ID, i, path); err != nil {
			return domain.WrapStore("create car photos", err)
		}
	}
	return domain.WrapStore("create car", tx.Commit())
}

func (s *SQLiteStorage) InvitationsForCar(ctx context.Context, carID string) ([]domain.Invitation, error) {
	return s.queryInvitations(ctx,
		`SELECT id, car_id, inviter_id, location, brand, model, contact, notes, invite_date, status
	 FROM invitations WHERE car_id = ? ORDER BY invite_date`, carID)
}

func (s *SQLiteStorage) InvitationsForInviter(ctx context.Context, memberID string) ([]domain.Invitation, error) {
	return s.queryInvitations(ctx,
		`SELECT id, car_id, inviter_id, location, brand, model, contact, notes, invite_date, status
	 FROM invitations WHERE inviter_id = ? ORDER BY invite_date`, memberID)
}

func (s *SQLiteStorage) queryInvitations(ctx context.Context, query string, args ...any) ([]domain.Invitation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapStore("query invitations", err)
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		var inv domain.Invitation
		if err := rows.Scan(&inv.ID, &inv.CarID, &inv.InviterID, &inv.Location,
			&inv.Brand, &inv.Model, &inv.Contact, &inv.Notes, &inv.InviteDate, &inv.Status); err != nil {
			return nil, domain.WrapStore("scan invitation", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStore("query invitations", err)
	}
	for i := range out {
		photos, err := s.photosFor(ctx, "invitation_photos", "invitation_id", out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Photos = photos
	}
	return out, nil
}

func (s *SQLiteStorage) CreateInvitation(ctx context.Context, inv *domain.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapStore("create invitation", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO invitations(id, car_id, inviter_id, location, brand, model, contact, notes, invite_date, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.CarID, inv.InviterID, inv.Location, inv.Brand, inv.Model,
		inv.Contact, inv.Notes, inv.InviteDate, inv.Status); err != nil {
		return domain.WrapStore("create invitation", err)
	}
	for i, path := range inv.Photos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO invitation_photos(invitation_id, position, path) VALUES (?, ?, ?)`,
			inv.ID, i, path); err != nil {
			return domain.WrapStore("create invitation photos", err)
		}
	}
	return domain.WrapStore("create invitation", tx.Commit())
}

func (s *SQLiteStorage) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	row := s.db.QueryRowContext(ctx, `
	SELECT
		(SELECT COUNT(*) FROM members),
		(SELECT COUNT(*) FROM members WHERE status = ?),
		(SELECT COUNT(*) FROM cars),
		(SELECT COUNT(*) FROM invitations),
		(SELECT COUNT(*) FROM invitations WHERE status = ?)`,
		domain.MemberStatusActive, domain.InvitationStatusSuccessful)
	if err := row.Scan(&st.TotalMembers, &st.ActiveMembers, &st.TotalCars,
		&st.TotalInvitations, &st.SuccessfulInvitations); err != nil {
		return domain.Stats{}, domain.WrapStore("stats", err)
	}
	return st, nil
}
