package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownToken is returned when no user matches the presented API token.
var ErrUnknownToken = errors.New("unknown api token")

// InsertCompany stores a new company profile.
func (s *Store) InsertCompany(ctx context.Context, c *Company) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("company name required")
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `INSERT INTO companies(
                id, name, description, website, email, phone, created_at, updated_at)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.Website, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetCompany loads a company profile by id.
func (s *Store) GetCompany(ctx context.Context, id string) (*Company, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var c Company
	if err := s.db.GetContext(ctx, &c, `SELECT * FROM companies WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company %s not found", id)
		}
		return nil, fmt.Errorf("select company: %w", err)
	}
	return &c, nil
}

// UpdateCompany overwrites the mutable profile fields.
func (s *Store) UpdateCompany(ctx context.Context, c *Company) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	c.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `UPDATE companies SET
                name = ?, description = ?, website = ?, email = ?, phone = ?, updated_at = ?
        WHERE id = ?`,
		c.Name, c.Description, c.Website, c.Email, c.Phone, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// InsertUser stores a new account. Tokens are issued out of band.
func (s *Store) InsertUser(ctx context.Context, u *User) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO users(
                id, company_id, name, email, api_token, created_at)
        VALUES(?, ?, ?, ?, ?, ?)`,
		u.ID, u.CompanyID, u.Name, u.Email, u.APIToken, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByToken resolves the account behind a bearer token.
func (s *Store) UserByToken(ctx context.Context, token string) (*User, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnknownToken
	}
	var u User
	if err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE api_token = ?`, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnknownToken
		}
		return nil, fmt.Errorf("select user by token: %w", err)
	}
	return &u, nil
}

// InsertMember adds a team member to a company profile.
func (s *Store) InsertMember(ctx context.Context, m *Member) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `INSERT INTO company_members(
                id, company_id, name, role, bio, created_at, updated_at)
        VALUES(?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.CompanyID, m.Name, m.Role, m.Bio, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// ListMembers returns a company's team members ordered by name.
func (s *Store) ListMembers(ctx context.Context, companyID string) ([]Member, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	members := []Member{}
	if err := s.db.SelectContext(ctx, &members, `SELECT * FROM company_members WHERE company_id = ? ORDER BY name`, companyID); err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	return members, nil
}

// DeleteMember removes a team member, scoped to the owning company.
func (s *Store) DeleteMember(ctx context.Context, companyID, memberID string) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM company_members WHERE id = ? AND company_id = ?`, memberID, companyID)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

// InsertAward adds an award entry to a company profile.
func (s *Store) InsertAward(ctx context.Context, a *Award) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO company_awards(
                id, company_id, title, issuer, awarded_on, created_at)
        VALUES(?, ?, ?, ?, ?, ?)`,
		a.ID, a.CompanyID, a.Title, a.Issuer, a.AwardedOn, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert award: %w", err)
	}
	return nil
}

// ListAwards returns a company's awards, most recent first.
func (s *Store) ListAwards(ctx context.Context, companyID string) ([]Award, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	awards := []Award{}
	if err := s.db.SelectContext(ctx, &awards, `SELECT * FROM company_awards WHERE company_id = ? ORDER BY awarded_on DESC, created_at DESC`, companyID); err != nil {
		return nil, fmt.Errorf("select awards: %w", err)
	}
	return awards, nil
}

// DeleteAward removes an award entry, scoped to the owning company.
func (s *Store) DeleteAward(ctx context.Context, companyID, awardID string) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM company_awards WHERE id = ? AND company_id = ?`, awardID, companyID)
	if err != nil {
		return fmt.Errorf("delete award: %w", err)
	}
	return nil
}
