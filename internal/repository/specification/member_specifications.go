package specification

import (
	"strings"
	"time"

	"gymflow-be/pkg/lifecycle"

	"gorm.io/gorm"
)

// Member list queries join the current renewal as "cr" so status can be derived in SQL.
const CurrentRenewalJoin = "LEFT JOIN renewals cr ON cr.id = members.current_renewal_id"

// MemberSearch is a case-insensitive partial match over name, email and phone.
type MemberSearch struct {
	Query string
}

func (s MemberSearch) Apply(db *gorm.DB) *gorm.DB {
	q := strings.TrimSpace(s.Query)
	if q == "" {
		return db
	}
	pattern := LikeContains(strings.ToLower(q))
	return db.Where(
		`LOWER(members.name) LIKE ? ESCAPE '\' OR LOWER(members.email) LIKE ? ESCAPE '\' OR LOWER(members.phone) LIKE ? ESCAPE '\'`,
		pattern, pattern, pattern,
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikeContains wraps q for a substring LIKE with '\' as the escape character, so % and _ in user
// input match literally.
func LikeContains(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

type MemberType struct {
	Type string
}

func (s MemberType) Apply(db *gorm.DB) *gorm.DB {
	if s.Type == "" {
		return db
	}
	return db.Where("LOWER(members.membership_type) = LOWER(?)", s.Type)
}

type MemberGender struct {
	Gender string
}

func (s MemberGender) Apply(db *gorm.DB) *gorm.DB {
	if s.Gender == "" {
		return db
	}
	return db.Where("members.gender = ?", s.Gender)
}

// MemberDerivedStatus evaluates active/expired from the current renewal instead of the stored
// column. Requires CurrentRenewalJoin.
type MemberDerivedStatus struct {
	Status lifecycle.Status
	Today  time.Time
}

func (s MemberDerivedStatus) Apply(db *gorm.DB) *gorm.DB {
	switch s.Status {
	case lifecycle.StatusSuspended:
		return db.Where("members.membership_status = ?", lifecycle.StatusSuspended)
	case lifecycle.StatusActive:
		return db.Where("members.membership_status <> ? AND cr.expiry_date >= ?", lifecycle.StatusSuspended, s.Today)
	case lifecycle.StatusExpired:
		return db.Where("members.membership_status <> ? AND (cr.id IS NULL OR cr.expiry_date < ?)", lifecycle.StatusSuspended, s.Today)
	default:
		return db
	}
}

// ExpiringBetween keeps non-suspended members whose current period ends within [From, To].
// Requires CurrentRenewalJoin.
type ExpiringBetween struct {
	From time.Time
	To   time.Time
}

func (s ExpiringBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("members.membership_status <> ? AND cr.expiry_date BETWEEN ? AND ?",
		lifecycle.StatusSuspended, s.From, s.To)
}
