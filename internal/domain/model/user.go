package model

import (
	"time"

	"eksporyuk-platform/internal/domain"
)

type UserRole string

const (
	RoleAdmin         UserRole = "ADMIN"
	RoleMentor        UserRole = "MENTOR"
	RoleAffiliate     UserRole = "AFFILIATE"
	RoleMemberFree    UserRole = "MEMBER_FREE"
	RoleMemberPremium UserRole = "MEMBER_PREMIUM"
	RoleFounder       UserRole = "FOUNDER"
	RoleCoFounder     UserRole = "CO_FOUNDER"
)

// AffiliateCapable reports whether the role may access affiliate-restricted
// resources (training courses, affiliate dashboards).
func (r UserRole) AffiliateCapable() bool {
	switch r {
	case RoleAffiliate, RoleMentor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID            string // UUID
	Name          string
	Email         string
	Phone         string
	Whatsapp      string
	Role          UserRole
	IsActive      bool
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser creates a customer record. Buyers registered through checkout start
// as MEMBER_FREE; role upgrades are a side effect of membership activation.
func NewUser(id, name, email string) (*User, error) {
	if id == "" || name == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:            id,
		Name:          name,
		Email:         email,
		Role:          RoleMemberFree,
		IsActive:      true,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
