package model

import "time"

type CourseStatus string

const (
	CourseDraft     CourseStatus = "DRAFT"
	CoursePublished CourseStatus = "PUBLISHED"
	CoursePrivate   CourseStatus = "PRIVATE"
	CourseArchived  CourseStatus = "ARCHIVED"
)

type CourseRoleAccess string

const (
	CourseAccessPublic    CourseRoleAccess = "PUBLIC"
	CourseAccessMember    CourseRoleAccess = "MEMBER"
	CourseAccessAffiliate CourseRoleAccess = "AFFILIATE"
)

// Course visibility and access are controlled by status, roleAccess and the
// affiliateOnly/membershipIncluded flags, independent of price.
type Course struct {
	ID                 string // UUID
	Title              string
	Slug               string
	Status             CourseStatus
	RoleAccess         CourseRoleAccess
	Price              int64 // IDR, 0 = free
	AffiliateOnly      bool
	MembershipIncluded bool
	MentorID           string
	CreatedAt          time.Time
}

// CourseEnrollment is a direct access grant, unique per (user, course).
// Granting is an upsert; expiry locks access but keeps the row.
type CourseEnrollment struct {
	ID              string
	UserID          string
	CourseID        string
	HasAccess       bool
	Progress        int // percent
	AccessGrantedAt time.Time
	AccessExpiresAt *time.Time // nil for lifetime access
	LastAccessedAt  *time.Time
}
