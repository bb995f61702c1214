package usecase

import (
	"context"
	"errors"
	"time"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ CourseAccessUseCase = (*courseAccessUC)(nil)

// AccessDecision is the resolved visibility of one course for one viewer.
// CanView means the course page (landing, curriculum outline) is visible;
// CanAccess means the lesson content itself is unlocked.
type AccessDecision struct {
	CanView   bool
	CanAccess bool
	Reason    string
}

type CourseAccessUseCase interface {
	// Resolve decides view/access for a viewer. user is nil for anonymous
	// visitors.
	Resolve(ctx context.Context, user *model.User, course *model.Course) (AccessDecision, error)
	// ResolveByID loads the course and resolves in one step. Public course
	// URLs carry slugs, so an unknown id falls back to a slug lookup.
	ResolveByID(ctx context.Context, user *model.User, idOrSlug string) (*model.Course, AccessDecision, error)
}

type courseAccessUC struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	grants      repository.UserMembershipRepository
	now         func() time.Time
}

func NewCourseAccessUseCase(courses repository.CourseRepository, enrollments repository.EnrollmentRepository, grants repository.UserMembershipRepository) *courseAccessUC {
	return &courseAccessUC{courses: courses, enrollments: enrollments, grants: grants, now: time.Now}
}

func deny(reason string) AccessDecision {
	return AccessDecision{Reason: reason}
}

func preview(reason string) AccessDecision {
	return AccessDecision{CanView: true, Reason: reason}
}

func allow(reason string) AccessDecision {
	return AccessDecision{CanView: true, CanAccess: true, Reason: reason}
}

// Resolve walks the rules in priority order; the first matching rule wins.
func (u *courseAccessUC) Resolve(ctx context.Context, user *model.User, course *model.Course) (AccessDecision, error) {
	if course == nil {
		return deny("not_found"), domain.ErrInvalidArgument
	}

	if course.Status == model.CourseDraft {
		if user != nil && user.Role == model.RoleAdmin {
			return allow("admin"), nil
		}
		return deny("draft"), nil
	}
	if course.Status == model.CourseArchived {
		if user != nil && user.Role == model.RoleAdmin {
			return allow("admin"), nil
		}
		return deny("archived"), nil
	}

	if user == nil {
		if course.Status == model.CoursePrivate || course.AffiliateOnly || course.RoleAccess == model.CourseAccessAffiliate {
			return deny("authentication_required"), nil
		}
		return preview("anonymous"), nil
	}

	if user.Role == model.RoleAdmin || user.Role == model.RoleMentor {
		return allow("staff"), nil
	}

	if course.AffiliateOnly || course.RoleAccess == model.CourseAccessAffiliate {
		if user.Role.AffiliateCapable() {
			return allow("affiliate"), nil
		}
		return deny("affiliate_only"), nil
	}

	enrolled, err := u.enrolledWithAccess(ctx, user.ID, course.ID)
	if err != nil {
		return deny("error"), err
	}

	// MEMBER restriction outranks PRIVATE: membership or enrollment unlocks
	// the course, anything else stays preview-only.
	if course.RoleAccess == model.CourseAccessMember {
		if enrolled {
			return allow("enrolled"), nil
		}
		active, err := u.hasActiveMembership(ctx, user.ID)
		if err != nil {
			return deny("error"), err
		}
		if active {
			return allow("membership"), nil
		}
		return preview("membership_required"), nil
	}

	if course.Status == model.CoursePrivate {
		if enrolled {
			return allow("enrolled"), nil
		}
		return deny("private"), nil
	}

	if enrolled {
		return allow("enrolled"), nil
	}

	if course.MembershipIncluded {
		active, err := u.hasActiveMembership(ctx, user.ID)
		if err != nil {
			return deny("error"), err
		}
		if active {
			return allow("membership"), nil
		}
	}

	if course.Price == 0 {
		return allow("free"), nil
	}
	return preview("purchase_required"), nil
}

func (u *courseAccessUC) ResolveByID(ctx context.Context, user *model.User, idOrSlug string) (*model.Course, AccessDecision, error) {
	course, err := u.courses.FindByID(ctx, repository.NoTX, idOrSlug)
	if errors.Is(err, domain.ErrNotFound) {
		course, err = u.courses.FindBySlug(ctx, repository.NoTX, idOrSlug)
	}
	if err != nil {
		return nil, deny("not_found"), err
	}
	dec, err := u.Resolve(ctx, user, course)
	return course, dec, err
}

func (u *courseAccessUC) enrolledWithAccess(ctx context.Context, userID, courseID string) (bool, error) {
	e, err := u.enrollments.Find(ctx, repository.NoTX, userID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !e.HasAccess {
		return false, nil
	}
	if e.AccessExpiresAt != nil && u.now().After(*e.AccessExpiresAt) {
		return false, nil
	}
	return true, nil
}

func (u *courseAccessUC) hasActiveMembership(ctx context.Context, userID string) (bool, error) {
	g, err := u.grants.FindActiveByUser(ctx, repository.NoTX, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return g.Active(u.now()), nil
}
