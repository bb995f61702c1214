package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ MembershipUseCase = (*membershipUC)(nil)

type MembershipUseCase interface {
	// ActivateTx grants a plan to a user inside the caller's transaction:
	// any previous ACTIVE grant is expired, linked courses are enrolled
	// with the grant's end date, and a MEMBER_FREE buyer is promoted to
	// MEMBER_PREMIUM. Privileged roles keep their role.
	ActivateTx(ctx context.Context, tx repository.Tx, userID, transactionID string, plan *model.Membership, price int64) (*model.UserMembership, error)
	ActiveGrant(ctx context.Context, userID string) (*model.UserMembership, error)
	// ExpireDue runs the expiry sweep: lapsed grants are marked EXPIRED,
	// expired course enrollments are locked, and premium users with no
	// remaining grant are downgraded to MEMBER_FREE.
	ExpireDue(ctx context.Context) (expired int, downgraded int, err error)
}

type membershipUC struct {
	plans       repository.MembershipRepository
	grants      repository.UserMembershipRepository
	users       repository.UserRepository
	enrollments repository.EnrollmentRepository
	txm         repository.TransactionManager
	log         *zerolog.Logger
	now         func() time.Time
}

func NewMembershipUseCase(plans repository.MembershipRepository, grants repository.UserMembershipRepository, users repository.UserRepository, enrollments repository.EnrollmentRepository, txm repository.TransactionManager, logger *zerolog.Logger) *membershipUC {
	return &membershipUC{plans: plans, grants: grants, users: users, enrollments: enrollments, txm: txm, log: logger, now: time.Now}
}

func (u *membershipUC) ActivateTx(ctx context.Context, tx repository.Tx, userID, transactionID string, plan *model.Membership, price int64) (*model.UserMembership, error) {
	if plan == nil {
		return nil, domain.ErrInvalidArgument
	}
	if !plan.IsActive {
		return nil, domain.ErrMembershipInactive
	}

	if _, err := u.grants.ExpireActiveByUser(ctx, tx, userID); err != nil {
		return nil, err
	}

	start := u.now()
	grant, err := model.NewUserMembership(uuid.NewString(), userID, transactionID, plan, start, price)
	if err != nil {
		return nil, err
	}
	if err := u.grants.Save(ctx, tx, grant); err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if plan.Duration != model.DurationLifetime {
		end := grant.EndDate
		expiresAt = &end
	}
	for _, courseID := range plan.CourseIDs {
		if err := u.enrollments.Grant(ctx, tx, userID, courseID, expiresAt); err != nil {
			return nil, err
		}
	}

	user, err := u.users.FindByID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == model.RoleMemberFree {
		if err := u.users.UpdateRole(ctx, tx, userID, model.RoleMemberPremium); err != nil {
			return nil, err
		}
	}

	u.log.Info().
		Str("user_id", userID).
		Str("membership_id", plan.ID).
		Time("end_date", grant.EndDate).
		Msg("membership activated")
	return grant, nil
}

func (u *membershipUC) ActiveGrant(ctx context.Context, userID string) (*model.UserMembership, error) {
	g, err := u.grants.FindActiveByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	if !g.Active(u.now()) {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func (u *membershipUC) ExpireDue(ctx context.Context) (int, int, error) {
	var expired, downgraded int
	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		now := u.now()
		n, err := u.grants.ExpireDue(ctx, tx, now)
		if err != nil {
			return err
		}
		expired = n

		if _, err := u.enrollments.LockExpired(ctx, tx, now); err != nil {
			return err
		}

		stale, err := u.users.ListPremiumWithoutActiveMembership(ctx, tx, 500)
		if err != nil {
			return err
		}
		for _, usr := range stale {
			if err := u.users.UpdateRole(ctx, tx, usr.ID, model.RoleMemberFree); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return err
			}
			downgraded++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	if expired > 0 || downgraded > 0 {
		u.log.Info().Int("expired", expired).Int("downgraded", downgraded).Msg("membership expiry sweep")
	}
	return expired, downgraded, nil
}
