package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/config"
	"eksporyuk-platform/internal/domain/model"
	pg "eksporyuk-platform/internal/infra/db/postgres"
)

func main() {
	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	userRepo := pg.NewUserRepo(pool)
	membershipRepo := pg.NewMembershipRepo(pool)
	courseRepo := pg.NewCourseRepo(pool)
	couponRepo := pg.NewCouponRepo(pool)

	// If plans already exist, do nothing.
	plans, err := membershipRepo.ListActive(ctx, nil)
	if err != nil {
		log.Fatalf("list memberships: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d memberships already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (%s, price=%d IDR)\n", p.Name, p.Duration, p.Price)
		}
		return
	}

	// Platform accounts referenced by the revenue split.
	staff := []struct {
		Name  string
		Email string
		Role  model.UserRole
	}{
		{"Platform Admin", "admin@eksporyuk.test", model.RoleAdmin},
		{"Founder", "founder@eksporyuk.test", model.RoleFounder},
		{"Co-Founder", "cofounder@eksporyuk.test", model.RoleCoFounder},
	}
	for _, s := range staff {
		u, err := model.NewUser(uuid.NewString(), s.Name, s.Email)
		if err != nil {
			log.Fatalf("new user %q: %v", s.Email, err)
		}
		u.Role = s.Role
		if err := userRepo.Save(ctx, nil, u); err != nil {
			log.Fatalf("save user %q: %v", s.Email, err)
		}
		fmt.Printf("seeded user: %s (id=%s, role=%s)\n", u.Email, u.ID, u.Role)
	}

	// A starter course bundled with every plan below.
	course := &model.Course{
		ID:                 uuid.NewString(),
		Title:              "Ekspor Fundamentals",
		Slug:               "ekspor-fundamentals",
		Status:             model.CoursePublished,
		RoleAccess:         model.CourseAccessMember,
		Price:              0,
		MembershipIncluded: true,
		CreatedAt:          time.Now(),
	}
	if err := courseRepo.Save(ctx, nil, course); err != nil {
		log.Fatalf("save course: %v", err)
	}
	fmt.Printf("seeded course: %s (id=%s)\n", course.Title, course.ID)

	// Sample plans covering each duration tier.
	seed := []struct {
		Name     string
		Slug     string
		Duration model.MembershipDuration
		Price    int64
		Rate     int64
	}{
		{"EksporYuk 1 Bulan", "eksporyuk-1-bulan", model.DurationOneMonth, 299_000, 30},
		{"EksporYuk 6 Bulan", "eksporyuk-6-bulan", model.DurationSixMonths, 1_499_000, 30},
		{"EksporYuk Lifetime", "eksporyuk-lifetime", model.DurationLifetime, 4_999_000, 40},
	}
	for _, s := range seed {
		m := &model.Membership{
			ID:                      uuid.NewString(),
			Name:                    s.Name,
			Slug:                    s.Slug,
			Duration:                s.Duration,
			Price:                   s.Price,
			CommissionType:          model.CommissionPercentage,
			AffiliateCommissionRate: decimal.NewFromInt(s.Rate),
			IsActive:                true,
			CourseIDs:               []string{course.ID},
			CreatedAt:               time.Now(),
		}
		if err := membershipRepo.Save(ctx, nil, m); err != nil {
			log.Fatalf("save membership %q: %v", s.Name, err)
		}
		fmt.Printf("seeded membership: %s (id=%s, price=%d IDR)\n", m.Name, m.ID, m.Price)
	}

	// A launch coupon for smoke testing checkout discounts.
	until := time.Now().AddDate(0, 3, 0)
	coupon := &model.Coupon{
		ID:            uuid.NewString(),
		Code:          "LAUNCH10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
		ValidUntil:    &until,
		MaxUses:       100,
		CreatedAt:     time.Now(),
	}
	if err := couponRepo.Save(ctx, nil, coupon); err != nil {
		log.Fatalf("save coupon: %v", err)
	}
	fmt.Printf("seeded coupon: %s\n", coupon.Code)

	fmt.Println("✅ Seeding complete.")
}
