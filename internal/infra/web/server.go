package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/usecase"
)

type claimsKey struct{}

// adminSubject returns the authenticated admin id stored by the auth
// middleware.
func adminSubject(ctx context.Context) string {
	if c, ok := ctx.Value(claimsKey{}).(*AdminClaims); ok {
		return c.Subject
	}
	return ""
}

// Server is the admin API: catalog and coupon management, challenge setup,
// the pending revenue approval queue and platform stats.
type Server struct {
	stats      usecase.StatsUseCase
	catalog    usecase.CatalogUseCase
	coupons    usecase.CouponUseCase
	challenges usecase.ChallengeUseCase
	commission usecase.CommissionUseCase
	users      usecase.UserUseCase
	auth       *AuthManager
	loginKey   string
	log        *zerolog.Logger
}

func NewServer(
	stats usecase.StatsUseCase,
	catalog usecase.CatalogUseCase,
	coupons usecase.CouponUseCase,
	challenges usecase.ChallengeUseCase,
	commission usecase.CommissionUseCase,
	users usecase.UserUseCase,
	auth *AuthManager,
	loginKey string,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "AdminAPI").Logger()
	return &Server{
		stats:      stats,
		catalog:    catalog,
		coupons:    coupons,
		challenges: challenges,
		commission: commission,
		users:      users,
		auth:       auth,
		loginKey:   loginKey,
		log:        &compLog,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/api/admin/login", s.handleLogin)
	r.Post("/api/admin/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)

		r.Get("/api/admin/stats", s.handleStats)

		r.Route("/api/admin/memberships", func(r chi.Router) {
			r.Get("/", s.handleListMemberships)
			r.Post("/", s.handleSaveMembership)
			r.Delete("/{id}", s.handleDeleteMembership)
			r.Put("/{id}/commission", s.handleMembershipCommission)
		})

		r.Route("/api/admin/products", func(r chi.Router) {
			r.Post("/", s.handleSaveProduct)
			r.Put("/{id}/commission", s.handleProductCommission)
		})

		r.Put("/api/admin/commissions/bulk", s.handleBulkCommission)

		r.Post("/api/admin/courses", s.handleSaveCourse)

		r.Route("/api/admin/coupons", func(r chi.Router) {
			r.Get("/", s.handleListCoupons)
			r.Post("/", s.handleSaveCoupon)
			r.Delete("/{id}", s.handleDeleteCoupon)
		})

		r.Route("/api/admin/challenges", func(r chi.Router) {
			r.Post("/", s.handleSaveChallenge)
			r.Delete("/{id}", s.handleDeleteChallenge)
		})

		r.Route("/api/admin/revenue", func(r chi.Router) {
			r.Get("/pending", s.handlePendingRevenue)
			r.Post("/{id}/approve", s.handleApproveRevenue)
			r.Post("/{id}/reject", s.handleRejectRevenue)
		})

		r.Put("/api/admin/users/{id}/role", s.handleUserRole)

		r.Route("/api/admin/features", func(r chi.Router) {
			r.Get("/", s.handleListFeatures)
			r.Put("/", s.handleSetFeature)
		})
	})

	return r
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != "admin" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
