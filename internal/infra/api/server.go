package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/usecase"
)

// Server is the public storefront API: checkout, referral links, the
// payment webhook and read endpoints for catalog, access and affiliate
// dashboards.
type Server struct {
	checkout      usecase.CheckoutUseCase
	payments      usecase.PaymentUseCase
	coupons       usecase.CouponUseCase
	catalog       usecase.CatalogUseCase
	access        usecase.CourseAccessUseCase
	affiliates    usecase.AffiliateUseCase
	challenges    usecase.ChallengeUseCase
	users         usecase.UserUseCase
	clicks        ClickDeduper
	callbackToken string
	redirectURL   string
	rateLimit     string
	log           *zerolog.Logger
}

// ClickDeduper suppresses repeated clicks from one source within a window.
// Satisfied by the redis fixed-window rate limiter.
type ClickDeduper interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func NewServer(
	checkout usecase.CheckoutUseCase,
	payments usecase.PaymentUseCase,
	coupons usecase.CouponUseCase,
	catalog usecase.CatalogUseCase,
	access usecase.CourseAccessUseCase,
	affiliates usecase.AffiliateUseCase,
	challenges usecase.ChallengeUseCase,
	users usecase.UserUseCase,
	clicks ClickDeduper,
	callbackToken, redirectURL, rateLimit string,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "PublicAPI").Logger()
	return &Server{
		checkout:      checkout,
		payments:      payments,
		coupons:       coupons,
		catalog:       catalog,
		access:        access,
		affiliates:    affiliates,
		challenges:    challenges,
		users:         users,
		clicks:        clicks,
		callbackToken: callbackToken,
		redirectURL:   redirectURL,
		rateLimit:     rateLimit,
		log:           &compLog,
	}
}

// Router assembles the chi router with the full middleware chain.
func (s *Server) Router() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/r/{code}", s.handleReferral)

	limited, err := RateLimit(s.rateLimit)
	if err != nil {
		return nil, err
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(limited).Post("/checkout", s.handleCheckout)
		r.Get("/coupons/validate", s.handleCouponValidate)
		r.Get("/memberships", s.handleListMemberships)
		r.Get("/transactions/{id}", s.handleTransactionStatus)
		r.Get("/courses/{id}/access", s.handleCourseAccess)

		r.Post("/webhooks/xendit", s.handleXenditWebhook)

		r.Route("/affiliates", func(r chi.Router) {
			r.Post("/register", s.handleAffiliateRegister)
			r.Get("/dashboard", s.handleAffiliateDashboard)
			r.Post("/payout", s.handleAffiliatePayout)
			r.Get("/top", s.handleTopAffiliates)
		})

		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", s.handleListChallenges)
			r.Post("/{id}/join", s.handleChallengeJoin)
		})
	})

	return r, nil
}
