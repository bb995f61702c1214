package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/config"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/adapter"
	notifyAdapters "eksporyuk-platform/internal/infra/adapters/notify"
	payAdapters "eksporyuk-platform/internal/infra/adapters/payment"
	"eksporyuk-platform/internal/infra/api"
	pg "eksporyuk-platform/internal/infra/db/postgres"
	"eksporyuk-platform/internal/infra/logging"
	"eksporyuk-platform/internal/infra/metrics"
	red "eksporyuk-platform/internal/infra/redis"
	"eksporyuk-platform/internal/infra/sched"
	"eksporyuk-platform/internal/infra/web"
	"eksporyuk-platform/internal/infra/worker"
	"eksporyuk-platform/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	go func() {
		t := time.NewTicker(30 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
			}
		}
	}()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	clickLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	txm := pg.NewTxManager(pool)
	userRepo := pg.NewUserRepo(pool)
	membershipRepo := pg.NewMembershipRepoCacheDecorator(pg.NewMembershipRepo(pool), redisClient, cfg.Redis.TTL)
	grantRepo := pg.NewUserMembershipRepo(pool)
	courseRepo := pg.NewCourseRepo(pool)
	enrollmentRepo := pg.NewEnrollmentRepo(pool)
	productRepo := pg.NewProductRepo(pool)
	txnRepo := pg.NewTransactionRepo(pool)
	couponRepo := pg.NewCouponRepo(pool)
	affiliateRepo := pg.NewAffiliateRepo(pool)
	challengeRepo := pg.NewChallengeRepo(pool)
	walletRepo := pg.NewWalletRepo(pool)
	pendingRepo := pg.NewPendingRevenueRepo(pool)
	featureRepo := pg.NewFeatureRepoCacheDecorator(pg.NewFeatureRepo(pool), redisClient, cfg.Redis.TTL)
	notifLogRepo := pg.NewNotificationLogRepo(pool)

	// ---- Notification workers ----
	taskPool := worker.NewPool(cfg.Notify.Workers, logger)
	taskPool.Start(ctx)
	defer taskPool.Stop()

	var notifiers []adapter.Notifier
	if cfg.Notify.Mailketing.APIToken != "" {
		mk, err := notifyAdapters.NewMailketingNotifier(&cfg.Notify.Mailketing)
		if err != nil {
			logger.Fatal().Err(err).Msg("mailketing notifier init failed")
		}
		notifiers = append(notifiers, mk)
	} else {
		notifiers = append(notifiers, notifyAdapters.NewNoopNotifier(model.ChannelEmail))
	}
	if cfg.Notify.Whatsapp.APIKey != "" {
		wa, err := notifyAdapters.NewWhatsappNotifier(&cfg.Notify.Whatsapp)
		if err != nil {
			logger.Fatal().Err(err).Msg("whatsapp notifier init failed")
		}
		notifiers = append(notifiers, wa)
	} else {
		notifiers = append(notifiers, notifyAdapters.NewNoopNotifier(model.ChannelWhatsapp))
	}
	if cfg.Notify.OneSignal.APIKey != "" {
		push, err := notifyAdapters.NewOneSignalNotifier(&cfg.Notify.OneSignal)
		if err != nil {
			logger.Fatal().Err(err).Msg("onesignal notifier init failed")
		}
		notifiers = append(notifiers, push)
	}

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	if cfg.Payment.Xendit.APIKey != "" {
		gateway, err = payAdapters.NewXenditGateway(&cfg.Payment.Xendit, cfg.Payment.InvoiceTTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("xendit gateway init failed")
		}
	} else {
		if !cfg.Runtime.Dev {
			logger.Warn().Msg("payment.xendit.api_key not set; using noop gateway")
		}
		gateway = payAdapters.NewNoopPaymentGateway()
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, cfg.Checkout.BlockedEmailDomains, logger)
	couponUC := usecase.NewCouponUseCase(couponRepo)
	challengeUC := usecase.NewChallengeUseCase(challengeRepo, logger)
	membershipUC := usecase.NewMembershipUseCase(membershipRepo, grantRepo, userRepo, enrollmentRepo, txm, logger)
	notifUC := usecase.NewNotificationUseCase(notifiers, notifLogRepo, userRepo, affiliateRepo, taskPool, logger)

	revCfg := usecase.RevenueConfig{
		AdminFeePercent:  decimal.NewFromFloat(cfg.Revenue.AdminFeePercent),
		FounderPercent:   decimal.NewFromFloat(cfg.Revenue.FounderPercent),
		CofounderPercent: decimal.NewFromFloat(cfg.Revenue.CofounderPercent),
	}
	recipients := usecase.RevenueRecipients{
		AdminUserID:     cfg.Revenue.AdminUserID,
		FounderUserID:   cfg.Revenue.FounderUserID,
		CofounderUserID: cfg.Revenue.CofounderUserID,
	}
	commissionUC := usecase.NewCommissionUseCase(txnRepo, affiliateRepo, walletRepo, pendingRepo, membershipRepo, productRepo, txm, revCfg, recipients, logger)

	paymentUC := usecase.NewPaymentUseCase(txnRepo, userRepo, membershipRepo, productRepo, enrollmentRepo, couponRepo, affiliateRepo, gateway, membershipUC, commissionUC, challengeUC, notifUC, txm, logger)
	checkoutUC := usecase.NewCheckoutUseCase(userUC, paymentUC, couponUC, membershipRepo, productRepo, courseRepo, affiliateRepo, txnRepo, featureRepo, txm, logger)
	affiliateUC := usecase.NewAffiliateUseCase(affiliateRepo, walletRepo, userRepo, challengeUC, txm, logger)
	accessUC := usecase.NewCourseAccessUseCase(courseRepo, enrollmentRepo, grantRepo)
	catalogUC := usecase.NewCatalogUseCase(membershipRepo, productRepo, courseRepo, featureRepo, logger)
	statsUC := usecase.NewStatsUseCase(txnRepo, grantRepo, affiliateRepo, pendingRepo, logger)

	// ---- Schedulers ----
	go func() { _ = sched.NewExpiryWorker(cfg.Scheduler.ExpirySweepInterval, membershipUC, locker, logger).Run(ctx) }()
	go func() { _ = sched.NewReminderWorker(cfg.Scheduler.ReminderInterval, paymentUC, logger).Run(ctx) }()
	go func() { _ = sched.NewPaymentReconciler(cfg.Scheduler.ReconcileInterval, paymentUC, logger).Run(ctx) }()

	// ---- Public API ----
	publicSrv := api.NewServer(
		checkoutUC, paymentUC, couponUC, catalogUC, accessUC, affiliateUC, challengeUC, userUC,
		clickLimiter,
		cfg.Payment.Xendit.CallbackToken, cfg.App.RedirectURL, cfg.Checkout.RateLimit,
		logger,
	)
	publicRouter, err := publicSrv.Router()
	if err != nil {
		logger.Fatal().Err(err).Msg("public router init failed")
	}
	publicServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.App.Port), Handler: publicRouter}
	go func() {
		logger.Info().Str("addr", publicServer.Addr).Msg("public api listening")
		if err := publicServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("public api server error")
		}
	}()

	// ---- Admin API ----
	auth := web.NewAuthManager(cfg.AdminAuth.JWTSecret, !cfg.Runtime.Dev, "", cfg.AdminAuth.SessionTTL)
	adminSrv := web.NewServer(statsUC, catalogUC, couponUC, challengeUC, commissionUC, userUC, auth, cfg.AdminAuth.JWTSecret, logger)
	adminServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.App.AdminPort), Handler: adminSrv.Router()}
	go func() {
		logger.Info().Str("addr", adminServer.Addr).Msg("admin api listening")
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin api server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	_ = publicServer.Shutdown(context.Background())
	_ = adminServer.Shutdown(context.Background())
}
