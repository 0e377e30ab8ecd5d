package bootstrap

import (
	"log"

	"allnimall-store-be/internal/config"
	"allnimall-store-be/internal/controller"
	"allnimall-store-be/internal/pkg/logger"
	"allnimall-store-be/internal/pkg/mailer"
	"allnimall-store-be/internal/repository/unitofwork"
	"allnimall-store-be/internal/service"
	"allnimall-store-be/pkg/flagcache"
	pktNats "allnimall-store-be/pkg/nats"
	"allnimall-store-be/pkg/payment"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const usageWarningTopic = "USAGE_WARNING"

type Container struct {
	// Controllers
	PaymentController controller.IPaymentController
	PlanController    controller.IPlanController
	UsageController   controller.IUsageController
	BillingController controller.IBillingController

	// Services (exposed for cmd binaries)
	BillingService       service.IBillingService
	FeatureAccessService service.IFeatureAccessService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	gateway := payment.NewMidtransGateway(
		cfg.Midtrans.ServerKey,
		cfg.Midtrans.IsProduction,
		cfg.App.ClientURL+"/app?payment=success",
	)

	flagCache := flagcache.New(cfg.Billing.FlagCacheTTL)

	// 3. Services
	warningPublisher := service.NewPublisherService(pubSub, usageWarningTopic)
	featureAccessService := service.NewFeatureAccessService(uowFactory, flagCache, sysLogger)
	usageService := service.NewUsageService(uowFactory, featureAccessService, warningPublisher, sysLogger)
	validationService := service.NewValidationService(uowFactory, featureAccessService, sysLogger)
	billingService := service.NewBillingService(
		uowFactory,
		gateway,
		featureAccessService,
		natsPub,
		emailService,
		sysLogger,
		service.BillingConfig{
			TrialDays:       cfg.Billing.TrialDays,
			InvoiceDueDays:  cfg.Billing.InvoiceDueDays,
			DefaultCurrency: cfg.Billing.DefaultCurrency,
		},
	)
	consumerService := service.NewConsumerService(pubSub, usageWarningTopic, uowFactory)

	// 4. Controllers
	return &Container{
		PaymentController: controller.NewPaymentController(billingService),
		PlanController:    controller.NewPlanController(billingService, validationService, featureAccessService),
		UsageController:   controller.NewUsageController(usageService, validationService, featureAccessService),
		BillingController: controller.NewBillingController(billingService),

		BillingService:       billingService,
		FeatureAccessService: featureAccessService,
		ConsumerService:      consumerService,
		Logger:               sysLogger,
	}
}
