package router

import (
	"log"
	"time"

	"amburide/config"
	"amburide/internal/domain"
	"amburide/internal/handler"
	"amburide/internal/middleware"
	"amburide/internal/repository"
	"amburide/internal/service"
	"amburide/internal/ws"
	"amburide/pkg/cloudinary"
	"amburide/pkg/mailer"
	"amburide/pkg/payment"
	"amburide/pkg/sms"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	driverRepo := repository.NewDriverRepository(db)
	userRepo := repository.NewUserRepository(db)
	rideRepo := repository.NewRideRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	rideHub := ws.NewRideHub()

	// External providers
	verifier := sms.NewTwilioVerifier(cfg.Twilio.BaseURL, cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.VerifyServiceSID)
	mail := mailer.NewNylasMailer(cfg.Nylas.BaseURL, cfg.Nylas.APIKey, cfg.Nylas.GrantID)
	var provider payment.Provider
	if cfg.Razorpay.KeyID != "" {
		provider = payment.NewRazorpayProvider(cfg.Razorpay.BaseURL, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	} else {
		log.Printf("[RAZORPAY] No key configured, using stub order provider")
		provider = &payment.StubProvider{}
	}

	// Services
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(mail, fcmSvc)
	settlementSvc := service.NewSettlementService(driverRepo, rideRepo, notifSvc)
	rideSvc := service.NewRideService(rideRepo, userRepo, settlementSvc, notifSvc)
	authSvc := service.NewAuthService(cfg, verifier, notifSvc, driverRepo, userRepo, adminRepo)

	// Handlers
	driverHandler := handler.NewDriverHandler(authSvc, driverRepo)
	userHandler := handler.NewUserHandler(authSvc, userRepo)
	rideHandler := handler.NewRideHandler(rideSvc, rideRepo, rideHub)
	walletHandler := handler.NewWalletHandler(cfg, settlementSvc, provider)
	adminHandler := handler.NewAdminHandler(authSvc, driverRepo, rideRepo, userRepo)
	uploadHandler := handler.NewUploadHandler(cloud, driverRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	driverMw := middleware.RequireRole(domain.RoleDriver)
	userMw := middleware.RequireRole(domain.RoleUser)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		driver := api.Group("/driver")
		{
			driver.POST("/send-otp", driverHandler.SendOTP)
			driver.POST("/login", driverHandler.Login)
			driver.POST("/verify-otp", driverHandler.VerifyOTP)
			driver.POST("/send-email-otp", driverHandler.SendEmailOTP)
			driver.POST("/registration", driverHandler.Register)
			driver.GET("/me", authMw, driverMw, driverHandler.Me)
			driver.PATCH("/update-status", authMw, driverMw, driverHandler.UpdateStatus)
			driver.POST("/logout", authMw, driverMw, driverHandler.Logout)
			driver.POST("/push-token", authMw, driverMw, driverHandler.SavePushToken)
			driver.POST("/upload-license", authMw, driverMw, uploadHandler.UploadLicense)
			driver.GET("/get-drivers-by-id", authMw, driverHandler.GetByIDs)
			driver.GET("/dispatch/:id", authMw, driverHandler.GetForDispatch)

			driver.POST("/new-ride", authMw, driverMw, rideHandler.Create)
			driver.PATCH("/update-ride-status", authMw, driverMw, rideHandler.UpdateStatus)
			driver.POST("/ride/complete", authMw, driverMw, rideHandler.Complete)
			driver.GET("/my-rides", authMw, driverMw, rideHandler.ListMine)

			driver.POST("/wallet/create-order", authMw, driverMw, walletHandler.CreateOrder)
			driver.POST("/add-to-wallet", authMw, walletHandler.TopUp)
			driver.POST("/wallet/credit", authMw, walletHandler.Credit)
		}

		user := api.Group("/user")
		{
			user.POST("/registration", userHandler.Register)
			user.POST("/verify-otp", userHandler.VerifyOTP)
			user.GET("/me", authMw, userMw, userHandler.Me)
			user.POST("/send-email-otp", authMw, userMw, userHandler.RequestEmailOTP)
			user.POST("/verify-email", authMw, userMw, userHandler.VerifyEmail)
			user.POST("/push-token", authMw, userMw, userHandler.SavePushToken)
			user.GET("/my-rides", authMw, userMw, rideHandler.ListForUser)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)
			admin.GET("/drivers", authMw, adminMw, adminHandler.ListDrivers)
			admin.GET("/users", authMw, adminMw, adminHandler.ListUsers)
			admin.GET("/rides", authMw, adminMw, adminHandler.ListRides)
		}
	}

	r.GET("/ws/rides", ws.UpgradeRideWS(&cfg.JWT, rideHub))

	return r
}
