package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/example/kethai/internal/config"
	"github.com/example/kethai/internal/handlers"
	"github.com/example/kethai/internal/middleware"
	"github.com/example/kethai/internal/models"
	"github.com/example/kethai/internal/repository"
	"github.com/example/kethai/internal/services"
	"github.com/example/kethai/internal/uploader"
	"github.com/example/kethai/internal/utils"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, log zerolog.Logger) error {
	validate := utils.NewValidator()

	identities := repository.NewIdentityRepository(db)
	products := repository.NewProductRepository(db)

	sms := services.NewSparrowClient(cfg.SparrowAPIURL, cfg.SparrowToken, cfg.SMSSender, log)
	auth := services.NewAuthService(identities, sms, cfg.JWTSecret, cfg.TokenExpires, cfg.OtpExpires, log)
	chat := services.NewChatService(cfg.OpenAIKey, cfg.OpenAIModel)
	transcriber := services.NewTranscribeService(cfg.AssemblyAIKey, cfg.TranscribeLanguage)

	classifier, err := services.NewDiseaseService(cfg.DiseaseModelURL, cfg.ClassIndexPath)
	if err != nil {
		return err
	}

	productImages, err := uploader.NewImageUploader(cfg.ProductsDir)
	if err != nil {
		return err
	}
	userImages, err := uploader.NewImageUploader(cfg.UsersDir)
	if err != nil {
		return err
	}
	voices, err := uploader.NewAudioUploader(cfg.VoicesDir)
	if err != nil {
		return err
	}

	farmerAuth := handlers.NewAuthHandler(models.KindFarmer, auth, cfg, validate)
	userAuth := handlers.NewAuthHandler(models.KindUser, auth, cfg, validate)
	productHandler := handlers.NewProductHandler(products, identities, validate)
	uploadHandler := handlers.NewUploadHandler(productImages, userImages)
	aiHandler := handlers.NewAIHandler(voices, productImages, transcriber, classifier, chat)

	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to KethAI!"})
	})

	farmer := app.Group("/farmer")
	farmer.Post("/register", farmerAuth.Register)
	farmer.Post("/login", farmerAuth.Login)
	farmer.Post("/request-otp", farmerAuth.RequestOtp)
	farmer.Post("/verify-otp", farmerAuth.VerifyOtp)
	farmer.Get("/me", requireAuth, farmerAuth.Me)

	user := app.Group("/user")
	user.Post("/register", userAuth.Register)
	user.Post("/login", userAuth.Login)
	user.Post("/request-otp", userAuth.RequestOtp)
	user.Post("/verify-otp", userAuth.VerifyOtp)
	user.Get("/me", requireAuth, userAuth.Me)

	listings := app.Group("/products")
	listings.Get("/", productHandler.ListProducts)
	listings.Get("/:id", productHandler.GetProduct)
	listings.Post("/", requireAuth, productHandler.CreateProduct)
	listings.Put("/:id", requireAuth, productHandler.UpdateProduct)
	listings.Delete("/:id", requireAuth, productHandler.DeleteProduct)

	upload := app.Group("/upload")
	upload.Post("/product-image", uploadHandler.UploadProductImage)
	upload.Post("/user-images", uploadHandler.UploadUserImages)
	upload.Post("/voice", aiHandler.UploadVoice)

	app.Post("/diseases-detect", aiHandler.DiseasesDetect)
	app.Post("/chat", aiHandler.Chat)

	return nil
}
