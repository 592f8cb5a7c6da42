package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/dukapos/dukapos-api/internal/application/service"
	"github.com/dukapos/dukapos-api/internal/config"
	"github.com/dukapos/dukapos-api/internal/infrastructure/database"
	"github.com/dukapos/dukapos-api/internal/infrastructure/repository"
	"github.com/dukapos/dukapos-api/internal/presentation/http/handler"
	"github.com/dukapos/dukapos-api/internal/presentation/http/routes"
	"github.com/dukapos/dukapos-api/pkg/email"
	"github.com/dukapos/dukapos-api/pkg/filestore"
	"github.com/dukapos/dukapos-api/pkg/printer"
	"github.com/dukapos/dukapos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize document storage
	files, err := filestore.New(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to initialize document storage: %v", err)
	}

	// Initialize receipt printer
	ticketPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Transport,
		cfg.Printer.Address,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		ticketPrinter = printer.NewNullPrinter()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.Host,
		SMTPPort:     cfg.Email.Port,
		SMTPUsername: cfg.Email.Username,
		SMTPPassword: cfg.Email.Password,
		FromName:     cfg.App.Name,
		FromEmail:    cfg.Email.From,
	})

	// Initialize the event bus and built-in subscribers
	events := service.NewEventBus()
	service.RegisterSubscribers(events, service.SubscriberDeps{
		CustomerRepo: customerRepo,
		OrderRepo:    orderRepo,
		StoreRepo:    storeRepo,
		Email:        emailService,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager)
	storeService := service.NewStoreService(storeRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	customerService := service.NewCustomerService(customerRepo)
	numbering := service.NewDocumentNumberService(documentRepo, orderRepo)
	paymentService := service.NewPaymentService(paymentRepo, orderRepo, shiftRepo, events)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, productRepo, customerRepo, storeRepo, numbering, paymentService, events)
	shiftService := service.NewShiftService(shiftRepo, events)
	documentService := service.NewDocumentService(documentRepo, orderRepo, storeRepo, refundRepo, numbering, files, ticketPrinter, events, cfg.Printer.Width)
	refundService := service.NewRefundService(refundRepo, orderRepo, productRepo, customerRepo, paymentRepo, shiftRepo, events)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Store:    handler.NewStoreHandler(storeService),
		Product:  handler.NewProductHandler(productService),
		Category: handler.NewCategoryHandler(categoryService),
		Customer: handler.NewCustomerHandler(customerService),
		Order:    handler.NewOrderHandler(orderService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Shift:    handler.NewShiftHandler(shiftService),
		Document: handler.NewDocumentHandler(documentService),
		Refund:   handler.NewRefundHandler(refundService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		StoreRepo:       storeRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
