package main

import (
	"log"

	api "crmsync-backend/cmd/api"
	authdomain "crmsync-backend/internal/auth/domain"
	authRepo "crmsync-backend/internal/auth/repository"
	authUsecase "crmsync-backend/internal/auth/usecase"
	contactdomain "crmsync-backend/internal/contact/domain"
	contactRepo "crmsync-backend/internal/contact/repository"
	contactUsecase "crmsync-backend/internal/contact/usecase"
	emaildomain "crmsync-backend/internal/email/domain"
	emailRepo "crmsync-backend/internal/email/repository"
	emailUsecase "crmsync-backend/internal/email/usecase"
	"crmsync-backend/pkg/config"
	"crmsync-backend/pkg/database"
	"crmsync-backend/pkg/gmail"
	"crmsync-backend/pkg/googleauth"
	"crmsync-backend/pkg/imapmail"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&authdomain.Credential{},
		&authdomain.Organization{},
		&authdomain.OrganizationMember{},
		&emaildomain.Email{},
		&emaildomain.SyncCheckpoint{},
		&emaildomain.SyncSettings{},
		&contactdomain.Company{},
		&contactdomain.Contact{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	credentialRepository := authRepo.NewCredentialRepository(db)
	orgRepository := authRepo.NewOrganizationRepository(db)
	emailRepository := emailRepo.NewEmailRepository(db)
	checkpointRepository := emailRepo.NewCheckpointRepository(db)
	settingsRepository := emailRepo.NewSettingsRepository(db)
	contactRepository := contactRepo.NewContactRepository(db)
	companyRepository := contactRepo.NewCompanyRepository(db)

	// Token manager and mail provider
	tokenManager := googleauth.NewManager(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI, credentialRepository)
	var mailProvider emaildomain.MailProvider = gmail.NewProvider()
	if cfg.MailProvider == config.MailProviderIMAP {
		log.Printf("Using IMAP mail provider at %s", cfg.IMAPServer)
		mailProvider = imapmail.NewProvider(cfg.IMAPServer, cfg.IMAPUsername)
	}

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepository, orgRepository, tokenManager, cfg)
	syncUc := emailUsecase.NewSyncUsecase(
		mailProvider,
		tokenManager,
		userRepository,
		credentialRepository,
		orgRepository,
		emailRepository,
		checkpointRepository,
		settingsRepository,
		cfg.SyncBatchSize,
	)
	wipeUc := emailUsecase.NewWipeUsecase(
		orgRepository,
		emailRepository,
		checkpointRepository,
		settingsRepository,
		contactRepository,
		companyRepository,
	)
	contactUc := contactUsecase.NewContactUsecase(emailRepository, contactRepository, companyRepository)

	// Initialize HTTP handler
	handler := api.NewHandler(authUc, syncUc, wipeUc, contactUc, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
