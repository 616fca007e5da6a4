// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/campaignforge/campaignforge-go/internal/application/services"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/ai"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/caching/interfaces"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/caching/stores"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/database"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/email"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/performance"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/persistence/campaigns"
	"github.com/campaignforge/campaignforge-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	ConversationService   *services.ConversationService
	IntentService         *services.IntentService
	RecommendationService *services.RecommendationService
	CampaignService       *services.CampaignService
	AdviceService         *services.AdviceService
	AuthService           *services.AuthService

	// Infrastructure
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
	SessionStore interfaces.SessionStore
	Database     *database.Database
	Generator    ai.Generator
	EmailService email.Service
}

// NewContainer creates and wires all singleton services. The email service
// is optional and left nil when no Resend key is configured.
func NewContainer() (*Container, error) {
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracker := performance.NewTracker(1000)

	generator, err := ai.NewOpenAIGenerator(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	db, err := database.New(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open campaign database: %w", err)
	}

	sessionStore := stores.NewSessionsStore(logger)
	campaignRepo := campaigns.NewRepository(db.Conn, logger)

	intentService := services.NewIntentService(generator, logger)
	recommendationService := services.NewRecommendationService(generator, logger, tracker)
	conversationService := services.NewConversationService(
		sessionStore, intentService, recommendationService, generator, logger, tracker)
	campaignService := services.NewCampaignService(sessionStore, campaignRepo, logger)
	adviceService := services.NewAdviceService(recommendationService)

	authService, err := services.NewAuthService(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	var emailService email.Service
	if config.EmailEnabled {
		emailService, err = email.NewService(logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create email service: %w", err)
		}
	}

	return &Container{
		ConversationService:   conversationService,
		IntentService:         intentService,
		RecommendationService: recommendationService,
		CampaignService:       campaignService,
		AdviceService:         adviceService,
		AuthService:           authService,

		Logger:       logger,
		PerfTracker:  tracker,
		SessionStore: sessionStore,
		Database:     db,
		Generator:    generator,
		EmailService: emailService,
	}, nil
}

// Close releases held infrastructure resources.
func (c *Container) Close() error {
	if c.Database != nil {
		return c.Database.Close()
	}
	return nil
}
