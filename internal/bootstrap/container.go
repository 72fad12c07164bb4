package bootstrap

import (
	"log"
	"time"

	"ai-sitebuilder-be/internal/config"
	"ai-sitebuilder-be/internal/controller"
	"ai-sitebuilder-be/internal/pkg/logger"
	"ai-sitebuilder-be/internal/repository/unitofwork"
	"ai-sitebuilder-be/internal/service"
	"ai-sitebuilder-be/pkg/agent"
	"ai-sitebuilder-be/pkg/events"
	"ai-sitebuilder-be/pkg/llm/factory"
	"ai-sitebuilder-be/pkg/transcript"

	pktNats "ai-sitebuilder-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisher := events.NewBusPublisher(pubSub)

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Conversation Core
	classifier := agent.NewLLMClassifier(llmProvider, sysLogger)
	dispatcher := agent.NewDispatcher(
		classifier,
		agent.NewComponentHandler(uowFactory, classifier, publisher, sysLogger),
		agent.NewDesignHandler(uowFactory, classifier, publisher, sysLogger),
		agent.NewClarifyHandler(uowFactory, classifier, sysLogger),
		sysLogger,
	)

	// 5. Optional Infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	var transcripts *transcript.Store
	if cfg.App.RedisURL != "" && cfg.App.TranscriptTTLHours > 0 {
		transcripts, err = transcript.NewStore(
			cfg.App.RedisURL,
			time.Duration(cfg.App.TranscriptTTLHours)*time.Hour,
		)
		if err != nil {
			log.Printf("[WARN] Failed to connect to Redis transcript store: %v", err)
			transcripts = nil
		}
	}

	// 6. Services
	assistantService := service.NewAssistantService(dispatcher, transcripts, sysLogger)
	consumerService := service.NewConsumerService(pubSub, natsPub, sysLogger)

	// 7. Controllers
	assistantController := controller.NewAssistantController(assistantService)

	return &Container{
		AssistantController: assistantController,
		ConsumerService:     consumerService,
		Logger:              sysLogger,
	}
}
