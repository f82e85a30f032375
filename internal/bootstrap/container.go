package bootstrap

import (
	"context"
	"log"
	"time"

	"nia-sales-be/internal/audio"
	"nia-sales-be/internal/config"
	"nia-sales-be/internal/controller"
	"nia-sales-be/internal/convo"
	"nia-sales-be/internal/handler"
	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/pkg/mailer"
	"nia-sales-be/internal/repository/memory"
	"nia-sales-be/internal/repository/unitofwork"
	"nia-sales-be/internal/service"
	"nia-sales-be/internal/websocket"
	"nia-sales-be/pkg/audiostore"
	"nia-sales-be/pkg/events"
	"nia-sales-be/pkg/llm/factory"
	pktNats "nia-sales-be/pkg/nats"
	"nia-sales-be/pkg/speech"
	speechGoogle "nia-sales-be/pkg/speech/google"
	"nia-sales-be/pkg/summary"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const deliveryTopic = "CHAT_DELIVERY"

type Container struct {
	// Controllers
	SessionController            controller.ISessionController
	VoiceConfigurationController controller.IVoiceConfigurationController

	// Background Services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	RealtimeHandler *handler.RealtimeHandler
	WebSocketHub    *websocket.Hub
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
	deliveryPublisher := service.NewDeliveryPublisherService(pubSub, deliveryTopic)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Collaborators
	speechTimeout := time.Duration(cfg.Speech.RequestTimeout) * time.Second
	speechProvider := speechGoogle.NewProvider(cfg.Speech.GoogleAPIKey, speechTimeout)

	retryCfg := speech.DefaultRetryConfig()
	if cfg.Speech.STTMaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.Speech.STTMaxRetries
	}

	audioStore, err := audiostore.NewLocalStore(cfg.Audio.StoragePath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize audio storage at %s: %v", cfg.Audio.StoragePath, err)
	}

	summarizerProvider, err := factory.NewLLMProvider(
		cfg.Ai.SummarizerProvider,
		cfg.Ai.SummarizerModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		// The generator falls back deterministically without a provider.
		log.Printf("[WARN] Summarizer provider unavailable, using fallback only: %v", err)
		summarizerProvider = nil
	} else {
		log.Printf("[INFO] Using Summarizer Provider: %s (%s)", cfg.Ai.SummarizerProvider, cfg.Ai.SummarizerModel)
	}
	summaryGenerator := summary.NewGenerator(summarizerProvider, speechTimeout)

	// 4. Per-Session State
	registry := memory.NewSessionRegistry()
	buffers := audio.NewBufferManager()
	contexts := convo.NewManager()

	// 5. Services
	voiceConfigService := service.NewVoiceConfigurationService(uowFactory, sysLogger)
	sessionService := service.NewSessionService(
		uowFactory, registry, buffers, contexts,
		summaryGenerator, audioStore, natsPub, emailService, sysLogger,
	)
	transcriptionService := service.NewTranscriptionService(
		uowFactory, registry, buffers, contexts,
		speechProvider, audioStore, voiceConfigService,
		retryCfg, speechTimeout, cfg.Audio.DrainMaxBytes, sysLogger,
	)
	synthesisService := service.NewSynthesisService(
		uowFactory, registry, contexts,
		speechProvider, audioStore, voiceConfigService,
		speechTimeout, sysLogger,
	)
	chatService := service.NewChatService(uowFactory, registry, contexts, deliveryPublisher, summaryGenerator, sysLogger)
	bridgeService := service.NewBridgeService(uowFactory, registry, sessionService, natsPub, sysLogger)
	consumerService := service.NewConsumerService(pubSub, deliveryTopic, uowFactory, sysLogger)

	crmEventService := service.NewCrmEventService(registry, sessionService, sysLogger)
	if natsSub != nil {
		if err := natsSub.Subscribe(events.TypeUserDeactivated, "nia-sales-engine", crmEventService.HandleUserDeactivated); err != nil {
			log.Printf("[WARN] Failed to subscribe to %s events: %v", events.TypeUserDeactivated, err)
		}
	}

	// 6. Realtime Handlers
	voiceHandler := websocket.NewVoiceHandler(wsHub, sessionService, transcriptionService, synthesisService, buffers, wsLogger)
	chatHandler := websocket.NewChatHandler(wsHub, sessionService, chatService, bridgeService, wsLogger)
	realtimeHandler := handler.NewRealtimeHandler(voiceHandler, chatHandler, wsLogger)

	return &Container{
		SessionController:            controller.NewSessionController(sessionService),
		VoiceConfigurationController: controller.NewVoiceConfigurationController(voiceConfigService),
		ConsumerService:              consumerService,
		RealtimeHandler:              realtimeHandler,
		WebSocketHub:                 wsHub,
	}
}
