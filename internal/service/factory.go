package service

import (
	"time"

	"classbot.app/tutor/core/config"
	"classbot.app/tutor/internal/store"
	"classbot.app/tutor/internal/tutor"
)

type Config struct {
	Tutor            tutor.Config
	MaxMessageLength int
	Passcodes        map[string]string
	SessionTTL       time.Duration
}

// ConfigFrom maps the environment configuration onto the service layer.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		Tutor: tutor.Config{
			ContextLimit:       cfg.Chat.ContextLimit,
			Threshold:          cfg.Compaction.Threshold,
			KeepRecent:         cfg.Compaction.KeepRecent,
			CarrySummary:       cfg.Compaction.CarrySummary,
			ChatTemperature:    cfg.Chat.Temperature,
			SummaryTemperature: cfg.Compaction.Temperature,
		},
		MaxMessageLength: cfg.Chat.MaxMessageLength,
		Passcodes:        cfg.Classroom.Passcodes,
		SessionTTL:       cfg.Classroom.SessionTTL,
	}
}

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	gateway  tutor.Gateway
	enqueuer TaskEnqueuer
	cfg      Config
}

func NewServices(stores *store.Stores, txRunner TxRunner, gateway tutor.Gateway, enqueuer TaskEnqueuer, cfg Config) *Services {
	return &Services{
		stores:   stores,
		txRunner: txRunner,
		gateway:  gateway,
		enqueuer: enqueuer,
		cfg:      cfg,
	}
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Sessions(), s.cfg.Passcodes, s.cfg.SessionTTL)
}

func (s *Services) Threads() ThreadService {
	return NewThreadService(s.stores.Threads())
}

func (s *Services) Messages() MessageService {
	return NewMessageService(s.Threads(), s.stores.Messages(), s.txRunner)
}

func (s *Services) Compactor() *tutor.Compactor {
	return tutor.NewCompactor(s.stores.Messages(), s.stores.Summaries(), s.gateway, s.cfg.Tutor)
}

func (s *Services) Chat() ChatService {
	return NewChatService(
		s.Threads(),
		tutor.NewAssembler(s.stores.Messages(), s.stores.Summaries()),
		s.gateway,
		s.Compactor(),
		s.enqueuer,
		s.txRunner,
		ChatConfig{
			ContextLimit:     s.cfg.Tutor.ContextLimit,
			Temperature:      s.cfg.Tutor.ChatTemperature,
			MaxMessageLength: s.cfg.MaxMessageLength,
		},
	)
}
