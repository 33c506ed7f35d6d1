package baseline

import (
	"context"
	"github.com/roylee0704/gron"
	"invitebot/internal/baseline/interfaces"
	"invitebot/internal/providers"
	"invitebot/internal/services"
	"invitebot/internal/structures"
	"sync"
	"time"
)

// Scheduler periodically re-reads the invites of every tracked guild so the
// baseline picks up codes created or deleted while no join happened.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.AttributionServiceInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	interval := s.config.Attribution.RefreshInterval
	if interval <= 0 {
		s.logger.Infof(providers.TypeApp, "Baseline refresh disabled")
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), s.Refresh)
	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Baseline refresh every %s", interval)
}

// Refresh runs one refresh pass. Overlapping passes are serialised.
func (s *Scheduler) Refresh() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	timeout := s.config.Attribution.RefreshInterval
	if timeout <= 0 {
		timeout = s.config.Discord.RequestTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := s.service.RefreshAll(ctx); err != nil {
		s.logger.Warnf(providers.TypeApp, "Baseline refresh incomplete: %v", err)
		return
	}
	s.logger.Debugf(providers.TypeApp, "Baseline refreshed in %s", time.Since(start))
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.AttributionServiceInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
	}
}
