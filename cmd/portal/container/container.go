package container

import (
	"github.com/aviaunion/portal/cmd/portal/service"
	"github.com/aviaunion/portal/common/bootstrap"
	"github.com/aviaunion/portal/common/ratelimit"
	"github.com/aviaunion/portal/common/repository"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Repositories
	MemberRepo     *repository.MemberRepository
	EventRepo      *repository.EventRepository
	DelegationRepo *repository.DelegationRepository
	NewsRepo       *repository.NewsRepository
	RosterRepo     *repository.RosterRepository
	ResourceRepo   *repository.ResourceRepository
	SupportRepo    *repository.SupportRepository

	// Services
	MemberService       *service.MemberService
	EventService        *service.EventService
	DelegationService   *service.DelegationService
	AdjudicationService *service.AdjudicationService
	NewsService         *service.NewsService
	RosterService       *service.RosterService
	ResourceService     *service.ResourceService
	SupportService      *service.SupportService
	Sweeper             *service.Sweeper

	// RateLimiter guards member-facing write endpoints; nil when disabled
	RateLimiter *ratelimit.Limiter
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config

	// Initialize repositories
	memberRepo := repository.NewMemberRepository(components.DB)
	eventRepo := repository.NewEventRepository(components.DB)
	delegationRepo := repository.NewDelegationRepository(components.DB, cfg.Delegation.TxRetries)
	newsRepo := repository.NewNewsRepository(components.DB)
	rosterRepo := repository.NewRosterRepository(components.DB)
	resourceRepo := repository.NewResourceRepository(components.DB)
	supportRepo := repository.NewSupportRepository(components.DB)

	// Initialize services (bottom-up: dependencies first)
	memberService := service.NewMemberService(memberRepo, components.Notifier, components.Logger)
	eventService := service.NewEventService(eventRepo, components.Logger)
	delegationService := service.NewDelegationService(
		delegationRepo,
		memberRepo,
		eventRepo,
		delegationRepo,
		components.Notifier,
		components.Logger,
		cfg.Delegation.WindowLead,
	)
	adjudicationService := service.NewAdjudicationService(delegationRepo, memberRepo, components.Logger)
	newsService := service.NewNewsService(newsRepo, components.Notifier, components.Logger)
	rosterService := service.NewRosterService(rosterRepo, components.Logger)
	resourceService := service.NewResourceService(resourceRepo, components.Blob, components.Logger)
	supportService := service.NewSupportService(supportRepo, components.Notifier, components.Logger)

	sweeper := service.NewSweeper(delegationService, components.Logger, cfg.Delegation.SweepInterval)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled && components.Redis != nil {
		limiter = ratelimit.NewLimiter(components.Redis.GetUnderlying(), components.Logger)
	}

	return &Container{
		Components:          components,
		MemberRepo:          memberRepo,
		EventRepo:           eventRepo,
		DelegationRepo:      delegationRepo,
		NewsRepo:            newsRepo,
		RosterRepo:          rosterRepo,
		ResourceRepo:        resourceRepo,
		SupportRepo:         supportRepo,
		MemberService:       memberService,
		EventService:        eventService,
		DelegationService:   delegationService,
		AdjudicationService: adjudicationService,
		NewsService:         newsService,
		RosterService:       rosterService,
		ResourceService:     resourceService,
		SupportService:      supportService,
		Sweeper:             sweeper,
		RateLimiter:         limiter,
	}, nil
}
