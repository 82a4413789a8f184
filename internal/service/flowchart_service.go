package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/config"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/persistence"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/repository"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/workflow"
)

// FlowchartService loads workflow reference data and renders it as
// flowchart text, with a short-lived Redis cache in front of the builder.
// Data-access failures degrade to a placeholder graph; a diagram request
// never errors except for an unknown ticket.
type FlowchartService struct {
	transitions repository.TransitionRepository
	statuses    repository.StatusRepository
	flowTypes   repository.FlowTypeRepository
	tickets     repository.TicketRepository
	cache       *persistence.Redis
	cfg         config.FlowchartConfig
	logger      *zap.Logger
}

// FlowchartDependencies bundles collaborators for the flowchart service.
type FlowchartDependencies struct {
	TransitionRepo repository.TransitionRepository
	StatusRepo     repository.StatusRepository
	FlowTypeRepo   repository.FlowTypeRepository
	TicketRepo     repository.TicketRepository
	Cache          *persistence.Redis
	Config         config.FlowchartConfig
}

// NewFlowchartService constructs the service.
func NewFlowchartService(deps FlowchartDependencies, logger *zap.Logger) *FlowchartService {
	return &FlowchartService{
		transitions: deps.TransitionRepo,
		statuses:    deps.StatusRepo,
		flowTypes:   deps.FlowTypeRepo,
		tickets:     deps.TicketRepo,
		cache:       deps.Cache,
		cfg:         deps.Config,
		logger:      logger,
	}
}

// RenderFlow renders the workflow diagram, optionally scoped to one flow
// type.
func (s *FlowchartService) RenderFlow(ctx context.Context, flowTypeID *int64, direction string) string {
	key := cacheKey(flowTypeID, nil, domain.LockNone, direction)
	if cached, ok := s.cachedGraph(ctx, key); ok {
		return cached
	}
	graph := s.buildGraph(ctx, workflow.GraphSpec{
		FlowTypeFilter: flowTypeID,
		Direction:      s.direction(direction),
	})
	s.storeGraph(ctx, key, graph)
	return graph
}

// RenderForTicket renders the ticket's flow with its current status
// highlighted, lock-aware.
func (s *FlowchartService) RenderForTicket(ctx context.Context, ticketID int64, direction string) (string, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return "", err
	}
	key := cacheKey(&ticket.FlowTypeID, &ticket.StatusID, ticket.LockKind, direction)
	if cached, ok := s.cachedGraph(ctx, key); ok {
		return cached, nil
	}
	graph := s.buildGraph(ctx, workflow.GraphSpec{
		FlowTypeFilter:    &ticket.FlowTypeID,
		Direction:         s.direction(direction),
		HighlightStatusID: &ticket.StatusID,
		LockKind:          ticket.LockKind,
	})
	s.storeGraph(ctx, key, graph)
	return graph, nil
}

func (s *FlowchartService) buildGraph(ctx context.Context, spec workflow.GraphSpec) string {
	var err error
	if spec.FlowTypeFilter != nil {
		spec.Transitions, err = s.transitions.ListByFlowType(ctx, *spec.FlowTypeFilter)
	} else {
		spec.Transitions, err = s.transitions.ListAll(ctx)
	}
	if err != nil {
		// an unreachable store renders the same placeholder as an empty
		// workflow
		s.logger.Warn("transition load failed", zap.Error(err))
		spec.Transitions = nil
	}
	if spec.Statuses, err = s.statuses.ListAll(ctx); err != nil {
		s.logger.Warn("status load failed", zap.Error(err))
		spec.Statuses = nil
	}
	if spec.FlowTypes, err = s.flowTypes.ListAll(ctx); err != nil {
		s.logger.Warn("flow type load failed", zap.Error(err))
		spec.FlowTypes = nil
	}
	return workflow.BuildFlowchart(spec)
}

func (s *FlowchartService) cachedGraph(ctx context.Context, key string) (string, bool) {
	if s.cache == nil || s.cfg.CacheTTL() <= 0 {
		return "", false
	}
	return s.cache.GetString(ctx, key)
}

func (s *FlowchartService) storeGraph(ctx context.Context, key, graph string) {
	if s.cache == nil || s.cfg.CacheTTL() <= 0 {
		return
	}
	if err := s.cache.SetString(ctx, key, graph, s.cfg.CacheTTL()); err != nil {
		s.logger.Debug("flowchart cache write failed", zap.Error(err))
	}
}

func (s *FlowchartService) direction(direction string) string {
	if direction == "" {
		return s.cfg.DefaultDirection
	}
	return direction
}

func cacheKey(flowTypeID, highlightID *int64, lock domain.LockKind, direction string) string {
	ft, hl := "all", "none"
	if flowTypeID != nil {
		ft = fmt.Sprintf("%d", *flowTypeID)
	}
	if highlightID != nil {
		hl = fmt.Sprintf("%d", *highlightID)
	}
	return fmt.Sprintf("flowchart:ft=%s:hl=%s:lock=%s:dir=%s", ft, hl, lock, direction)
}
