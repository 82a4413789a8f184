package workflow

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/repository"
)

// AllowedTransition is one legal next move for a ticket, enriched with the
// destination status display data when the status exists in the catalog.
type AllowedTransition struct {
	NextStatusID      int64
	TargetOwnerRoleID int64
	ButtonLabel       string
	EdgeKind          domain.EdgeKind
	NextStatusName    string
	NextStatusColor   string
}

// TransitionSet is the engine result. Degraded marks a set that is empty
// because the underlying store failed rather than because no transitions
// matched; callers render both identically.
type TransitionSet struct {
	Items    []AllowedTransition
	Degraded bool
}

// Engine answers "what can happen next" for a ticket. The state machine
// lives in the transition table, not in code: administrators change the
// workflow by editing rows.
type Engine struct {
	transitions repository.TransitionRepository
	statuses    repository.StatusRepository
	logger      *zap.Logger
}

// NewEngine constructs the engine.
func NewEngine(transitions repository.TransitionRepository, statuses repository.StatusRepository, logger *zap.Logger) *Engine {
	return &Engine{transitions: transitions, statuses: statuses, logger: logger}
}

// AllowedTransitions returns every transition whose
// (current_status, flow_type, allowed_role) exactly equals the inputs,
// ordered ascending by destination status id. An unmatched tuple yields an
// empty set; so does any store failure. The engine never returns an error.
func (e *Engine) AllowedTransitions(ctx context.Context, currentStatusID, flowTypeID, roleID int64) TransitionSet {
	rows, err := e.transitions.ListForTuple(ctx, currentStatusID, flowTypeID, roleID)
	if err != nil {
		e.logger.Warn("transition lookup failed",
			zap.Int64("current_status_id", currentStatusID),
			zap.Int64("flow_type_id", flowTypeID),
			zap.Int64("role_id", roleID),
			zap.Error(err))
		return TransitionSet{Degraded: true}
	}
	if len(rows) == 0 {
		return TransitionSet{}
	}

	catalog, err := e.statuses.ListAll(ctx)
	if err != nil {
		e.logger.Warn("status catalog lookup failed", zap.Error(err))
		return TransitionSet{Degraded: true}
	}
	byID := make(map[int64]domain.Status, len(catalog))
	for _, status := range catalog {
		byID[status.ID] = status
	}

	items := make([]AllowedTransition, 0, len(rows))
	for _, t := range rows {
		item := AllowedTransition{
			NextStatusID:      t.NextStatusID,
			TargetOwnerRoleID: t.TargetOwnerRoleID,
			ButtonLabel:       t.ButtonLabel,
			EdgeKind:          t.EdgeKind,
		}
		// left-style join: a destination missing from the catalog keeps
		// its name and color empty instead of failing
		if status, ok := byID[t.NextStatusID]; ok {
			item.NextStatusName = status.Name
			if status.ColorCode != nil {
				item.NextStatusColor = *status.ColorCode
			}
		}
		items = append(items, item)
	}

	// button order is a stable contract even when destinations tie
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].NextStatusID < items[j].NextStatusID
	})
	return TransitionSet{Items: items}
}

// Find returns the allowed transition targeting nextStatusID, if any.
func (s TransitionSet) Find(nextStatusID int64) (AllowedTransition, bool) {
	for _, item := range s.Items {
		if item.NextStatusID == nextStatusID {
			return item, true
		}
	}
	return AllowedTransition{}, false
}
