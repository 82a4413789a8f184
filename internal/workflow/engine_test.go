package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/workflow"
)

type fakeTransitionRepo struct {
	transitions []domain.Transition
	err         error
}

func (f *fakeTransitionRepo) ListForTuple(_ context.Context, currentStatusID, flowTypeID, roleID int64) ([]domain.Transition, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []domain.Transition
	for _, t := range f.transitions {
		if t.CurrentStatusID == currentStatusID && t.FlowTypeID == flowTypeID && t.AllowedRoleID == roleID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (f *fakeTransitionRepo) ListAll(context.Context) ([]domain.Transition, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.transitions, nil
}

func (f *fakeTransitionRepo) ListByFlowType(_ context.Context, flowTypeID int64) ([]domain.Transition, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []domain.Transition
	for _, t := range f.transitions {
		if t.FlowTypeID == flowTypeID {
			result = append(result, t)
		}
	}
	return result, nil
}

type fakeStatusRepo struct {
	statuses []domain.Status
	err      error
}

func (f *fakeStatusRepo) ListAll(context.Context) ([]domain.Status, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.statuses, nil
}

func (f *fakeStatusRepo) GetByID(_ context.Context, id int64) (*domain.Status, error) {
	for i := range f.statuses {
		if f.statuses[i].ID == id {
			return &f.statuses[i], nil
		}
	}
	return nil, errors.New("not found")
}

func strPtr(s string) *string { return &s }

func newEngine(transitions []domain.Transition, statuses []domain.Status) *workflow.Engine {
	return workflow.NewEngine(
		&fakeTransitionRepo{transitions: transitions},
		&fakeStatusRepo{statuses: statuses},
		zap.NewNop(),
	)
}

func TestAllowedTransitionsExactRoleGating(t *testing.T) {
	transitions := []domain.Transition{
		{ID: 1, FlowTypeID: 1, CurrentStatusID: 10, NextStatusID: 20, AllowedRoleID: 1, TargetOwnerRoleID: 2, ButtonLabel: "Close"},
		{ID: 2, FlowTypeID: 1, CurrentStatusID: 10, NextStatusID: 30, AllowedRoleID: 2, TargetOwnerRoleID: 2, ButtonLabel: "Escalate"},
	}
	engine := newEngine(transitions, nil)
	ctx := context.Background()

	set := engine.AllowedTransitions(ctx, 10, 1, 1)
	require.Len(t, set.Items, 1)
	assert.Equal(t, int64(20), set.Items[0].NextStatusID)
	assert.Equal(t, "Close", set.Items[0].ButtonLabel)

	// any other role excludes the transition entirely
	set = engine.AllowedTransitions(ctx, 10, 1, 99)
	assert.Empty(t, set.Items)
	assert.False(t, set.Degraded)
}

func TestAllowedTransitionsNoWildcardAcrossFlowType(t *testing.T) {
	transitions := []domain.Transition{
		{ID: 1, FlowTypeID: 1, CurrentStatusID: 10, NextStatusID: 20, AllowedRoleID: 1},
	}
	engine := newEngine(transitions, nil)

	set := engine.AllowedTransitions(context.Background(), 10, 2, 1)
	assert.Empty(t, set.Items)
}

func TestAllowedTransitionsOrderedByNextStatus(t *testing.T) {
	transitions := []domain.Transition{
		{ID: 1, FlowTypeID: 1, CurrentStatusID: 10, NextStatusID: 40, AllowedRoleID: 1, ButtonLabel: "Reject"},
		{ID: 2, FlowTypeID: 1, CurrentStatusID: 10, NextStatusID: 20, AllowedRoleID: 1, ButtonLabel: "Approve"},
		{ID: 3, FlowTypeID: 1, CurrentStatusID: 10, NextStatusID: 30, AllowedRoleID: 1, ButtonLabel: "Hold"},
		{ID: 4, FlowTypeID: 1, CurrentStatusID: 10, NextStatusID: 30, AllowedRoleID: 1, ButtonLabel: "Hold again"},
	}
	engine := newEngine(transitions, nil)

	set := engine.AllowedTransitions(context.Background(), 10, 1, 1)
	require.Len(t, set.Items, 4)
	assert.Equal(t, []int64{20, 30, 30, 40}, []int64{
		set.Items[0].NextStatusID,
		set.Items[1].NextStatusID,
		set.Items[2].NextStatusID,
		set.Items[3].NextStatusID,
	})
	// ties keep their relative order
	assert.Equal(t, "Hold", set.Items[1].ButtonLabel)
	assert.Equal(t, "Hold again", set.Items[2].ButtonLabel)
}

func TestAllowedTransitionsDegradesOnStoreFailure(t *testing.T) {
	engine := workflow.NewEngine(
		&fakeTransitionRepo{err: errors.New("connection refused")},
		&fakeStatusRepo{},
		zap.NewNop(),
	)

	set := engine.AllowedTransitions(context.Background(), 10, 1, 1)
	assert.Empty(t, set.Items)
	assert.True(t, set.Degraded)
}

func TestAllowedTransitionsDegradesOnCatalogFailure(t *testing.T) {
	engine := workflow.NewEngine(
		&fakeTransitionRepo{transitions: []domain.Transition{
			{ID: 1, FlowTypeID: 1, CurrentStatusID: 10, NextStatusID: 20, AllowedRoleID: 1},
		}},
		&fakeStatusRepo{err: errors.New("connection refused")},
		zap.NewNop(),
	)

	set := engine.AllowedTransitions(context.Background(), 10, 1, 1)
	assert.Empty(t, set.Items)
	assert.True(t, set.Degraded)
}

func TestAllowedTransitionsEnrichment(t *testing.T) {
	transitions := []domain.Transition{
		{ID: 1, FlowTypeID: 1, CurrentStatusID: 10, NextStatusID: 20, AllowedRoleID: 1, TargetOwnerRoleID: 3, ButtonLabel: "Close"},
		{ID: 2, FlowTypeID: 1, CurrentStatusID: 10, NextStatusID: 77, AllowedRoleID: 1, ButtonLabel: "Archive"},
	}
	statuses := []domain.Status{
		{ID: 10, Name: "Open", ColorCode: strPtr("#fff")},
		{ID: 20, Name: "Done", ColorCode: strPtr("#0f0")},
	}
	engine := newEngine(transitions, statuses)

	set := engine.AllowedTransitions(context.Background(), 10, 1, 1)
	require.Len(t, set.Items, 2)
	assert.Equal(t, "Done", set.Items[0].NextStatusName)
	assert.Equal(t, "#0f0", set.Items[0].NextStatusColor)
	assert.Equal(t, int64(3), set.Items[0].TargetOwnerRoleID)
	// destination missing from the catalog keeps empty display fields
	assert.Empty(t, set.Items[1].NextStatusName)
	assert.Empty(t, set.Items[1].NextStatusColor)
}

func TestTransitionSetFind(t *testing.T) {
	set := workflow.TransitionSet{Items: []workflow.AllowedTransition{
		{NextStatusID: 20, ButtonLabel: "Close"},
	}}

	item, ok := set.Find(20)
	require.True(t, ok)
	assert.Equal(t, "Close", item.ButtonLabel)

	_, ok = set.Find(30)
	assert.False(t, ok)
}
