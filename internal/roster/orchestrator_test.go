package roster

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roster/internal/client"
	"roster/internal/errors"
)

type orchestratorFixture struct {
	api      *MockAPI
	session  *client.Session
	rec      *Reconciler
	notices  *Notices
	orch     *Orchestrator
	redirect *int32
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	var redirects int32
	session, err := client.NewSession(nil, func() { atomic.AddInt32(&redirects, 1) })
	require.NoError(t, err)
	require.NoError(t, session.Begin("tok"))

	rec := NewReconciler()
	rec.Load(scenarioMaster(), scenarioProjects())
	api := new(MockAPI)
	notices := NewNotices(time.Hour, nil)

	return &orchestratorFixture{
		api:      api,
		session:  session,
		rec:      rec,
		notices:  notices,
		orch:     NewOrchestrator(api, session, rec, notices, testLogger()),
		redirect: &redirects,
	}
}

func TestOrchestrator_SaveAck(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.rec.EditTag("E2", strPtr("T9")))

	f.api.On("UpdateEmployee", mock.Anything, "tok", "E2",
		mock.MatchedBy(func(tag *string) bool { return tag != nil && *tag == "T9" }),
		(*int64)(nil),
	).Return(nil).Once()

	require.NoError(t, f.orch.Save(context.Background(), "E2"))

	row, err := f.rec.Row("E2")
	require.NoError(t, err)
	assert.Equal(t, Clean, row.State)
	assert.Equal(t, "T9", *row.TagID)

	notice, ok := f.notices.Current()
	require.True(t, ok)
	assert.Equal(t, "Updated E2", notice.Text)
	assert.False(t, notice.Error)
	f.api.AssertExpectations(t)
}

func TestOrchestrator_SaveFailureKeepsDraft(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.rec.EditProject("E1", intPtr(7)))

	f.api.On("UpdateEmployee", mock.Anything, "tok", "E1", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: E1: boom", errors.ErrRowSaveFailed)).Once()

	err := f.orch.Save(context.Background(), "E1")
	assert.ErrorIs(t, err, errors.ErrRowSaveFailed)

	row, _ := f.rec.Row("E1")
	assert.Equal(t, Dirty, row.State)
	assert.Equal(t, int64(7), *row.ProjectID)

	notice, ok := f.notices.Current()
	require.True(t, ok)
	assert.Equal(t, "Update failed", notice.Text)
	assert.True(t, notice.Error)
	assert.True(t, f.session.Authenticated())
}

func TestOrchestrator_SaveUnauthorizedTearsDown(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.rec.EditTag("E1", strPtr("X")))

	f.api.On("UpdateEmployee", mock.Anything, "tok", "E1", mock.Anything, mock.Anything).
		Return(errors.ErrUnauthorized).Once()

	err := f.orch.Save(context.Background(), "E1")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	assert.False(t, f.session.Authenticated())
	assert.Empty(t, f.rec.Visible())
	assert.Empty(t, f.rec.Pending())
	assert.Equal(t, int32(1), atomic.LoadInt32(f.redirect))
	_, ok := f.notices.Current()
	assert.False(t, ok)
}

func TestOrchestrator_ConcurrentSavesAreIndependent(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.rec.EditTag("E1", strPtr("A")))
	require.NoError(t, f.rec.EditTag("E2", strPtr("B")))

	// both requests must be outstanding before either answers
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	wait := func(mock.Arguments) {
		started <- struct{}{}
		<-release
	}
	f.api.On("UpdateEmployee", mock.Anything, "tok", "E1", mock.Anything, mock.Anything).
		Run(wait).Return(nil).Once()
	f.api.On("UpdateEmployee", mock.Anything, "tok", "E2", mock.Anything, mock.Anything).
		Run(wait).Return(errors.ErrRowSaveFailed).Once()

	ctx := context.Background()
	doneA := f.orch.SaveAsync(ctx, "E1")
	doneB := f.orch.SaveAsync(ctx, "E2")
	<-started
	<-started

	// filter changes are not blocked by outstanding saves
	f.rec.SetPSCFilter("E2")
	assert.Equal(t, []string{"E2"}, pscs(f.rec.Visible()))
	f.rec.ClearFilters()

	rowA, _ := f.rec.Row("E1")
	rowB, _ := f.rec.Row("E2")
	assert.Equal(t, Saving, rowA.State)
	assert.Equal(t, Saving, rowB.State)

	close(release)
	assert.NoError(t, <-doneA)
	assert.ErrorIs(t, <-doneB, errors.ErrRowSaveFailed)
	f.orch.Wait()

	rowA, _ = f.rec.Row("E1")
	assert.Equal(t, Clean, rowA.State)
	assert.Equal(t, "A", *rowA.TagID)

	rowB, _ = f.rec.Row("E2")
	assert.Equal(t, Dirty, rowB.State)
	assert.Equal(t, "B", *rowB.TagID)
}

func TestOrchestrator_SecondSaveOfSameRowIsRejected(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.rec.EditTag("E1", strPtr("A")))

	started := make(chan struct{})
	release := make(chan struct{})
	f.api.On("UpdateEmployee", mock.Anything, "tok", "E1", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return(nil).Once()

	done := f.orch.SaveAsync(context.Background(), "E1")
	<-started

	assert.ErrorIs(t, f.orch.Save(context.Background(), "E1"), ErrSaveInFlight)

	close(release)
	assert.NoError(t, <-done)
	f.api.AssertNumberOfCalls(t, "UpdateEmployee", 1)
}

func TestOrchestrator_StaleAckPublishesNothing(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.rec.EditTag("E1", strPtr("A")))

	f.api.On("UpdateEmployee", mock.Anything, "tok", "E1", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			// a reload lands while the request is out
			f.rec.Load(scenarioMaster(), scenarioProjects())
		}).Return(nil).Once()

	require.NoError(t, f.orch.Save(context.Background(), "E1"))

	_, ok := f.notices.Current()
	assert.False(t, ok)
	row, err := f.rec.Row("E1")
	require.NoError(t, err)
	assert.Equal(t, Clean, row.State)
	assert.Equal(t, "T1", *row.TagID)
}
