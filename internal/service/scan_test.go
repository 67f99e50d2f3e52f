package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
)

func TestScanService_EventSwitchScenario(t *testing.T) {
	env := newTestEnv(t)

	env.activate(t, eventE1)
	tokenE1 := env.studentToken(t, studentS1)

	first := env.scan(t, tokenE1)
	assert.Equal(t, domain.ScanCheckedIn, first.Status)
	assert.Equal(t, eventE1, first.EventID)

	env.activate(t, eventE2)

	_, err := env.scans.Submit(testContext(t), tokenE1, volunteerActive, domain.ActorVolunteer)
	rejection := requireRejection(t, err, domain.ReasonStaleEventScope)
	assert.Equal(t, eventE1, rejection.ClaimedEventID)
	assert.Equal(t, eventE2, rejection.ActiveEventID)

	tokenE2 := env.studentToken(t, studentS1)

	second := env.scan(t, tokenE2)
	assert.Equal(t, domain.ScanCheckedIn, second.Status)
	assert.Equal(t, eventE2, second.EventID)

	third := env.scan(t, tokenE2)
	assert.Equal(t, domain.ScanCheckedOut, third.Status)
	require.NotNil(t, third.Record)
	require.NotNil(t, third.Record.CheckOutAt)
	assert.Equal(t, second.Record.CheckInAt, third.Record.CheckInAt)

	presence, err := env.ledger.CurrentStatus(testContext(t), eventE1, studentS1)
	require.NoError(t, err)
	assert.Equal(t, domain.Present, presence, "the first event's session is untouched")

	presence, err = env.ledger.CurrentStatus(testContext(t), eventE2, studentS1)
	require.NoError(t, err)
	assert.Equal(t, domain.Absent, presence)
}

func TestScanService_UnknownActorWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t, eventE1)
	token := env.studentToken(t, studentS1)

	_, err := env.scans.Submit(testContext(t), token, 404, domain.ActorVolunteer)
	requireRejection(t, err, domain.ReasonUnknownActor)

	_, err = env.scans.Submit(testContext(t), token, volunteerActive, domain.ActorUser)
	requireRejection(t, err, domain.ReasonUnknownActor)

	assert.Zero(t, env.records.count())
	assert.Empty(t, env.publisher.types()[1:], "only the activation was announced")
}

func TestScanService_StallScanIsVerifiedWithoutLedgerWrite(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t, eventE1)
	token := env.stallToken(t, stallE1)

	result := env.scan(t, token)
	assert.Equal(t, domain.ScanStallVerified, result.Status)
	assert.Equal(t, domain.SubjectStall, result.SubjectKind)
	assert.Equal(t, stallE1, result.SubjectID)
	assert.Nil(t, result.Record)
	assert.Zero(t, env.records.count())
}

func TestScanService_AdminCanScan(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t, eventE1)
	token := env.studentToken(t, studentS1)

	result, err := env.scans.Submit(testContext(t), token, adminUser, domain.ActorUser)
	require.NoError(t, err)
	require.NotNil(t, result.Record)
	assert.Equal(t, adminUser, result.Record.ScannedByID)
	assert.Equal(t, domain.ActorUser, result.Record.ScannedByKind)
}
