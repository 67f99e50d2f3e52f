package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/event-attendance-api/internal/config"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/lock"
	"github.com/vietanh2810/event-attendance-api/internal/pkg/scantoken"
)

const (
	eventE1      uint = 1
	eventE2      uint = 2
	eventRetired uint = 3

	stallE1 uint = 10
	stallE2 uint = 20

	studentS1       uint = 100
	studentS2       uint = 101
	adminUser       uint = 200
	stallOwnerUser  uint = 201
	disabledAdmin   uint = 202
	volunteerActive uint = 1
	volunteerIdle   uint = 2
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(d)
}

type testEnv struct {
	clock       *testClock
	events      *fakeEvents
	stalls      *fakeStalls
	users       *fakeUsers
	records     *fakeLedger
	submissions *fakeSubmissions
	publisher   *recordingPublisher
	codec       *scantoken.Codec

	registry  *RegistryService
	issuance  *IssuanceService
	authority *ScanAuthority
	ledger    *LedgerService
	scans     *ScanService
	gate      *EligibilityService
	feedback  *FeedbackService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &testClock{t: time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)}
	codec, err := scantoken.NewCodec([]byte("an-event-scoped-signing-key-of-32+"), scantoken.WithClock(clock.Now))
	require.NoError(t, err)

	retiredAt := clock.Now().Add(-24 * time.Hour)
	env := &testEnv{
		clock: clock,
		events: newFakeEvents(
			domain.Event{ID: eventE1, Name: "Spring fair", AllowFeedback: true, AllowVoting: true},
			domain.Event{ID: eventE2, Name: "Summer fair", AllowFeedback: true},
			domain.Event{ID: eventRetired, Name: "Winter fair", RetiredAt: &retiredAt},
		),
		stalls: newFakeStalls(
			domain.Stall{ID: stallE1, Name: "Robotics", EventID: eventE1},
			domain.Stall{ID: stallE2, Name: "Chemistry", EventID: eventE2},
		),
		users:       newFakeUsers(),
		records:     &fakeLedger{},
		submissions: &fakeSubmissions{},
		publisher:   &recordingPublisher{},
		codec:       codec,
	}

	env.users.users[studentS1] = domain.User{ID: studentS1, Name: "S1", Role: domain.RoleStudent, Active: true}
	env.users.users[studentS2] = domain.User{ID: studentS2, Name: "S2", Role: domain.RoleStudent, Active: true}
	env.users.users[adminUser] = domain.User{ID: adminUser, Name: "Admin", Role: domain.RoleAdmin, Active: true}
	env.users.users[stallOwnerUser] = domain.User{ID: stallOwnerUser, Name: "Owner", Role: domain.RoleStallOwner, Active: true}
	env.users.users[disabledAdmin] = domain.User{ID: disabledAdmin, Name: "Former admin", Role: domain.RoleAdmin}
	env.users.volunteers[volunteerActive] = domain.Volunteer{ID: volunteerActive, Name: "V1", Active: true}
	env.users.volunteers[volunteerIdle] = domain.Volunteer{ID: volunteerIdle, Name: "V2"}

	tokenConf := &config.TokenConfig{StallTTL: 30 * 24 * time.Hour, StudentTTL: 15 * time.Minute}

	env.registry = NewRegistryService(env.events, env.publisher)
	env.registry.now = clock.Now
	env.issuance = NewIssuanceService(tokenConf, env.registry, codec, env.stalls, env.users)
	env.authority = NewScanAuthority(codec, env.registry, env.stalls, env.users)
	env.ledger = NewLedgerService(env.records, lock.NewMemoryLocker(), env.publisher)
	env.ledger.now = clock.Now
	env.scans = NewScanService(env.authority, env.ledger)
	env.gate = NewEligibilityService(env.registry, env.stalls, env.ledger, env.submissions)
	env.feedback = NewFeedbackService(env.authority, env.registry, env.stalls, env.gate, env.submissions)

	return env
}

func (e *testEnv) activate(t *testing.T, eventID uint) {
	t.Helper()

	_, err := e.registry.Activate(testContext(t), eventID)
	require.NoError(t, err)
}

func (e *testEnv) studentToken(t *testing.T, studentID uint) string {
	t.Helper()

	issued, err := e.issuance.IssueStudentToken(testContext(t), studentID)
	require.NoError(t, err)
	return issued.Token
}

func (e *testEnv) stallToken(t *testing.T, stallID uint) string {
	t.Helper()

	issued, err := e.issuance.RegenerateStallToken(testContext(t), stallID)
	require.NoError(t, err)
	return issued.Token
}

// scan submits a token scanned by the active volunteer, one second after the
// previous scan.
func (e *testEnv) scan(t *testing.T, token string) domain.ScanResult {
	t.Helper()

	e.clock.Advance(time.Second)
	result, err := e.scans.Submit(testContext(t), token, volunteerActive, domain.ActorVolunteer)
	require.NoError(t, err)
	return result
}

func requireRejection(t *testing.T, err error, reason domain.RejectReason) *domain.ScanRejection {
	t.Helper()

	var rejection *domain.ScanRejection
	require.ErrorAs(t, err, &rejection)
	require.Equal(t, reason, rejection.Reason)
	return rejection
}

func requireDenial(t *testing.T, err error, reason domain.DenialReason) {
	t.Helper()

	var denial *domain.EligibilityError
	require.ErrorAs(t, err, &denial)
	require.Equal(t, reason, denial.Reason)
}
