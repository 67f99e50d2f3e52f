package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/event-attendance-api/internal/broadcast"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
)

func studentScan(studentID uint) domain.AuthorizedScan {
	return domain.AuthorizedScan{
		SubjectID:   studentID,
		SubjectKind: domain.SubjectStudent,
		EventID:     eventE1,
		ActorID:     volunteerActive,
		ActorKind:   domain.ActorVolunteer,
	}
}

func TestLedgerService_SequentialScansAlternate(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 6; i++ {
		env.clock.Advance(time.Minute)
		_, err := env.ledger.RecordScan(testContext(t), studentScan(studentS1))
		require.NoError(t, err)
	}

	history, err := env.ledger.History(testContext(t), eventE1, studentS1)
	require.NoError(t, err)
	require.Len(t, history, 6)
	for i, record := range history {
		want := domain.CheckedIn
		if i%2 == 1 {
			want = domain.CheckedOut
		}
		assert.Equal(t, want, record.Status, "record %d", i)
	}

	presence, err := env.ledger.CurrentStatus(testContext(t), eventE1, studentS1)
	require.NoError(t, err)
	assert.Equal(t, domain.Absent, presence)
}

func TestLedgerService_ConcurrentScansOfOneStudentSerialize(t *testing.T) {
	env := newTestEnv(t)
	env.records.delay = 20 * time.Millisecond

	const scanners = 2
	var wg sync.WaitGroup
	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := env.ledger.RecordScan(testContext(t), studentScan(studentS1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := env.ledger.History(testContext(t), eventE1, studentS1)
	require.NoError(t, err)
	require.Len(t, history, scanners)
	assert.Equal(t, domain.CheckedIn, history[0].Status)
	assert.Equal(t, domain.CheckedOut, history[1].Status)
}

func TestLedgerService_ManyConcurrentScansStillAlternate(t *testing.T) {
	env := newTestEnv(t)
	env.records.delay = time.Millisecond

	const scanners = 12
	var wg sync.WaitGroup
	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := env.ledger.RecordScan(testContext(t), studentScan(studentS1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := env.ledger.History(testContext(t), eventE1, studentS1)
	require.NoError(t, err)
	require.Len(t, history, scanners)
	for i := 1; i < len(history); i++ {
		assert.NotEqual(t, history[i-1].Status, history[i].Status, "records %d and %d", i-1, i)
		assert.True(t, history[i].ScannedAt.After(history[i-1].ScannedAt))
	}
}

func TestLedgerService_StudentsAreIndependent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.RecordScan(testContext(t), studentScan(studentS1))
	require.NoError(t, err)

	record, err := env.ledger.RecordScan(testContext(t), studentScan(studentS2))
	require.NoError(t, err)
	assert.Equal(t, domain.CheckedIn, record.Status)
}

func TestLedgerService_RejectsScansItCannotRecord(t *testing.T) {
	env := newTestEnv(t)

	stall := studentScan(stallE1)
	stall.SubjectKind = domain.SubjectStall
	_, err := env.ledger.RecordScan(testContext(t), stall)
	require.ErrorIs(t, err, ErrNotStudentSubject)

	anonymous := studentScan(studentS1)
	anonymous.ActorID = 0
	_, err = env.ledger.RecordScan(testContext(t), anonymous)
	requireRejection(t, err, domain.ReasonUnknownActor)

	assert.Zero(t, env.records.count())
}

func TestLedgerService_PublishesAfterAppend(t *testing.T) {
	env := newTestEnv(t)

	record, err := env.ledger.RecordScan(testContext(t), studentScan(studentS1))
	require.NoError(t, err)

	require.Equal(t, []broadcast.NoticeType{broadcast.NoticeAttendanceRecorded}, env.publisher.types())
	notice := env.publisher.notices[0]
	assert.Equal(t, record.ID, notice.RecordID)
	assert.Equal(t, studentS1, notice.StudentID)
	assert.Equal(t, domain.CheckedIn, notice.Status)
}
