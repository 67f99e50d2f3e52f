package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
)

func TestIssuanceService_RegenerateStallToken(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t, eventE1)

	first, err := env.issuance.RegenerateStallToken(testContext(t), stallE1)
	require.NoError(t, err)
	assert.Equal(t, stallE1, first.SubjectID)
	assert.Equal(t, domain.SubjectStall, first.Kind)
	assert.Equal(t, eventE1, first.EventID)

	stored, err := env.stalls.FindByID(testContext(t), stallE1)
	require.NoError(t, err)
	assert.Equal(t, first.Token, stored.Token)
	require.NotNil(t, stored.TokenIssuedAt)

	second, err := env.issuance.RegenerateStallToken(testContext(t), stallE1)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	// The abandoned token still parses; only the stored value changes.
	claims, err := env.codec.Parse(first.Token)
	require.NoError(t, err)
	assert.Equal(t, eventE1, claims.EventID)
}

func TestIssuanceService_RegenerateStallTokenErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.issuance.RegenerateStallToken(testContext(t), stallE1)
	require.ErrorIs(t, err, ErrNoActiveEvent)

	env.activate(t, eventE1)

	_, err = env.issuance.RegenerateStallToken(testContext(t), 999)
	require.ErrorIs(t, err, ErrStallNotFound)

	_, err = env.issuance.RegenerateStallToken(testContext(t), stallE2)
	require.ErrorIs(t, err, ErrStallNotInActiveEvent)
}

func TestIssuanceService_IssueStudentToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.issuance.IssueStudentToken(testContext(t), studentS1)
	require.ErrorIs(t, err, ErrNoActiveEvent)

	env.activate(t, eventE2)

	issued, err := env.issuance.IssueStudentToken(testContext(t), studentS1)
	require.NoError(t, err)
	assert.Equal(t, eventE2, issued.EventID)
	assert.Equal(t, domain.SubjectStudent, issued.Kind)
	assert.Equal(t, env.clock.Now().Add(env.issuance.conf.StudentTTL), issued.ExpiresAt)

	for _, id := range []uint{999, adminUser} {
		_, err = env.issuance.IssueStudentToken(testContext(t), id)
		assert.ErrorIs(t, err, ErrStudentNotFound)
	}
}
