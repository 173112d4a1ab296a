package ce

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/RotationHub/CECert/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnapshot(t *testing.T) {
	policy := testPolicy()
	ev := testEvidence(50, 30)
	ev.Application.Preceptor = &model.User{FirstName: "Ada"}
	eligibility := Evaluate(policy, ev)
	capturedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	credentials := []model.PreceptorCredential{{CredentialType: "NP", LicenseNumber: "NP-123", PreceptorID: "pre-1"}}

	snapshot, err := BuildSnapshot("cert-1", policy, eligibility, ev, credentials, capturedAt)
	require.NoError(t, err)

	assert.Equal(t, "cert-1", snapshot.CertificateID)
	assert.Equal(t, 1, snapshot.PolicyVersion)
	assert.True(t, VerifySnapshot(snapshot))
	assert.Contains(t, snapshot.PayloadHash, "sha256:")

	var payload SnapshotPayload
	require.NoError(t, json.Unmarshal(snapshot.Payload, &payload))
	assert.Equal(t, 80.0, payload.Eligibility.TotalApprovedHours)
	assert.Len(t, payload.HourLogs, 2)
	assert.Equal(t, "NP-123", payload.Credentials[0].LicenseNumber)
	assert.Nil(t, payload.Application.Preceptor)
	// the caller's application is left untouched
	assert.NotNil(t, ev.Application.Preceptor)

	again, err := BuildSnapshot("cert-1", policy, eligibility, ev, credentials, capturedAt)
	require.NoError(t, err)
	assert.Equal(t, snapshot.PayloadHash, again.PayloadHash)
}

func TestVerifySnapshotDetectsTampering(t *testing.T) {
	snapshot, err := BuildSnapshot("cert-1", testPolicy(), Eligibility{}, testEvidence(80), nil, time.Now())
	require.NoError(t, err)

	snapshot.Payload = []byte(`{"certificate_id":"cert-2"}`)
	assert.False(t, VerifySnapshot(snapshot))
}

func TestValidatePolicy(t *testing.T) {
	ok := model.UniversityCePolicy{OffersCe: true, ContactHoursPerRotation: 10, MaxHoursPerYear: 40, RequiresMinimumHours: true, MinimumHoursRequired: 80}
	assert.NoError(t, ValidatePolicy(&ok))

	missingMinimum := ok
	missingMinimum.MinimumHoursRequired = 0
	assert.ErrorIs(t, ValidatePolicy(&missingMinimum), ErrValidation)

	noHours := ok
	noHours.ContactHoursPerRotation = 0
	assert.ErrorIs(t, ValidatePolicy(&noHours), ErrValidation)

	overCap := ok
	overCap.ContactHoursPerRotation = 50
	assert.ErrorIs(t, ValidatePolicy(&overCap), ErrValidation)

	notOffered := model.UniversityCePolicy{}
	assert.NoError(t, ValidatePolicy(&notOffered))
}

func TestPolicyInputApplyMergesSetFields(t *testing.T) {
	current := model.UniversityCePolicy{
		OffersCe:                true,
		ContactHoursPerRotation: 10,
		RequiresFinalEvaluation: true,
		RequiresMinimumHours:    true,
		MinimumHoursRequired:    80,
		ApprovalRequired:        true,
		SignerName:              "Dana Whitfield",
	}

	hours := 12.0
	next := current
	require.NoError(t, PolicyInput{ContactHoursPerRotation: &hours}.Apply(&next))
	assert.Equal(t, 12.0, next.ContactHoursPerRotation)
	assert.True(t, next.ApprovalRequired)
	assert.True(t, next.RequiresFinalEvaluation)
	assert.Equal(t, 80.0, next.MinimumHoursRequired)
	assert.Equal(t, "Dana Whitfield", next.SignerName)

	off := false
	next = current
	require.NoError(t, PolicyInput{ApprovalRequired: &off}.Apply(&next))
	assert.False(t, next.ApprovalRequired)

	zero := 0.0
	next = current
	assert.ErrorIs(t, PolicyInput{MinimumHoursRequired: &zero}.Apply(&next), ErrValidation)

	assert.True(t, PolicyInput{}.IsEmpty())
	assert.False(t, PolicyInput{ApprovalRequired: &off}.IsEmpty())
}
