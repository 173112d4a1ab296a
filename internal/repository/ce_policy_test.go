package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/RotationHub/CECert/internal/model"
	"github.com/RotationHub/CECert/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCePolicy_UpsertCreatesNewVersion(t *testing.T) {
	repo, f := setup(t)
	ctx := context.Background()
	now := testutil.Now

	current, err := repo.CePolicy.GetCurrent(ctx, nil, f.University.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 1, current.Version)

	updated, err := repo.CePolicy.Upsert(ctx, nil, f.University.ID, &f.Coordinator.ID, now, func(p *model.UniversityCePolicy) error {
		p.ContactHoursPerRotation = 12
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, 12.0, updated.ContactHoursPerRotation)
	// untouched fields carry over from the previous version
	assert.Equal(t, 80.0, updated.MinimumHoursRequired)
	assert.True(t, updated.OffersCe)

	current, err = repo.CePolicy.GetCurrent(ctx, nil, f.University.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, current.ID)
	assert.Nil(t, current.EffectiveTo)

	previous, err := repo.CePolicy.GetByVersion(ctx, nil, f.University.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, previous.EffectiveTo)
	assert.Equal(t, 10.0, previous.ContactHoursPerRotation)
}

func TestCePolicy_NoPolicy(t *testing.T) {
	repo, _ := setup(t)

	university := model.University{Name: "No Policy U"}
	require.NoError(t, repo.DB.Create(&university).Error)

	policy, err := repo.CePolicy.GetCurrent(context.Background(), nil, university.ID)
	require.NoError(t, err)
	assert.Nil(t, policy)

	created, err := repo.CePolicy.Upsert(context.Background(), nil, university.ID, nil, testutil.Now, func(p *model.UniversityCePolicy) error {
		p.OffersCe = true
		p.ContactHoursPerRotation = 5
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)
	assert.True(t, created.ApprovalRequired)
}

func TestCePolicy_UpsertAbortsOnApplyError(t *testing.T) {
	repo, f := setup(t)
	ctx := context.Background()

	_, err := repo.CePolicy.Upsert(ctx, nil, f.University.ID, nil, testutil.Now, func(p *model.UniversityCePolicy) error {
		p.ContactHoursPerRotation = 0
		return errors.New("invalid")
	})
	require.Error(t, err)

	current, err := repo.CePolicy.GetCurrent(ctx, nil, f.University.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Version)
	assert.Nil(t, current.EffectiveTo)
	assert.Equal(t, 10.0, current.ContactHoursPerRotation)
}
