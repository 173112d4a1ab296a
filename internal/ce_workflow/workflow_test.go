package ceworkflow

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/RotationHub/CECert/internal/ce"
	"github.com/RotationHub/CECert/internal/config"
	"github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"github.com/RotationHub/CECert/internal/queue"
	"github.com/RotationHub/CECert/internal/repository"
	"github.com/RotationHub/CECert/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	wf        *Workflow
	repo      *repository.Repository
	f         *testutil.Fixture
	renderer  *testutil.FakeRenderer
	storage   *testutil.FakeStorage
	publisher *testutil.FakePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := repository.NewRepository(db, testutil.NewLogger())

	e := &testEnv{
		repo:      repo,
		f:         f,
		renderer:  &testutil.FakeRenderer{},
		storage:   testutil.NewFakeStorage(),
		publisher: &testutil.FakePublisher{},
	}
	e.wf = New(Options{
		Repository: repo,
		Renderer:   e.renderer,
		Storage:    e.storage,
		Publisher:  e.publisher,
		Config:     config.CEConfig{VerifyBaseURL: "https://rotationhub.test/ce/verify/"},
		Logger:     testutil.NewLogger(),
		TmpDir:     t.TempDir(),
		Now:        func() time.Time { return testutil.Now },
	})
	return e
}

func actorOf(u model.User) ce.Actor {
	a := ce.Actor{ID: u.ID, Email: u.Email, Role: u.Role}
	if u.UniversityID != nil {
		a.UniversityID = *u.UniversityID
	}
	return a
}

func (e *testEnv) request(t *testing.T) *model.CeCertificate {
	t.Helper()
	res, err := e.wf.Request(context.Background(), actorOf(e.f.Preceptor), e.f.Application.ID)
	require.NoError(t, err)
	require.Equal(t, constant.CeStatusPending, res.Certificate.Status)
	return res.Certificate
}

func (e *testEnv) issued(t *testing.T) *model.CeCertificate {
	t.Helper()
	cert := e.request(t)
	res, err := e.wf.Approve(context.Background(), actorOf(e.f.Coordinator), cert.ID)
	require.NoError(t, err)
	require.True(t, res.Issued)
	return res.Certificate
}

func (e *testEnv) status(t *testing.T, id string) constant.CeStatus {
	t.Helper()
	cert, err := e.repo.CeCertificate.GetById(context.Background(), nil, id)
	require.NoError(t, err)
	return cert.Status
}

func auditActions(t *testing.T, e *testEnv, certID string) []constant.CeAuditAction {
	t.Helper()
	events, err := e.repo.CeAuditEvent.GetByCertificateId(context.Background(), nil, certID)
	require.NoError(t, err)
	var actions []constant.CeAuditAction
	for _, ev := range events {
		actions = append(actions, ev.Action)
	}
	return actions
}

func TestRequestApproveIssue(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cert := e.request(t)
	assert.Regexp(t, `^CE-[2-9A-HJ-NP-Z]{10}$`, cert.CertificateNumber)
	assert.Equal(t, 10.0, cert.ContactHours)
	assert.Equal(t, 1, cert.PolicyVersion)
	assert.Nil(t, cert.IssuedAt)

	res, err := e.wf.Approve(ctx, actorOf(e.f.Coordinator), cert.ID)
	require.NoError(t, err)
	assert.True(t, res.Issued)

	got := res.Certificate
	assert.Equal(t, constant.CeStatusIssued, got.Status)
	require.NotNil(t, got.IssuedAt)
	require.NotNil(t, got.CertificatePath)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, e.f.Coordinator.ID, *got.ApprovedBy)
	assert.Equal(t, "ce-certificates/"+e.f.University.ID+"/"+got.CertificateNumber+".pdf", *got.CertificatePath)
	assert.Contains(t, e.storage.Objects, *got.CertificatePath)

	require.Len(t, e.renderer.Rendered, 1)
	rendered := e.renderer.Rendered[0]
	assert.Equal(t, "Pat Preceptor", rendered.PreceptorName)
	assert.Equal(t, "Northfield University", rendered.UniversityName)
	assert.Equal(t, "Dana Whitfield", rendered.SignerName)
	assert.Equal(t, "https://rotationhub.test/ce/verify/"+got.VerificationUUID, rendered.VerifyURL)

	assert.ElementsMatch(t, []constant.CeAuditAction{constant.CeAuditRequested, constant.CeAuditApproved, constant.CeAuditIssued}, auditActions(t, e, cert.ID))

	detail, err := e.wf.Get(ctx, actorOf(e.f.Student), cert.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Snapshot)
	assert.True(t, ce.VerifySnapshot(detail.Snapshot))
	assert.Equal(t, 1, detail.Snapshot.PolicyVersion)

	var payload ce.SnapshotPayload
	require.NoError(t, json.Unmarshal(detail.Snapshot.Payload, &payload))
	assert.Equal(t, 80.0, payload.Eligibility.TotalApprovedHours)
	assert.Len(t, payload.HourLogs, 2)
	assert.Len(t, payload.Credentials, 1)

	mails := e.publisher.On(queue.QueueMail)
	require.Len(t, mails, 1)
	var mail queue.MailJobPayload
	require.NoError(t, json.Unmarshal(mails[0].Body, &mail))
	assert.Equal(t, e.f.Preceptor.Email, mail.ToEmail)

	verify, err := e.wf.Verify(ctx, got.VerificationUUID)
	require.NoError(t, err)
	assert.True(t, verify.Valid)
	assert.Equal(t, constant.CeStatusIssued, verify.Status)
	assert.Equal(t, "Family Medicine Rotation", verify.RotationTitle)
	assert.Equal(t, got.CertificateNumber, verify.CertificateNumber)
}

func TestRequest_MinimumHoursBoundary(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, e.repo.DB.Where("application_id = ?", e.f.Application.ID).Delete(&model.HourLog{}).Error)
	testutil.AddHourLog(t, e.repo.DB, e.f.Application.ID, 79.5, constant.HourLogStatusApproved)

	_, err := e.wf.Request(ctx, actorOf(e.f.Preceptor), e.f.Application.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ce.ErrNotEligible)

	var notEligible *ce.NotEligibleError
	require.True(t, errors.As(err, &notEligible))
	assert.Equal(t, []string{ce.CheckMinimumHours}, notEligible.Eligibility.FailedChecks())
	assert.Equal(t, 79.5, notEligible.Eligibility.TotalApprovedHours)

	testutil.AddHourLog(t, e.repo.DB, e.f.Application.ID, 0.5, constant.HourLogStatusApproved)
	res, err := e.wf.Request(ctx, actorOf(e.f.Preceptor), e.f.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.CeStatusPending, res.Certificate.Status)
}

func TestRequest_OnePerApplication(t *testing.T) {
	e := newTestEnv(t)
	e.request(t)

	_, err := e.wf.Request(context.Background(), actorOf(e.f.Coordinator), e.f.Application.ID)
	assert.ErrorIs(t, err, ce.ErrConflict)

	list, total, err := e.wf.List(context.Background(), actorOf(e.f.Admin), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

func TestRequest_Authorization(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	for _, u := range []model.User{e.f.OtherPrecept, e.f.Student, e.f.OtherCoord} {
		_, err := e.wf.Request(ctx, actorOf(u), e.f.Application.ID)
		assert.ErrorIs(t, err, ce.ErrUnauthorized, u.Email)
	}

	_, err := e.wf.Request(ctx, actorOf(e.f.Preceptor), uuid.NewString())
	assert.ErrorIs(t, err, ce.ErrNotFound)
}

func TestRequest_AutoApprove(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.repo.CePolicy.Upsert(ctx, nil, e.f.University.ID, nil, testutil.Now, func(p *model.UniversityCePolicy) error {
		p.ApprovalRequired = false
		return nil
	})
	require.NoError(t, err)

	res, err := e.wf.Request(ctx, actorOf(e.f.Preceptor), e.f.Application.ID)
	require.NoError(t, err)
	assert.True(t, res.Issued)
	assert.Equal(t, constant.CeStatusIssued, res.Certificate.Status)
	assert.Equal(t, 2, res.Certificate.PolicyVersion)
	// approved by the system
	assert.Nil(t, res.Certificate.ApprovedBy)
}

func TestApprove_OnlyFromPending(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	coordinator := actorOf(e.f.Coordinator)

	cert := e.request(t)
	_, err := e.wf.Reject(ctx, coordinator, cert.ID, "final evaluation is incomplete")
	require.NoError(t, err)

	_, err = e.wf.Approve(ctx, coordinator, cert.ID)
	assert.ErrorIs(t, err, ce.ErrInvalidState)
	assert.Equal(t, constant.CeStatusRejected, e.status(t, cert.ID))

	_, err = e.wf.Revoke(ctx, coordinator, cert.ID, "x")
	assert.ErrorIs(t, err, ce.ErrInvalidState)

	_, err = e.wf.Reject(ctx, coordinator, cert.ID, "again")
	assert.ErrorIs(t, err, ce.ErrInvalidState)
}

func TestApprove_Authorization(t *testing.T) {
	e := newTestEnv(t)
	cert := e.request(t)

	for _, u := range []model.User{e.f.OtherCoord, e.f.Preceptor, e.f.Student} {
		_, err := e.wf.Approve(context.Background(), actorOf(u), cert.ID)
		assert.ErrorIs(t, err, ce.ErrUnauthorized, u.Email)
	}
	assert.Equal(t, constant.CeStatusPending, e.status(t, cert.ID))

	res, err := e.wf.Approve(context.Background(), actorOf(e.f.Admin), cert.ID)
	require.NoError(t, err)
	assert.True(t, res.Issued)
}

func TestApprove_ReevaluatesEvidence(t *testing.T) {
	e := newTestEnv(t)
	cert := e.request(t)

	// an hour log is rejected after the request
	logs, err := e.repo.HourLog.GetByApplicationId(context.Background(), nil, e.f.Application.ID)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	require.NoError(t, e.repo.DB.Model(&model.HourLog{}).
		Where("id = ?", logs[0].ID).
		Update("status", constant.HourLogStatusRejected).Error)

	_, err = e.wf.Approve(context.Background(), actorOf(e.f.Coordinator), cert.ID)
	assert.ErrorIs(t, err, ce.ErrNotEligible)
	assert.Equal(t, constant.CeStatusPending, e.status(t, cert.ID))
}

func TestApprove_RenderFailureIsDeferred(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	cert := e.request(t)

	e.renderer.SetErr(errors.New("font missing"))
	res, err := e.wf.Approve(ctx, actorOf(e.f.Coordinator), cert.ID)
	require.NoError(t, err)
	assert.False(t, res.Issued)
	assert.Equal(t, constant.CeStatusApproved, res.Certificate.Status)
	assert.Nil(t, res.Certificate.CertificatePath)
	assert.Contains(t, auditActions(t, e, cert.ID), constant.CeAuditRenderFailed)

	jobs := e.publisher.On(queue.QueueCeCertificateRender)
	require.Len(t, jobs, 1)
	var job queue.CeRenderPayload
	require.NoError(t, json.Unmarshal(jobs[0].Body, &job))
	assert.Equal(t, cert.ID, job.CertificateID)

	handler := e.wf.RenderJobHandler()

	// still failing, the queue retries
	requeue, err := handler(ctx, job)
	assert.Error(t, err)
	assert.True(t, requeue)
	// consumer failures don't publish on their own
	assert.Len(t, e.publisher.On(queue.QueueCeCertificateRender), 1)

	e.renderer.SetErr(nil)
	requeue, err = handler(ctx, job)
	require.NoError(t, err)
	assert.False(t, requeue)
	assert.Equal(t, constant.CeStatusIssued, e.status(t, cert.ID))

	// a duplicate job for an issued certificate is a no-op
	requeue, err = handler(ctx, job)
	require.NoError(t, err)
	assert.False(t, requeue)
	assert.Len(t, e.renderer.Rendered, 1)
}

func TestRequeueStaleRenders(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	cert := e.request(t)

	e.renderer.SetErr(errors.New("storage down"))
	_, err := e.wf.Approve(ctx, actorOf(e.f.Coordinator), cert.ID)
	require.NoError(t, err)

	n, err := e.wf.RequeueStaleRenders(ctx, time.Hour, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = e.wf.RequeueStaleRenders(ctx, -time.Minute, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	// one from the approval, one from the reconcile run
	assert.Len(t, e.publisher.On(queue.QueueCeCertificateRender), 2)
}

func TestRejectAndRevoke_RequireReason(t *testing.T) {
	e := newTestEnv(t)
	cert := e.request(t)

	_, err := e.wf.Reject(context.Background(), actorOf(e.f.Coordinator), cert.ID, "   ")
	assert.ErrorIs(t, err, ce.ErrValidation)

	_, err = e.wf.Revoke(context.Background(), actorOf(e.f.Coordinator), cert.ID, "")
	assert.ErrorIs(t, err, ce.ErrValidation)
	assert.Equal(t, constant.CeStatusPending, e.status(t, cert.ID))
}

func TestRevoke(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	pending := e.request(t)
	_, err := e.wf.Revoke(ctx, actorOf(e.f.Coordinator), pending.ID, "duplicate")
	assert.ErrorIs(t, err, ce.ErrInvalidState)

	res, err := e.wf.Approve(ctx, actorOf(e.f.Coordinator), pending.ID)
	require.NoError(t, err)
	cert := res.Certificate

	_, err = e.wf.Revoke(ctx, actorOf(e.f.Preceptor), cert.ID, "mine")
	assert.ErrorIs(t, err, ce.ErrUnauthorized)

	revoked, err := e.wf.Revoke(ctx, actorOf(e.f.Coordinator), cert.ID, "  hours were logged twice ")
	require.NoError(t, err)
	assert.Equal(t, constant.CeStatusRevoked, revoked.Status)
	require.NotNil(t, revoked.RevocationReason)
	assert.Equal(t, "hours were logged twice", *revoked.RevocationReason)
	require.NotNil(t, revoked.RevokedBy)
	assert.Equal(t, e.f.Coordinator.ID, *revoked.RevokedBy)

	verify, err := e.wf.Verify(ctx, cert.VerificationUUID)
	require.NoError(t, err)
	assert.False(t, verify.Valid)
	assert.Equal(t, constant.CeStatusRevoked, verify.Status)

	_, err = e.wf.Approve(ctx, actorOf(e.f.Coordinator), cert.ID)
	assert.ErrorIs(t, err, ce.ErrInvalidState)

	_, _, _, err = e.wf.Download(ctx, actorOf(e.f.Preceptor), cert.ID)
	assert.ErrorIs(t, err, ce.ErrInvalidState)

	assert.Len(t, e.publisher.On(queue.QueueMail), 2)
}

func TestVerify_NotFound(t *testing.T) {
	e := newTestEnv(t)
	pending := e.request(t)

	for _, id := range []string{uuid.NewString(), "not-a-uuid", "", pending.VerificationUUID} {
		res, err := e.wf.Verify(context.Background(), id)
		assert.ErrorIs(t, err, ce.ErrNotFound, id)
		assert.Equal(t, VerifyResult{}, res)
	}
}

func TestEligibility(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	first, err := e.wf.Eligibility(ctx, actorOf(e.f.Student), e.f.Application.ID)
	require.NoError(t, err)
	assert.True(t, first.Eligible)
	assert.True(t, first.HasApplication)
	assert.True(t, first.HasEvaluation)
	assert.Equal(t, 80.0, first.TotalApprovedHours)
	assert.Equal(t, 10.0, first.ContactHours)

	second, err := e.wf.Eligibility(ctx, actorOf(e.f.Coordinator), e.f.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = e.wf.Eligibility(ctx, actorOf(e.f.OtherPrecept), e.f.Application.ID)
	assert.ErrorIs(t, err, ce.ErrUnauthorized)

	missing, err := e.wf.Eligibility(ctx, actorOf(e.f.Admin), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, missing.Eligible)
	assert.False(t, missing.HasApplication)
	assert.Contains(t, missing.FailedChecks(), ce.CheckApplicationStatus)

	_, err = e.wf.Eligibility(ctx, actorOf(e.f.Coordinator), uuid.NewString())
	assert.ErrorIs(t, err, ce.ErrNotFound)

	e.request(t)
	after, err := e.wf.Eligibility(ctx, actorOf(e.f.Preceptor), e.f.Application.ID)
	require.NoError(t, err)
	assert.False(t, after.Eligible)
	assert.True(t, after.HasCertificate)
}

func TestEligibility_AnnualCap(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.issued(t)

	_, err := e.repo.CePolicy.Upsert(ctx, nil, e.f.University.ID, nil, testutil.Now, func(p *model.UniversityCePolicy) error {
		p.MaxHoursPerYear = 15
		return nil
	})
	require.NoError(t, err)

	// a second rotation with the same preceptor
	app := e.f.Application
	app.BaseModel = model.BaseModel{}
	app.Student, app.Preceptor, app.University = nil, nil, nil
	_, err = e.repo.Application.Create(ctx, nil, &app)
	require.NoError(t, err)
	testutil.AddHourLog(t, e.repo.DB, app.ID, 80, constant.HourLogStatusApproved)
	testutil.AddEvaluation(t, e.repo.DB, app.ID, constant.EvaluationTypeFinal, true)

	result, err := e.wf.Eligibility(ctx, actorOf(e.f.Preceptor), app.ID)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Equal(t, []string{ce.CheckAnnualCap}, result.FailedChecks())
}

func TestPolicy(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	cert := e.request(t)

	input := ce.PolicyInput{
		OffersCe:                ptr(true),
		ContactHoursPerRotation: ptr(12.0),
		RequiresFinalEvaluation: ptr(true),
		RequiresMinimumHours:    ptr(true),
		MinimumHoursRequired:    ptr(120.0),
		ApprovalRequired:        ptr(true),
		SignerName:              ptr("New Signer"),
	}

	_, err := e.wf.UpsertPolicy(ctx, actorOf(e.f.OtherCoord), e.f.University.ID, input)
	assert.ErrorIs(t, err, ce.ErrUnauthorized)

	_, err = e.wf.UpsertPolicy(ctx, actorOf(e.f.Preceptor), e.f.University.ID, input)
	assert.ErrorIs(t, err, ce.ErrUnauthorized)

	invalid := input
	invalid.MinimumHoursRequired = ptr(0.0)
	_, err = e.wf.UpsertPolicy(ctx, actorOf(e.f.Coordinator), e.f.University.ID, invalid)
	assert.ErrorIs(t, err, ce.ErrValidation)

	_, err = e.wf.UpsertPolicy(ctx, actorOf(e.f.Admin), uuid.NewString(), input)
	assert.ErrorIs(t, err, ce.ErrNotFound)

	policy, err := e.wf.UpsertPolicy(ctx, actorOf(e.f.Coordinator), e.f.University.ID, input)
	require.NoError(t, err)
	assert.Equal(t, 2, policy.Version)

	current, err := e.wf.GetPolicy(ctx, actorOf(e.f.Preceptor), e.f.University.ID)
	require.NoError(t, err)
	assert.Equal(t, policy.ID, current.ID)

	// the pending certificate is still judged by the version it was requested under
	res, err := e.wf.Approve(ctx, actorOf(e.f.Coordinator), cert.ID)
	require.NoError(t, err)
	assert.True(t, res.Issued)
	assert.Equal(t, 1, res.Certificate.PolicyVersion)
	assert.Equal(t, "Dana Whitfield", e.renderer.Rendered[0].SignerName)
}

func TestGetPolicy_None(t *testing.T) {
	e := newTestEnv(t)

	university := model.University{Name: "No Policy U"}
	require.NoError(t, e.repo.DB.Create(&university).Error)

	policy, err := e.wf.GetPolicy(context.Background(), actorOf(e.f.Student), university.ID)
	require.NoError(t, err)
	assert.Nil(t, policy)
}

func TestList_Scoping(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.request(t)

	tests := []struct {
		name  string
		actor model.User
		want  int64
	}{
		{"admin", e.f.Admin, 1},
		{"coordinator", e.f.Coordinator, 1},
		{"other coordinator", e.f.OtherCoord, 0},
		{"preceptor", e.f.Preceptor, 1},
		{"other preceptor", e.f.OtherPrecept, 0},
		{"student", e.f.Student, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := e.wf.List(ctx, actorOf(tt.actor), ListParams{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
		})
	}

	_, _, err := e.wf.List(ctx, actorOf(e.f.Admin), ListParams{Status: "archived"})
	assert.ErrorIs(t, err, ce.ErrValidation)

	_, total, err := e.wf.List(ctx, actorOf(e.f.Admin), ListParams{Status: "issued"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestDownload(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	pending := e.request(t)
	_, _, _, err := e.wf.Download(ctx, actorOf(e.f.Preceptor), pending.ID)
	assert.ErrorIs(t, err, ce.ErrInvalidState)

	res, err := e.wf.Approve(ctx, actorOf(e.f.Coordinator), pending.ID)
	require.NoError(t, err)

	_, _, _, err = e.wf.Download(ctx, actorOf(e.f.Student), res.Certificate.ID)
	assert.ErrorIs(t, err, ce.ErrUnauthorized)

	reader, obj, cert, err := e.wf.Download(ctx, actorOf(e.f.Preceptor), res.Certificate.ID)
	require.NoError(t, err)
	defer reader.Close()

	b, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(b), cert.CertificateNumber)
	assert.Equal(t, *cert.CertificatePath, obj.Key)
}

func TestDownloadURL(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	pending := e.request(t)
	_, err := e.wf.DownloadURL(ctx, actorOf(e.f.Preceptor), pending.ID, time.Minute)
	assert.ErrorIs(t, err, ce.ErrInvalidState)

	res, err := e.wf.Approve(ctx, actorOf(e.f.Coordinator), pending.ID)
	require.NoError(t, err)

	_, err = e.wf.DownloadURL(ctx, actorOf(e.f.Student), res.Certificate.ID, time.Minute)
	assert.ErrorIs(t, err, ce.ErrUnauthorized)

	url, err := e.wf.DownloadURL(ctx, actorOf(e.f.Preceptor), res.Certificate.ID, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/cecert/"+*res.Certificate.CertificatePath, url)
}

func ptr[T any](v T) *T {
	return &v
}

func TestUpsertPolicy_PartialInputKeepsCurrentFields(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.wf.UpsertPolicy(ctx, actorOf(e.f.Coordinator), e.f.University.ID, ce.PolicyInput{})
	assert.ErrorIs(t, err, ce.ErrValidation)

	policy, err := e.wf.UpsertPolicy(ctx, actorOf(e.f.Coordinator), e.f.University.ID, ce.PolicyInput{
		OffersCe:                ptr(true),
		ContactHoursPerRotation: ptr(12.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, policy.Version)
	assert.Equal(t, 12.0, policy.ContactHoursPerRotation)
	assert.True(t, policy.ApprovalRequired)
	assert.True(t, policy.RequiresFinalEvaluation)
	assert.True(t, policy.RequiresMinimumHours)
	assert.Equal(t, 80.0, policy.MinimumHoursRequired)
	assert.Equal(t, "Dana Whitfield", policy.SignerName)

	// merged result is validated, not only the fields sent
	_, err = e.wf.UpsertPolicy(ctx, actorOf(e.f.Coordinator), e.f.University.ID, ce.PolicyInput{
		MinimumHoursRequired: ptr(0.0),
	})
	assert.ErrorIs(t, err, ce.ErrValidation)

	res, err := e.wf.Request(ctx, actorOf(e.f.Preceptor), e.f.Application.ID)
	require.NoError(t, err)
	assert.False(t, res.Issued)
	assert.Equal(t, constant.CeStatusPending, res.Certificate.Status)
	assert.Equal(t, 2, res.Certificate.PolicyVersion)
}
