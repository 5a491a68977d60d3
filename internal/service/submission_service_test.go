package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSubmissionRepo is an in-memory SubmissionRepository keyed by
// reference number, mirroring the store contract: Create refuses an
// existing key, FindByReference returns ErrNotFound for a missing one.
type fakeSubmissionRepo struct {
	store        map[string]*model.Submission
	existsAlways bool
	failCreate   error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{store: make(map[string]*model.Submission)}
}

func (f *fakeSubmissionRepo) Create(_ context.Context, submission *model.Submission) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	if _, ok := f.store[submission.ReferenceNumber]; ok {
		return repository.ErrDuplicateReference
	}
	submission.CreatedAt = time.Now()
	f.store[submission.ReferenceNumber] = submission
	return nil
}

func (f *fakeSubmissionRepo) ExistsByReference(_ context.Context, ref string) (bool, error) {
	if f.existsAlways {
		return true, nil
	}
	_, ok := f.store[ref]
	return ok, nil
}

func (f *fakeSubmissionRepo) FindByReference(_ context.Context, ref string) (*model.Submission, error) {
	sub, ok := f.store[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *sub
	copied.Coupons = append([]model.Coupon(nil), sub.Coupons...)
	return &copied, nil
}

func (f *fakeSubmissionRepo) Update(_ context.Context, submission *model.Submission) error {
	f.store[submission.ReferenceNumber] = submission
	return nil
}

func (f *fakeSubmissionRepo) UpdateCouponStatuses(_ context.Context, ref, status string) error {
	sub, ok := f.store[ref]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range sub.Coupons {
		sub.Coupons[i].Status = status
	}
	return nil
}

func (f *fakeSubmissionRepo) List(_ context.Context, filter repository.SubmissionListFilter) ([]model.Submission, int64, error) {
	var out []model.Submission
	for _, sub := range f.store {
		if filter.Status != "" && sub.Status != filter.Status {
			continue
		}
		if filter.Type != "" && sub.Type != filter.Type {
			continue
		}
		out = append(out, *sub)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSubmissionRepo) CountGroupedByStatus(_ context.Context) ([]repository.StatusCount, error) {
	counts := make(map[string]int64)
	for _, sub := range f.store {
		counts[sub.Status]++
	}
	var rows []repository.StatusCount
	for key, count := range counts {
		rows = append(rows, repository.StatusCount{Key: key, Count: count})
	}
	return rows, nil
}

func (f *fakeSubmissionRepo) CountGroupedByType(_ context.Context) ([]repository.StatusCount, error) {
	counts := make(map[string]int64)
	for _, sub := range f.store {
		counts[sub.Type]++
	}
	var rows []repository.StatusCount
	for key, count := range counts {
		rows = append(rows, repository.StatusCount{Key: key, Count: count})
	}
	return rows, nil
}

func (f *fakeSubmissionRepo) SumTotalAmount(_ context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, sub := range f.store {
		sum = sum.Add(sub.TotalAmount)
	}
	return sum, nil
}

// fakeAuditRepo collects trail entries in memory.
type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, reference string, _, _ int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, e := range f.entries {
		if reference != "" && e.Reference != reference {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

// passthroughTx runs the unit of work without a real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// recordingPublisher captures every pushed tracking event.
type recordingPublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	Reference string
	Event     string
	Data      interface{}
}

func (p *recordingPublisher) Publish(ref string, event string, data interface{}) {
	p.events = append(p.events, publishedEvent{Reference: ref, Event: event, Data: data})
}

func newTestService(t *testing.T) (SubmissionService, *fakeSubmissionRepo, *recordingPublisher) {
	t.Helper()
	svc, repo, publisher, _ := newTestServiceWithAudit(t)
	return svc, repo, publisher
}

func newTestServiceWithAudit(t *testing.T) (SubmissionService, *fakeSubmissionRepo, *recordingPublisher, *fakeAuditRepo) {
	t.Helper()
	repo := newFakeSubmissionRepo()
	audit := &fakeAuditRepo{}
	publisher := &recordingPublisher{}
	svc := NewSubmissionService(repo, audit, passthroughTx{}, publisher, zap.NewNop())
	return svc, repo, publisher, audit
}

func validRequest() SubmitCouponsRequest {
	return SubmitCouponsRequest{
		Type:       "Neosurf",
		Civility:   "Mr",
		LastName:   "Martin",
		FirstName:  "Paul",
		Email:      "paul.martin@example.com",
		Phone:      "+33612345678",
		Country:    "France",
		NumCoupons: 2,
		Coupons: []CouponEntry{
			{Code: "ab12cd34ef", Amount: "50"},
			{Code: "GH56IJ78KL", Amount: "12,5"},
		},
	}
}

func TestSubmitCoupons_BuildsStoredRecord(t *testing.T) {
	svc, repo, _ := newTestService(t)

	resp, err := svc.SubmitCoupons(context.Background(), validRequest(), "test-agent")
	require.NoError(t, err)

	assert.Regexp(t, `^REF-[a-z0-9]+-[A-Z0-9]{6}$`, resp.ReferenceNumber)
	assert.Equal(t, model.StatusPending, resp.Status)
	assert.Equal(t, "/tracking/"+resp.ReferenceNumber, resp.TrackingPath)

	stored := repo.store[resp.ReferenceNumber]
	require.NotNil(t, stored)
	assert.Equal(t, "Mr Paul Martin", stored.FullName)
	assert.Equal(t, "test-agent", stored.UserAgent)
	assert.False(t, stored.EmailSent)
	assert.Nil(t, stored.ProcessingStartedAt)

	// Coupon count matches numCoupons, ids are sequential from 1, codes
	// are uppercased regardless of input case.
	require.Len(t, stored.Coupons, stored.NumCoupons)
	assert.Equal(t, 1, stored.Coupons[0].Seq)
	assert.Equal(t, 2, stored.Coupons[1].Seq)
	assert.Equal(t, "AB12CD34EF", stored.Coupons[0].Code)
	assert.Equal(t, "GH56IJ78KL", stored.Coupons[1].Code)
	assert.Equal(t, model.StatusPending, stored.Coupons[0].Status)

	// 50 + 12,5 with a comma decimal separator
	assert.Equal(t, "62.5", stored.TotalAmount.String())
}

func TestSubmitCoupons_EmptyAmountContributesZero(t *testing.T) {
	svc, repo, _ := newTestService(t)

	req := validRequest()
	req.NumCoupons = 3
	req.Coupons = append(req.Coupons, CouponEntry{Code: "MN90OP12QR", Amount: ""})

	resp, err := svc.SubmitCoupons(context.Background(), req, "")
	require.NoError(t, err)
	assert.Equal(t, "62.5", repo.store[resp.ReferenceNumber].TotalAmount.String())
}

func TestSubmitCoupons_ReconcilesListAgainstNumCoupons(t *testing.T) {
	svc, repo, _ := newTestService(t)

	// More rows than numCoupons: extras are dropped from the end before
	// validation ever sees them.
	req := validRequest()
	req.NumCoupons = 1
	resp, err := svc.SubmitCoupons(context.Background(), req, "")
	require.NoError(t, err)
	stored := repo.store[resp.ReferenceNumber]
	require.Len(t, stored.Coupons, 1)
	assert.Equal(t, "AB12CD34EF", stored.Coupons[0].Code)
	assert.Equal(t, "50", stored.TotalAmount.String())
}

func TestSubmitCoupons_MissingRowsFailValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	// Fewer rows than numCoupons: reconciliation appends empty rows, and
	// the empty codes fail validation instead of being silently stored.
	req := validRequest()
	req.NumCoupons = 4

	_, err := svc.SubmitCoupons(context.Background(), req, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "coupons[2].code")
	assert.Contains(t, fields, "coupons[3].code")
}

func TestSubmitCoupons_FieldValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validRequest()
	req.Type = "monopoly-money"
	req.Email = "not-an-email"
	req.Coupons[0].Amount = "abc"

	_, err := svc.SubmitCoupons(context.Background(), req, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	byField := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		byField[f.Field] = f.Message
	}
	assert.Contains(t, byField, "type")
	assert.Contains(t, byField, "email")
	assert.Equal(t, "invalid amount", byField["coupons[0].amount"])
}

func TestSubmitCoupons_CodeLengthValidatedPerType(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validRequest()
	req.Type = "Transcash" // expects 12 characters
	_, err := svc.SubmitCoupons(context.Background(), req, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "coupons[0].code", verr.Fields[0].Field)
}

func TestSubmitCoupons_RefusesExistingReference(t *testing.T) {
	repo := newFakeSubmissionRepo()
	repo.existsAlways = true
	svc := NewSubmissionService(repo, &fakeAuditRepo{}, passthroughTx{}, &recordingPublisher{}, zap.NewNop())

	_, err := svc.SubmitCoupons(context.Background(), validRequest(), "")
	assert.ErrorIs(t, err, repository.ErrDuplicateReference)
	assert.Empty(t, repo.store, "nothing written on collision")
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc, _, publisher := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), "REF-abc-ABCDEF", UpdateStatusRequest{Status: "archived"}, "ops@example.com")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Fields[0].Field)
	assert.Empty(t, publisher.events)
}

func TestUpdateStatus_ProcessingSetsStartTimestamp(t *testing.T) {
	svc, repo, publisher := newTestService(t)
	resp, err := svc.SubmitCoupons(context.Background(), validRequest(), "")
	require.NoError(t, err)

	admin, err := svc.UpdateStatus(context.Background(), resp.ReferenceNumber, UpdateStatusRequest{Status: " Processing "}, "ops@example.com")
	require.NoError(t, err)

	assert.Equal(t, model.StatusProcessing, admin.Status, "status is trimmed and lowercased")
	assert.NotNil(t, admin.ProcessingStartedAt)
	assert.Nil(t, admin.ProcessingCompletedAt)

	stored := repo.store[resp.ReferenceNumber]
	assert.Equal(t, model.StatusProcessing, stored.Coupons[0].Status, "status fans out to coupon rows")

	require.Len(t, publisher.events, 1)
	assert.Equal(t, resp.ReferenceNumber, publisher.events[0].Reference)
	assert.Equal(t, "updated", publisher.events[0].Event)
	tracking, ok := publisher.events[0].Data.(TrackingResponse)
	require.True(t, ok)
	assert.Equal(t, DisplayInProgress, tracking.DisplayStatus)
}

func TestUpdateStatus_TerminalSetsCompletionTimestamp(t *testing.T) {
	svc, _, publisher := newTestService(t)
	resp, err := svc.SubmitCoupons(context.Background(), validRequest(), "")
	require.NoError(t, err)

	admin, err := svc.UpdateStatus(context.Background(), resp.ReferenceNumber, UpdateStatusRequest{
		Status:     model.StatusRejected,
		AdminNotes: "codes already redeemed",
	}, "ops@example.com")
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, admin.Status)
	assert.NotNil(t, admin.ProcessingCompletedAt)
	assert.Equal(t, "codes already redeemed", admin.AdminNotes)

	tracking := publisher.events[0].Data.(TrackingResponse)
	assert.Equal(t, DisplayRejected, tracking.DisplayStatus)
	assert.True(t, tracking.AttestationReady)
}

func TestUpdateStatus_CompletionTimestampSetOnce(t *testing.T) {
	svc, repo, _ := newTestService(t)
	resp, err := svc.SubmitCoupons(context.Background(), validRequest(), "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), resp.ReferenceNumber, UpdateStatusRequest{Status: model.StatusCompleted}, "ops@example.com")
	require.NoError(t, err)
	first := repo.store[resp.ReferenceNumber].ProcessingCompletedAt
	require.NotNil(t, first)

	_, err = svc.UpdateStatus(context.Background(), resp.ReferenceNumber, UpdateStatusRequest{Status: model.StatusVerified}, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, repo.store[resp.ReferenceNumber].ProcessingCompletedAt)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.UpdateStatus(context.Background(), "REF-missing-ABCDEF", UpdateStatusRequest{Status: model.StatusVerified}, "ops@example.com")
	assert.True(t, IsNotFound(err))
}

func TestMarkEmailSent(t *testing.T) {
	svc, _, publisher := newTestService(t)
	resp, err := svc.SubmitCoupons(context.Background(), validRequest(), "")
	require.NoError(t, err)

	admin, err := svc.MarkEmailSent(context.Background(), resp.ReferenceNumber, "ops@example.com")
	require.NoError(t, err)
	assert.True(t, admin.EmailSent)
	assert.NotNil(t, admin.EmailSentAt)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "updated", publisher.events[0].Event)
}

func TestGetTracking_NotFoundIsDistinct(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetTracking(context.Background(), "REF-missing-ABCDEF")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(errors.New("some transport failure")))
}

func TestGetTracking_HidesCodesWhenRequested(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validRequest()
	req.HideCodes = true
	resp, err := svc.SubmitCoupons(context.Background(), req, "")
	require.NoError(t, err)

	tracking, err := svc.GetTracking(context.Background(), resp.ReferenceNumber)
	require.NoError(t, err)
	assert.True(t, tracking.HideCodes)
	for _, c := range tracking.Coupons {
		assert.Equal(t, HiddenCodePlaceholder, c.Code)
	}
}

func TestListSubmissions_AppliesDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.SubmitCoupons(context.Background(), validRequest(), "")
	require.NoError(t, err)

	list, total, err := svc.ListSubmissions(context.Background(), repository.SubmissionListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, model.StatusPending, list[0].Status)
}

func TestStatistics(t *testing.T) {
	svc, _, _ := newTestService(t)

	first, err := svc.SubmitCoupons(context.Background(), validRequest(), "")
	require.NoError(t, err)
	_, err = svc.SubmitCoupons(context.Background(), validRequest(), "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), first.ReferenceNumber, UpdateStatusRequest{Status: model.StatusVerified}, "ops@example.com")
	require.NoError(t, err)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus[model.StatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[model.StatusVerified])
	assert.Equal(t, int64(2), stats.ByType["Neosurf"])
	assert.Equal(t, "125.00", stats.TotalAmount)
}

func TestBackofficeActionsRecordAuditTrail(t *testing.T) {
	svc, _, _, audit := newTestServiceWithAudit(t)
	resp, err := svc.SubmitCoupons(context.Background(), validRequest(), "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), resp.ReferenceNumber, UpdateStatusRequest{
		Status:     model.StatusVerified,
		AdminNotes: "all codes checked",
	}, "ops@example.com")
	require.NoError(t, err)
	_, err = svc.MarkEmailSent(context.Background(), resp.ReferenceNumber, "ops@example.com")
	require.NoError(t, err)

	require.Len(t, audit.entries, 2)
	first := audit.entries[0]
	assert.Equal(t, model.ActionUpdateStatus, first.Action)
	assert.Equal(t, "ops@example.com", first.Actor)
	assert.Equal(t, resp.ReferenceNumber, first.Reference)
	assert.Contains(t, first.Details, `"status":"verified"`)
	assert.Equal(t, model.ActionMarkEmailSent, audit.entries[1].Action)
}
