package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Gateway errors with a stable identity so callers can map them to
// user-facing messages without string matching.
var (
	ErrNotFound           = errors.New("submission not found")
	ErrDuplicateReference = errors.New("reference number already exists")
)

// SubmissionListFilter narrows a back-office listing.
type SubmissionListFilter struct {
	Status string // pending, processing, completed, verified, rejected or empty for all
	Type   string // coupon/gift-card type name or empty for all
	Page   int
	Limit  int
}

// StatusCount is one row of a grouped aggregate.
type StatusCount struct {
	Key   string
	Count int64
}

// SubmissionRepository is the document-store gateway for submissions. The
// reference number is the storage key; Create refuses to overwrite an
// existing key.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	ExistsByReference(ctx context.Context, ref string) (bool, error)
	FindByReference(ctx context.Context, ref string) (*model.Submission, error)
	Update(ctx context.Context, submission *model.Submission) error
	UpdateCouponStatuses(ctx context.Context, ref, status string) error
	List(ctx context.Context, filter SubmissionListFilter) ([]model.Submission, int64, error)
	CountGroupedByStatus(ctx context.Context) ([]StatusCount, error)
	CountGroupedByType(ctx context.Context) ([]StatusCount, error)
	SumTotalAmount(ctx context.Context) (decimal.Decimal, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	err := GetDB(ctx, r.db).Create(submission).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateReference
	}
	return err
}

func (r *submissionRepository) ExistsByReference(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Submission{}).
		Where("reference_number = ?", ref).Count(&count).Error
	return count > 0, err
}

func (r *submissionRepository) FindByReference(ctx context.Context, ref string) (*model.Submission, error) {
	var submission model.Submission
	err := GetDB(ctx, r.db).
		Preload("Coupons", func(db *gorm.DB) *gorm.DB { return db.Order("seq asc") }).
		First(&submission, "reference_number = ?", ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *model.Submission) error {
	return GetDB(ctx, r.db).Save(submission).Error
}

// UpdateCouponStatuses fans a submission-level status out to its coupon rows.
func (r *submissionRepository) UpdateCouponStatuses(ctx context.Context, ref, status string) error {
	return GetDB(ctx, r.db).Model(&model.Coupon{}).
		Where("submission_ref = ?", ref).
		Update("status", status).Error
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionListFilter) ([]model.Submission, int64, error) {
	var submissions []model.Submission
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Submission{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetch := db.Preload("Coupons", func(db *gorm.DB) *gorm.DB { return db.Order("seq asc") })
	if filter.Status != "" {
		fetch = fetch.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		fetch = fetch.Where("type = ?", filter.Type)
	}
	if err := fetch.Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepository) CountGroupedByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := GetDB(ctx, r.db).Model(&model.Submission{}).
		Select("status as key, count(*) as count").
		Group("status").Scan(&rows).Error
	return rows, err
}

func (r *submissionRepository) CountGroupedByType(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := GetDB(ctx, r.db).Model(&model.Submission{}).
		Select("type as key, count(*) as count").
		Group("type").Scan(&rows).Error
	return rows, err
}

func (r *submissionRepository) SumTotalAmount(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.Submission{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
