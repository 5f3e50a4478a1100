package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/repository"
	"achievo/internal/timeutil"
)

const recentBillCount = 10

// BillService implements BillServicer.
type BillService struct {
	bills repository.Bills
}

// NewBillService creates a BillService.
func NewBillService(bills repository.Bills) *BillService {
	return &BillService{bills: bills}
}

func (s *BillService) typeOverview(ctx context.Context, userID primitive.ObjectID, billType models.BillType, monthStart time.Time) (BillTypeOverview, error) {
	recent, err := s.bills.ListByType(ctx, userID, billType, true, recentBillCount)
	if err != nil {
		return BillTypeOverview{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if recent == nil {
		recent = []models.UtilityBill{}
	}
	totals, err := s.bills.MonthlyTotals(ctx, userID, billType, monthStart)
	if err != nil {
		return BillTypeOverview{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return BillTypeOverview{
		Recent:             recent,
		MonthlyAmount:      totals.Amount,
		MonthlyConsumption: totals.Consumption,
	}, nil
}

// Overview returns the ten most recent milk and water bills plus the
// current month's totals for each.
func (s *BillService) Overview(ctx context.Context, userID primitive.ObjectID, now time.Time) (BillOverview, error) {
	monthStart := timeutil.MonthStart(now)

	milk, err := s.typeOverview(ctx, userID, models.BillTypeMilk, monthStart)
	if err != nil {
		return BillOverview{}, err
	}
	water, err := s.typeOverview(ctx, userID, models.BillTypeWater, monthStart)
	if err != nil {
		return BillOverview{}, err
	}
	return BillOverview{Milk: milk, Water: water}, nil
}

// Create inserts a new utility bill for the user.
func (s *BillService) Create(ctx context.Context, userID primitive.ObjectID, input BillInput) (*models.UtilityBill, error) {
	bill := &models.UtilityBill{
		BillType:    input.BillType,
		UserID:      userID,
		Amount:      input.Amount,
		Consumption: input.Consumption,
		Unit:        input.Unit,
		Date:        timeutil.DateOf(input.Date),
		Notes:       input.Notes,
	}
	if bill.Date.IsZero() {
		bill.Date = timeutil.DateOf(time.Now())
	}
	if err := s.bills.Insert(ctx, bill); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return bill, nil
}

func (s *BillService) owned(ctx context.Context, userID, billID primitive.ObjectID) (*models.UtilityBill, error) {
	bill, err := s.bills.FindByID(ctx, billID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrBillNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bill.UserID != userID {
		return nil, apperrors.ErrBillNotFound
	}
	return bill, nil
}

// Get returns one of the user's bills.
func (s *BillService) Get(ctx context.Context, userID, billID primitive.ObjectID) (*models.UtilityBill, error) {
	return s.owned(ctx, userID, billID)
}

// Update replaces the editable fields of one of the user's bills.
func (s *BillService) Update(ctx context.Context, userID, billID primitive.ObjectID, input BillInput) (*models.UtilityBill, error) {
	bill, err := s.owned(ctx, userID, billID)
	if err != nil {
		return nil, err
	}

	if input.BillType != "" {
		bill.BillType = input.BillType
	}
	bill.Amount = input.Amount
	bill.Consumption = input.Consumption
	if input.Unit != "" {
		bill.Unit = input.Unit
	}
	if !input.Date.IsZero() {
		bill.Date = timeutil.DateOf(input.Date)
	}
	bill.Notes = input.Notes

	if err := s.bills.Update(ctx, bill); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return bill, nil
}

// Delete removes one of the user's bills.
func (s *BillService) Delete(ctx context.Context, userID, billID primitive.ObjectID) error {
	bill, err := s.owned(ctx, userID, billID)
	if err != nil {
		return err
	}
	if err := s.bills.Delete(ctx, bill.ID); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListByType returns all of the user's bills of one type, oldest first,
// for the export endpoints.
func (s *BillService) ListByType(ctx context.Context, userID primitive.ObjectID, billType models.BillType) ([]models.UtilityBill, error) {
	bills, err := s.bills.ListByType(ctx, userID, billType, false, 0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bills == nil {
		bills = []models.UtilityBill{}
	}
	return bills, nil
}
