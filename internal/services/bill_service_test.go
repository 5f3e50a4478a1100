package services

import (
	"context"
	"testing"
	"time"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/testutil"
	"achievo/internal/timeutil"
)

func newBillService() (*BillService, *testutil.MemoryBills, *testutil.MemoryUsers) {
	bills := testutil.NewMemoryBills()
	users := testutil.NewMemoryUsers()
	return NewBillService(bills), bills, users
}

func TestBillCreate(t *testing.T) {
	svc, _, users := newBillService()
	ctx := context.Background()
	user := testutil.CreateTestUser(t, users)

	t.Run("date is stored at day precision", func(t *testing.T) {
		bill, err := svc.Create(ctx, user.ID, BillInput{
			BillType:    models.BillTypeMilk,
			Amount:      60,
			Consumption: 1.5,
			Unit:        "liters",
			Date:        time.Date(2026, 8, 20, 17, 45, 3, 0, time.UTC),
		})
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, timeutil.FormatDate(bill.Date), "2026-08-20")
	})

	t.Run("missing date defaults to today", func(t *testing.T) {
		bill, err := svc.Create(ctx, user.ID, BillInput{BillType: models.BillTypeWater, Amount: 300})
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, timeutil.FormatDate(bill.Date), timeutil.FormatDate(time.Now()))
	})
}

func TestBillOwnership(t *testing.T) {
	svc, bills, users := newBillService()
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, users)
	intruder := testutil.CreateTestUser(t, users)
	bill := testutil.CreateTestBill(t, bills, owner.ID, models.BillTypeMilk, 0)

	_, err := svc.Get(ctx, intruder.ID, bill.ID)
	testutil.AssertAppError(t, err, apperrors.ErrBillNotFound.Code)

	err = svc.Delete(ctx, intruder.ID, bill.ID)
	testutil.AssertAppError(t, err, apperrors.ErrBillNotFound.Code)
}

func TestBillOverview(t *testing.T) {
	svc, bills, users := newBillService()
	ctx := context.Background()
	user := testutil.CreateTestUser(t, users)

	// Fixed "now" mid-month so same-month entries are unambiguous
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	mk := func(billType models.BillType, amount, consumption float64, date time.Time) {
		bill := &models.UtilityBill{
			BillType:    billType,
			UserID:      user.ID,
			Amount:      amount,
			Consumption: consumption,
			Unit:        "liters",
			Date:        timeutil.DateOf(date),
		}
		testutil.AssertNoError(t, bills.Insert(ctx, bill))
	}

	// Twelve milk bills this month, two last month
	for i := 0; i < 12; i++ {
		mk(models.BillTypeMilk, 60, 1.5, now.AddDate(0, 0, -i))
	}
	mk(models.BillTypeMilk, 55, 1.5, now.AddDate(0, -1, 0))
	mk(models.BillTypeMilk, 55, 1.5, now.AddDate(0, -1, -1))
	mk(models.BillTypeWater, 300, 1000, now)

	overview, err := svc.Overview(ctx, user.ID, now)
	testutil.AssertNoError(t, err)

	t.Run("recent list is capped at ten, newest first", func(t *testing.T) {
		testutil.AssertEqual(t, len(overview.Milk.Recent), 10)
		first := overview.Milk.Recent[0].Date
		last := overview.Milk.Recent[9].Date
		if !first.After(last) {
			t.Fatalf("expected newest first, got %v before %v", first, last)
		}
	})

	t.Run("monthly totals cover the current month only", func(t *testing.T) {
		testutil.AssertEqual(t, overview.Milk.MonthlyAmount, 12*60.0)
		testutil.AssertEqual(t, overview.Milk.MonthlyConsumption, 12*1.5)
		testutil.AssertEqual(t, overview.Water.MonthlyAmount, 300.0)
	})
}

func TestBillUpdate(t *testing.T) {
	svc, bills, users := newBillService()
	ctx := context.Background()
	user := testutil.CreateTestUser(t, users)
	bill := testutil.CreateTestBill(t, bills, user.ID, models.BillTypeMilk, 3)

	updated, err := svc.Update(ctx, user.ID, bill.ID, BillInput{
		BillType:    models.BillTypeMilk,
		Amount:      75,
		Consumption: 2,
		Unit:        "liters",
		Date:        timeDate(2026, 8, 1),
		Notes:       "price hike",
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, updated.Amount, 75.0)
	testutil.AssertEqual(t, updated.Notes, "price hike")
	testutil.AssertEqual(t, timeutil.FormatDate(updated.Date), "2026-08-01")
}

func TestBillListByTypeOldestFirst(t *testing.T) {
	svc, bills, users := newBillService()
	ctx := context.Background()
	user := testutil.CreateTestUser(t, users)

	testutil.CreateTestBill(t, bills, user.ID, models.BillTypeMilk, 0)
	testutil.CreateTestBill(t, bills, user.ID, models.BillTypeMilk, 5)
	testutil.CreateTestBill(t, bills, user.ID, models.BillTypeWater, 1)

	list, err := svc.ListByType(ctx, user.ID, models.BillTypeMilk)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(list), 2)
	if !list[0].Date.Before(list[1].Date) {
		t.Fatal("expected oldest first for exports")
	}
}
