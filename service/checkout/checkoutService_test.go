package checkoutsvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookshop/model"
	checkoutrepo "bookshop/repository/checkout"
	"bookshop/service/cart"
	"bookshop/util/clock"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error   { t.committed = true; return nil }
func (t *fakeTx) Rollback() error { t.rolledBack = true; return nil }

type mockRepo struct {
	tx       *fakeTx
	inserted []model.Transaction
	sold     []int64

	unavailable map[int64]bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{tx: &fakeTx{}, unavailable: map[int64]bool{}}
}

func (m *mockRepo) Begin(ctx context.Context) (checkoutrepo.Tx, error) { return m.tx, nil }

func (m *mockRepo) InsertTransaction(ctx context.Context, tx checkoutrepo.Tx, t *model.Transaction) error {
	t.ID = int64(len(m.inserted) + 1)
	m.inserted = append(m.inserted, *t)
	return nil
}

func (m *mockRepo) MarkBookSold(ctx context.Context, tx checkoutrepo.Tx, bookID int64) error {
	if m.unavailable[bookID] {
		return checkoutrepo.ErrBookUnavailable
	}
	m.sold = append(m.sold, bookID)
	return nil
}

type mockCoupons struct {
	ValidateFn func(ctx context.Context, code string) (*model.Coupon, error)
}

func (m *mockCoupons) Validate(ctx context.Context, code string) (*model.Coupon, error) {
	return m.ValidateFn(ctx, code)
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() clock.Clock { return clock.Func(func() time.Time { return testNow }) }

func buyLine(id int64, title string, price float64, qty int) cart.LineItem {
	return cart.LineItem{BookID: id, Title: title, Mode: model.ModeBuy, Quantity: qty, UnitPrice: price}
}

func rentLine(id int64, title string, rental float64, days int) cart.LineItem {
	return cart.LineItem{BookID: id, Title: title, Mode: model.ModeRent, Days: days, UnitRentalPrice: rental}
}

func TestCheckoutEmptyCart(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockCoupons{}, fixedClock())

	_, err := svc.Checkout(context.Background(), Input{PaymentMethod: model.PaymentCash})
	require.Equal(t, ErrEmptyCart, Code(err))
	require.Empty(t, repo.inserted)
}

func TestCheckoutBadPaymentMethod(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockCoupons{}, fixedClock())

	_, err := svc.Checkout(context.Background(), Input{
		Items:         []cart.LineItem{buyLine(1, "Dune", 100, 1)},
		PaymentMethod: "Check",
	})
	require.Equal(t, ErrBadPayment, Code(err))
}

func TestCheckoutCashExactAmount(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockCoupons{}, fixedClock())

	rcpt, err := svc.Checkout(context.Background(), Input{
		Items: []cart.LineItem{
			buyLine(1, "Dune", 150, 1),
			rentLine(2, "Emma", 25, 2),
		},
		PaymentMethod: model.PaymentCash,
		CashReceived:  200,
	})
	require.NoError(t, err)
	require.Equal(t, 200.0, rcpt.Total)
	require.Equal(t, 0.0, rcpt.Change)
	require.True(t, repo.tx.committed)
	require.Len(t, repo.inserted, 2)

	// Only the buy line flips the sold flag; the rent line goes through
	// the lending ledger separately.
	require.Equal(t, []int64{1}, repo.sold)
}

func TestCheckoutCashShortWritesNothing(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockCoupons{}, fixedClock())

	_, err := svc.Checkout(context.Background(), Input{
		Items:         []cart.LineItem{buyLine(1, "Dune", 150, 1)},
		PaymentMethod: model.PaymentCash,
		CashReceived:  100,
	})
	require.Equal(t, ErrInsufficientCash, Code(err))
	require.Empty(t, repo.inserted)
	require.Empty(t, repo.sold)
	require.False(t, repo.tx.committed)
	require.False(t, repo.tx.rolledBack, "no transaction should even begin")
}

func TestCheckoutTenPercentCoupon(t *testing.T) {
	repo := newMockRepo()
	coupons := &mockCoupons{
		ValidateFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			require.Equal(t, "SAVE10", code)
			return &model.Coupon{ID: 3, Code: "SAVE10", DiscountPercentage: 10}, nil
		},
	}
	svc := New(repo, coupons, fixedClock())

	rcpt, err := svc.Checkout(context.Background(), Input{
		Items:         []cart.LineItem{buyLine(1, "Dune", 500, 1)},
		PaymentMethod: model.PaymentGCash,
		CouponCode:    "SAVE10",
	})
	require.NoError(t, err)
	require.Equal(t, 500.0, rcpt.Subtotal)
	require.Equal(t, 50.0, rcpt.DiscountAmount)
	require.Equal(t, 450.0, rcpt.Total)
	require.NotNil(t, rcpt.CouponID)
	require.Equal(t, int64(3), *rcpt.CouponID)
	require.Equal(t, 50.0, repo.inserted[0].DiscountAmount)
}

func TestCheckoutWithoutCouponKeepsSubtotal(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockCoupons{}, fixedClock())

	rcpt, err := svc.Checkout(context.Background(), Input{
		Items:         []cart.LineItem{buyLine(1, "Dune", 500, 1)},
		PaymentMethod: model.PaymentGCash,
	})
	require.NoError(t, err)
	require.Equal(t, rcpt.Subtotal, rcpt.Total)
	require.Equal(t, 0.0, rcpt.DiscountAmount)
	require.Nil(t, rcpt.CouponID)
}

func TestCheckoutInvalidCouponAborts(t *testing.T) {
	repo := newMockRepo()
	coupons := &mockCoupons{
		ValidateFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return nil, couponErr{}
		},
	}
	svc := New(repo, coupons, fixedClock())

	_, err := svc.Checkout(context.Background(), Input{
		Items:         []cart.LineItem{buyLine(1, "Dune", 500, 1)},
		PaymentMethod: model.PaymentGCash,
		CouponCode:    "STALE",
	})
	require.Error(t, err)
	require.Empty(t, repo.inserted)
}

type couponErr struct{}

func (couponErr) Error() string { return "COUPON_EXPIRED" }

func TestCheckoutChange(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockCoupons{}, fixedClock())

	rcpt, err := svc.Checkout(context.Background(), Input{
		Items:         []cart.LineItem{buyLine(1, "Dune", 180, 1)},
		PaymentMethod: model.PaymentCash,
		CashReceived:  200,
	})
	require.NoError(t, err)
	require.Equal(t, 20.0, rcpt.Change)
}

func TestCheckoutGCashNeverReportsChange(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockCoupons{}, fixedClock())

	rcpt, err := svc.Checkout(context.Background(), Input{
		Items:         []cart.LineItem{buyLine(1, "Dune", 180, 1)},
		PaymentMethod: model.PaymentGCash,
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, rcpt.Change)
}

func TestCheckoutUnavailableBookRollsBackWholeSale(t *testing.T) {
	repo := newMockRepo()
	repo.unavailable[2] = true
	svc := New(repo, &mockCoupons{}, fixedClock())

	_, err := svc.Checkout(context.Background(), Input{
		Items: []cart.LineItem{
			buyLine(1, "Dune", 100, 1),
			buyLine(2, "Emma", 100, 1),
		},
		PaymentMethod: model.PaymentCash,
		CashReceived:  500,
	})
	require.Equal(t, ErrPartialFailure, Code(err))
	require.Contains(t, err.Error(), "Emma")
	require.True(t, repo.tx.rolledBack)
	require.False(t, repo.tx.committed)
}

func TestCheckoutStampsClockTime(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockCoupons{}, fixedClock())

	_, err := svc.Checkout(context.Background(), Input{
		Items:         []cart.LineItem{buyLine(1, "Dune", 100, 1)},
		PaymentMethod: model.PaymentGCash,
	})
	require.NoError(t, err)
	require.Equal(t, testNow, repo.inserted[0].CreatedAt)
}
