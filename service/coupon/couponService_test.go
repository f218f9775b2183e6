package couponsvc

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookshop/model"
	"bookshop/util/clock"
)

type mockRepo struct {
	CreateFn    func(ctx context.Context, c *model.Coupon) error
	ByCodeFn    func(ctx context.Context, code string) (*model.Coupon, error)
	ListFn      func(ctx context.Context) ([]model.Coupon, error)
	SetActiveFn func(ctx context.Context, id int64, active bool) error
	DeleteFn    func(ctx context.Context, id int64) error
}

func (m *mockRepo) Create(ctx context.Context, c *model.Coupon) error { return m.CreateFn(ctx, c) }
func (m *mockRepo) ByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return m.ByCodeFn(ctx, code)
}
func (m *mockRepo) List(ctx context.Context) ([]model.Coupon, error) { return m.ListFn(ctx) }
func (m *mockRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.SetActiveFn(ctx, id, active)
}
func (m *mockRepo) Delete(ctx context.Context, id int64) error { return m.DeleteFn(ctx, id) }

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() clock.Clock { return clock.Func(func() time.Time { return testNow }) }

func TestValidateActiveUnexpired(t *testing.T) {
	repo := &mockRepo{
		ByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return &model.Coupon{
				ID:                 7,
				Code:               "SUMMER10",
				DiscountPercentage: 10,
				ExpiryDate:         testNow.Add(48 * time.Hour),
				IsActive:           true,
			}, nil
		},
	}
	svc := New(repo, fixedClock())

	c, err := svc.Validate(context.Background(), "SUMMER10")
	require.NoError(t, err)
	require.Equal(t, 10.0, c.DiscountPercentage)
}

func TestValidateUnknownCode(t *testing.T) {
	repo := &mockRepo{
		ByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(repo, fixedClock())

	_, err := svc.Validate(context.Background(), "NOPE")
	require.Error(t, err)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestValidateInactive(t *testing.T) {
	repo := &mockRepo{
		ByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return &model.Coupon{
				Code:       "OLD",
				ExpiryDate: testNow.Add(48 * time.Hour),
				IsActive:   false,
			}, nil
		},
	}
	svc := New(repo, fixedClock())

	_, err := svc.Validate(context.Background(), "OLD")
	require.Equal(t, ErrInactive, Code(err))
}

func TestValidateExpiredEvenWhenActive(t *testing.T) {
	repo := &mockRepo{
		ByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return &model.Coupon{
				Code:       "STALE",
				ExpiryDate: testNow.Add(-time.Hour),
				IsActive:   true,
			}, nil
		},
	}
	svc := New(repo, fixedClock())

	_, err := svc.Validate(context.Background(), "STALE")
	require.Equal(t, ErrExpired, Code(err))
}

func TestCreateUppercasesCode(t *testing.T) {
	var got *model.Coupon
	repo := &mockRepo{
		CreateFn: func(ctx context.Context, c *model.Coupon) error {
			got = c
			c.ID = 1
			return nil
		},
	}
	svc := New(repo, fixedClock())

	c, err := svc.Create(context.Background(), " summer10 ", 10, testNow.Add(time.Hour), true)
	require.NoError(t, err)
	require.Equal(t, "SUMMER10", got.Code)
	require.Equal(t, int64(1), c.ID)
}

func TestCreateRejectsBadPercentage(t *testing.T) {
	svc := New(&mockRepo{}, fixedClock())

	_, err := svc.Create(context.Background(), "X", 101, testNow, true)
	require.Equal(t, ErrBadPercent, Code(err))

	_, err = svc.Create(context.Background(), "X", -1, testNow, true)
	require.Equal(t, ErrBadPercent, Code(err))
}

func TestSetActiveUnknownCoupon(t *testing.T) {
	repo := &mockRepo{
		SetActiveFn: func(ctx context.Context, id int64, active bool) error {
			return sql.ErrNoRows
		},
	}
	svc := New(repo, fixedClock())

	err := svc.SetActive(context.Background(), 42, false)
	require.Equal(t, ErrNotFound, Code(err))
}
