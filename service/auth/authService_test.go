package authsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"bookshop/model"
)

type mockRepo struct {
	ByPincodeFn func(ctx context.Context, pincode string) (*model.User, error)
}

func (m *mockRepo) ByPincode(ctx context.Context, pincode string) (*model.User, error) {
	return m.ByPincodeFn(ctx, pincode)
}

func TestLoginIssuesToken(t *testing.T) {
	repo := &mockRepo{
		ByPincodeFn: func(ctx context.Context, pincode string) (*model.User, error) {
			require.Equal(t, "123456", pincode)
			return &model.User{ID: 1, Name: "Ellry", Role: "admin"}, nil
		},
	}
	svc := New(repo, "test-secret")

	u, token, err := svc.Login(context.Background(), "123456")
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.NotEmpty(t, token)
}

func TestLoginRejectsMalformedPincode(t *testing.T) {
	svc := New(&mockRepo{}, "test-secret")

	for _, pin := range []string{"", "12345", "1234567", "12a456"} {
		_, _, err := svc.Login(context.Background(), pin)
		require.Equal(t, ErrBadPincode, Code(err), "pincode %q", pin)
	}
}

func TestLoginUnknownPincode(t *testing.T) {
	repo := &mockRepo{
		ByPincodeFn: func(ctx context.Context, pincode string) (*model.User, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(repo, "test-secret")

	_, _, err := svc.Login(context.Background(), "654321")
	require.Equal(t, ErrInvalidPincode, Code(err))
}
