package lendingsvc

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookshop/model"
	lendingrepo "bookshop/repository/lending"
	"bookshop/util/clock"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error   { t.committed = true; return nil }
func (t *fakeTx) Rollback() error { t.rolledBack = true; return nil }

type mockRepo struct {
	tx *fakeTx

	borrower *model.Borrower
	book     *model.Book
	record   *model.LendingRecord
	hasOpen  bool

	inserted      *model.LendingRecord
	returned      []int64
	availability  map[int64]bool
	deletedRecord int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{tx: &fakeTx{}, availability: map[int64]bool{}}
}

func (m *mockRepo) Begin(ctx context.Context) (lendingrepo.Tx, error) { return m.tx, nil }

func (m *mockRepo) BorrowerByContact(ctx context.Context, contact string) (*model.Borrower, error) {
	if m.borrower == nil {
		return nil, sql.ErrNoRows
	}
	return m.borrower, nil
}

func (m *mockRepo) BookForUpdate(ctx context.Context, tx lendingrepo.Tx, bookID int64) (*model.Book, error) {
	if m.book == nil {
		return nil, sql.ErrNoRows
	}
	return m.book, nil
}

func (m *mockRepo) OpenRecordExists(ctx context.Context, tx lendingrepo.Tx, bookID int64) (bool, error) {
	return m.hasOpen, nil
}

func (m *mockRepo) InsertRecord(ctx context.Context, tx lendingrepo.Tx, rec *model.LendingRecord) error {
	rec.ID = 101
	m.inserted = rec
	return nil
}

func (m *mockRepo) RecordForUpdate(ctx context.Context, tx lendingrepo.Tx, id int64) (*model.LendingRecord, error) {
	if m.record == nil {
		return nil, sql.ErrNoRows
	}
	return m.record, nil
}

func (m *mockRepo) MarkReturned(ctx context.Context, tx lendingrepo.Tx, id int64, at time.Time) error {
	m.returned = append(m.returned, id)
	return nil
}

func (m *mockRepo) SetBookAvailable(ctx context.Context, tx lendingrepo.Tx, bookID int64, available bool) error {
	m.availability[bookID] = available
	return nil
}

func (m *mockRepo) HasOpenRecord(ctx context.Context, bookID int64) (bool, error) {
	return m.hasOpen, nil
}

func (m *mockRepo) History(ctx context.Context) ([]HistoryRow, error) { return nil, nil }

func (m *mockRepo) DeleteRecord(ctx context.Context, id int64) error {
	if m.record == nil {
		return sql.ErrNoRows
	}
	m.deletedRecord = id
	return nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const week = 7 * 24 * time.Hour

func newService(r Repo) Service {
	return New(r, week, clock.Func(func() time.Time { return testNow }))
}

func TestBorrowSetsDueDateFromPolicy(t *testing.T) {
	repo := newMockRepo()
	repo.borrower = &model.Borrower{ID: 5, FullName: "Ana Cruz", ContactNumber: "09170001111"}
	repo.book = &model.Book{ID: 1, Title: "Dune"}
	svc := newService(repo)

	rec, err := svc.Borrow(context.Background(), 1, "09170001111")
	require.NoError(t, err)
	require.Equal(t, testNow, rec.DateBorrowed)
	require.Equal(t, testNow.Add(week), rec.DueDate)
	require.Equal(t, int64(5), rec.BorrowerID)
	require.True(t, repo.tx.committed)
	require.False(t, repo.availability[1])
}

func TestBorrowUnknownBorrower(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	_, err := svc.Borrow(context.Background(), 1, "09990000000")
	require.Equal(t, ErrBorrowerNotFound, Code(err))
	require.Nil(t, repo.inserted)
}

func TestBorrowUnknownBook(t *testing.T) {
	repo := newMockRepo()
	repo.borrower = &model.Borrower{ID: 5}
	svc := newService(repo)

	_, err := svc.Borrow(context.Background(), 9, "09170001111")
	require.Equal(t, ErrBookNotFound, Code(err))
	require.True(t, repo.tx.rolledBack)
}

func TestBorrowSoldBook(t *testing.T) {
	repo := newMockRepo()
	repo.borrower = &model.Borrower{ID: 5}
	repo.book = &model.Book{ID: 1, Sold: true}
	svc := newService(repo)

	_, err := svc.Borrow(context.Background(), 1, "09170001111")
	require.Equal(t, ErrBookSold, Code(err))
	require.Nil(t, repo.inserted)
}

func TestBorrowAlreadyBorrowedWritesNoRecord(t *testing.T) {
	repo := newMockRepo()
	repo.borrower = &model.Borrower{ID: 5}
	repo.book = &model.Book{ID: 1}
	repo.hasOpen = true
	svc := newService(repo)

	_, err := svc.Borrow(context.Background(), 1, "09170001111")
	require.Equal(t, ErrAlreadyBorrowed, Code(err))
	require.Nil(t, repo.inserted)
	require.True(t, repo.tx.rolledBack)
	require.False(t, repo.tx.committed)
}

func TestReturnClosesRecordAndRestoresBook(t *testing.T) {
	repo := newMockRepo()
	repo.record = &model.LendingRecord{ID: 101, BookID: 1, BorrowerID: 5, DateBorrowed: testNow.Add(-48 * time.Hour)}
	svc := newService(repo)

	rec, err := svc.Return(context.Background(), 101)
	require.NoError(t, err)
	require.NotNil(t, rec.ReturnedAt)
	require.Equal(t, testNow, *rec.ReturnedAt)
	require.Equal(t, []int64{101}, repo.returned)
	require.True(t, repo.availability[1])
	require.True(t, repo.tx.committed)
}

func TestReturnAlreadyReturnedLeavesRecordUnchanged(t *testing.T) {
	repo := newMockRepo()
	returnedAt := testNow.Add(-time.Hour)
	repo.record = &model.LendingRecord{ID: 101, BookID: 1, ReturnedAt: &returnedAt}
	svc := newService(repo)

	_, err := svc.Return(context.Background(), 101)
	require.Equal(t, ErrAlreadyReturned, Code(err))
	require.Empty(t, repo.returned)
	require.Equal(t, returnedAt, *repo.record.ReturnedAt)
	require.False(t, repo.tx.committed)
}

func TestReturnUnknownRecord(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	_, err := svc.Return(context.Background(), 404)
	require.Equal(t, ErrRecordNotFound, Code(err))
}

func TestIsBorrowedReflectsOpenRecord(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	borrowed, err := svc.IsBorrowed(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, borrowed)

	repo.hasOpen = true
	borrowed, err = svc.IsBorrowed(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, borrowed)
}

func TestDeleteUnknownRecord(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	err := svc.Delete(context.Background(), 404)
	require.Equal(t, ErrRecordNotFound, Code(err))
}
