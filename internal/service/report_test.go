package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
)

func seedOrder(repo *mockOrderRepo, o model.Order) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.orders[o.ID] = &o
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t.Add(10 * time.Hour)
}

func newReportFixture() (*ReportService, *mockOrderRepo) {
	repo := newMockOrderRepo(newMockProductRepo())
	seedOrder(repo, model.Order{ID: "o1", UserID: "u1", Price: 1000, Quantity: 2, Status: model.OrderStatusReceived, CreatedAt: day("2026-08-01")})
	seedOrder(repo, model.Order{ID: "o2", UserID: "u1", Price: 500, Quantity: 1, Status: model.OrderStatusReceived, CreatedAt: day("2026-08-01")})
	seedOrder(repo, model.Order{ID: "o3", UserID: "u2", Price: 2000, Quantity: 3, Status: model.OrderStatusReceived, CreatedAt: day("2026-08-02")})
	// Not confirmed: never counts as a sale.
	seedOrder(repo, model.Order{ID: "o4", UserID: "u1", Price: 9999, Quantity: 9, Status: model.OrderStatusPlaced, CreatedAt: day("2026-08-02")})
	seedOrder(repo, model.Order{ID: "o5", UserID: "u2", Price: 9999, Quantity: 9, Status: model.OrderStatusCancelled, CreatedAt: day("2026-08-02")})
	return NewReportService(repo), repo
}

func TestReportService_GroupByDate(t *testing.T) {
	svc, _ := newReportFixture()

	resp, err := svc.ConfirmedSales(context.Background(), dto.OrderReportRequest{GroupBy: "date"})
	require.NoError(t, err)

	require.Len(t, resp.Groups, 2)
	// Newest day first.
	assert.Equal(t, "2026-08-02", resp.Groups[0].Key)
	assert.Equal(t, 1, resp.Groups[0].Count)
	assert.True(t, resp.Groups[0].Amount.Equal(decimal.NewFromInt(6000)))

	assert.Equal(t, "2026-08-01", resp.Groups[1].Key)
	assert.Equal(t, 2, resp.Groups[1].Count)
	assert.True(t, resp.Groups[1].Amount.Equal(decimal.NewFromInt(2500)))

	assert.Equal(t, 3, resp.TotalOrders)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(8500)), "total = %s", resp.TotalAmount)
}

func TestReportService_GroupByUser(t *testing.T) {
	svc, _ := newReportFixture()

	resp, err := svc.ConfirmedSales(context.Background(), dto.OrderReportRequest{GroupBy: "user"})
	require.NoError(t, err)

	require.Len(t, resp.Groups, 2)
	byKey := map[string]dto.ReportGroupResponse{}
	for _, g := range resp.Groups {
		byKey[g.Key] = g
	}
	assert.True(t, byKey["u1"].Amount.Equal(decimal.NewFromInt(2500)))
	assert.True(t, byKey["u2"].Amount.Equal(decimal.NewFromInt(6000)))
}

func TestReportService_DateRangeInclusive(t *testing.T) {
	svc, _ := newReportFixture()

	resp, err := svc.ConfirmedSales(context.Background(), dto.OrderReportRequest{
		From: "2026-08-02", To: "2026-08-02", GroupBy: "date",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalOrders)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(6000)))
}

func TestReportService_UserFilter(t *testing.T) {
	svc, _ := newReportFixture()

	resp, err := svc.ConfirmedSales(context.Background(), dto.OrderReportRequest{UserID: "u1", GroupBy: "date"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalOrders)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(2500)))
}

func TestReportService_BadRange(t *testing.T) {
	svc, _ := newReportFixture()

	_, err := svc.ConfirmedSales(context.Background(), dto.OrderReportRequest{From: "not-a-date"})
	assert.ErrorIs(t, err, ErrBadReportRange)

	_, err = svc.ConfirmedSales(context.Background(), dto.OrderReportRequest{From: "2026-08-05", To: "2026-08-01"})
	assert.ErrorIs(t, err, ErrBadReportRange)
}

func TestReportService_EmptyResult(t *testing.T) {
	svc := NewReportService(newMockOrderRepo(newMockProductRepo()))

	resp, err := svc.ConfirmedSales(context.Background(), dto.OrderReportRequest{GroupBy: "date"})
	require.NoError(t, err)
	assert.Empty(t, resp.Groups)
	assert.Equal(t, 0, resp.TotalOrders)
	assert.True(t, resp.TotalAmount.IsZero())
}
