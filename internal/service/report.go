package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
	"github.com/kzl/storefront-api/internal/repository"
)

var ErrBadReportRange = errors.New("invalid report date range")

const reportDateLayout = "2006-01-02"

// ReportService builds the confirmed-sales report: only orders currently in
// status "Order Received" count as sales.
type ReportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) *ReportService {
	return &ReportService{orderRepo: orderRepo}
}

func (s *ReportService) ConfirmedSales(ctx context.Context, req dto.OrderReportRequest) (*dto.OrderReportResponse, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	var filtered []model.Order
	for _, o := range orders {
		if o.Status != model.OrderStatusReceived {
			continue
		}
		if req.UserID != "" && o.UserID != req.UserID {
			continue
		}
		if !from.IsZero() && o.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && o.CreatedAt.After(to) {
			continue
		}
		filtered = append(filtered, o)
	}

	groups := map[string][]model.Order{}
	for _, o := range filtered {
		key := o.CreatedAt.UTC().Format(reportDateLayout)
		if req.GroupBy == "user" {
			key = o.UserID
		}
		groups[key] = append(groups[key], o)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	resp := &dto.OrderReportResponse{TotalAmount: decimal.Zero}
	for _, key := range keys {
		group := dto.ReportGroupResponse{Key: key, Amount: decimal.Zero}
		for i := range groups[key] {
			o := &groups[key][i]
			group.Orders = append(group.Orders, toOrderResponse(o))
			group.Amount = group.Amount.Add(orderAmount(o))
		}
		group.Count = len(group.Orders)
		resp.Groups = append(resp.Groups, group)
		resp.TotalOrders += group.Count
		resp.TotalAmount = resp.TotalAmount.Add(group.Amount)
	}
	return resp, nil
}

func orderAmount(o *model.Order) decimal.Decimal {
	return decimal.NewFromInt(o.Price).Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// parseRange turns inclusive yyyy-mm-dd bounds into UTC instants; empty
// strings leave the corresponding bound open.
func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	if fromStr != "" {
		t, err := time.ParseInLocation(reportDateLayout, fromStr, time.UTC)
		if err != nil {
			return from, to, ErrBadReportRange
		}
		from = t
	}
	if toStr != "" {
		t, err := time.ParseInLocation(reportDateLayout, toStr, time.UTC)
		if err != nil {
			return from, to, ErrBadReportRange
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, ErrBadReportRange
	}
	return from, to, nil
}
