package carts

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

type cartGrouper struct {
	CartItemRepository contracts.CartItemRepository
	LabTestRepository  contracts.LabTestRepository
	Discounts          contracts.DiscountService
	Log                *zap.Logger
}

var (
	cartGrouperInstance contracts.CartGrouper
	onceCartGrouper     sync.Once
)

func NewCartGrouper(
	cartItemRepository contracts.CartItemRepository,
	labTestRepository contracts.LabTestRepository,
	discounts contracts.DiscountService,
	logger *zap.Logger,
) contracts.CartGrouper {
	onceCartGrouper.Do(func() {
		cartGrouperInstance = &cartGrouper{
			CartItemRepository: cartItemRepository,
			LabTestRepository:  labTestRepository,
			Discounts:          discounts,
			Log:                logger,
		}
	})
	return cartGrouperInstance
}

// GroupPendingCart resolves each pending cart item to a test snapshot, applies
// any discount and partitions the result by clinic. No writes happen here, so
// a retried checkout can re-run it safely.
func (g *cartGrouper) GroupPendingCart(ctx context.Context, patientID string) ([]contracts.OrderGroup, error) {
	requestID := getRequestID(ctx)
	items, err := g.CartItemRepository.FindPendingByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientCartEmpty, "no pending cart items for patient")
	}

	groupsByClinic := make(map[string]*contracts.OrderGroup)
	for i := range items {
		item := &items[i]
		test, err := g.LabTestRepository.FindByID(ctx, item.TestID)
		if err != nil {
			return nil, err
		}
		if test == nil {
			return nil, exceptions.BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientTestNotFound, "cart item references a missing test")
		}
		if err := g.Discounts.Revalidate(ctx, item, test); err != nil {
			return nil, err
		}

		snapshot := models.OrderTest{
			TestID:        test.ID,
			Name:          test.Name,
			Price:         finalPrice(test, item.Discount),
			Turnaround:    test.Turnaround,
			Description:   test.Description,
			Image:         test.Image,
			ScheduledAt:   item.ScheduledAt,
			Status:        models.TestStatusPending,
			StatusHistory: nil,
		}

		group, ok := groupsByClinic[item.ClinicID]
		if !ok {
			group = &contracts.OrderGroup{ClinicID: item.ClinicID}
			groupsByClinic[item.ClinicID] = group
		}
		group.Tests = append(group.Tests, snapshot)
		group.TotalAmount += snapshot.Price
		group.CartItemIDs = append(group.CartItemIDs, item.ID)
	}

	groups := make([]contracts.OrderGroup, 0, len(groupsByClinic))
	for _, group := range groupsByClinic {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ClinicID < groups[j].ClinicID })

	g.Log.Info("cartGrouper.GroupPendingCart grouped cart",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.Int("group_count", len(groups)),
	)
	return groups, nil
}

// finalPrice prefers the discount's computed final price when positive.
func finalPrice(test *models.LabTest, discount *models.Discount) float64 {
	if discount != nil && discount.FinalPrice > 0 {
		return discount.FinalPrice
	}
	return test.Price
}

func getRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	return requestID
}
