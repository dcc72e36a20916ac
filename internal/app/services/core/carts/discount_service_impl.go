package carts

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

type discountService struct {
	DiscountRepository contracts.DiscountRepository
	CartItemRepository contracts.CartItemRepository
	Log                *zap.Logger
}

var (
	discountServiceInstance contracts.DiscountService
	onceDiscountService     sync.Once
)

func NewDiscountService(
	discountRepository contracts.DiscountRepository,
	cartItemRepository contracts.CartItemRepository,
	logger *zap.Logger,
) contracts.DiscountService {
	onceDiscountService.Do(func() {
		discountServiceInstance = &discountService{
			DiscountRepository: discountRepository,
			CartItemRepository: cartItemRepository,
			Log:                logger,
		}
	})
	return discountServiceInstance
}

// Revalidate refreshes the snapshot a cart item carries against the campaign
// that issued it. Campaigns get withdrawn and repriced between add-to-cart and
// checkout; whatever the snapshot said then, the campaign decides now.
func (s *discountService) Revalidate(ctx context.Context, item *models.CartItem, test *models.LabTest) error {
	if item.Discount == nil {
		return nil
	}

	campaign, err := s.DiscountRepository.FindActiveByCode(ctx, item.Discount.Code, time.Now())
	if err != nil {
		return err
	}
	if campaign == nil || !campaign.AppliesTo(item.ClinicID) {
		s.Log.Info("discountService.Revalidate cleared stale discount",
			zap.String(constvars.LoggingCartItemIDKey, item.ID),
			zap.String("discount_code", item.Discount.Code),
		)
		item.Discount = nil
		return s.CartItemRepository.UpdateDiscount(ctx, item.ID, nil)
	}

	refreshed := snapshotFor(campaign, test)
	if *item.Discount == *refreshed {
		return nil
	}
	item.Discount = refreshed
	return s.CartItemRepository.UpdateDiscount(ctx, item.ID, refreshed)
}

// ResolveForTest prices a public booking's discount code. Public bookings
// carry no cart item, so the snapshot lives on the staging record instead.
func (s *discountService) ResolveForTest(ctx context.Context, code string, test *models.LabTest) (*models.Discount, error) {
	campaign, err := s.DiscountRepository.FindActiveByCode(ctx, code, time.Now())
	if err != nil {
		return nil, err
	}
	if campaign == nil || !campaign.AppliesTo(test.ClinicID) {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusUnprocessableEntity,
			constvars.ErrClientDiscountInvalid,
			fmt.Sprintf("discount code %q is not active for clinic %s", code, test.ClinicID))
	}
	return snapshotFor(campaign, test), nil
}

func snapshotFor(campaign *models.DiscountCampaign, test *models.LabTest) *models.Discount {
	final := math.Round(test.Price*(1-campaign.Percent/100)*100) / 100
	return &models.Discount{
		Code:       campaign.Code,
		Percent:    campaign.Percent,
		FinalPrice: final,
	}
}
