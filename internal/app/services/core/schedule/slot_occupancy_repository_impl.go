package schedule

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SlotOccupancyMongoRepository answers slot-collision queries over the one
// namespace of taken slots: booked cart items and in-flight order test lines
// count the same.
type SlotOccupancyMongoRepository struct {
	CartItems *mongo.Collection
	Orders    *mongo.Collection
}

func NewSlotOccupancyMongoRepository(db *mongo.Client, dbName string) contracts.SlotOccupancyRepository {
	database := db.Database(dbName)
	return &SlotOccupancyMongoRepository{
		CartItems: database.Collection(constvars.MongoCollectionCartItems),
		Orders:    database.Collection(constvars.MongoCollectionOrders),
	}
}

func (repo *SlotOccupancyMongoRepository) IsSlotTaken(ctx context.Context, clinicID string, slot time.Time) (bool, error) {
	cartFilter := bson.M{
		"clinicId":    clinicID,
		"scheduledAt": slot,
		"status": bson.M{"$in": []models.CartItemStatus{
			models.CartItemStatusPending,
			models.CartItemStatusBooked,
		}},
	}
	cartCount, err := repo.CartItems.CountDocuments(ctx, cartFilter)
	if err != nil {
		return false, exceptions.ErrMongoDBFindDocument(err)
	}
	if cartCount > 0 {
		return true, nil
	}

	orderFilter := bson.M{
		"clinicId": clinicID,
		"tests": bson.M{"$elemMatch": bson.M{
			"scheduledAt": slot,
			"status": bson.M{"$nin": []models.OrderTestStatus{
				models.TestStatusRejected,
				models.TestStatusCancelled,
				models.TestStatusFailed,
			}},
		}},
	}
	orderCount, err := repo.Orders.CountDocuments(ctx, orderFilter)
	if err != nil {
		return false, exceptions.ErrMongoDBFindDocument(err)
	}
	return orderCount > 0, nil
}
