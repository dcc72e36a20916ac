package carts

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CartItemMongoRepository struct {
	Collection *mongo.Collection
}

func NewCartItemMongoRepository(db *mongo.Client, dbName string) contracts.CartItemRepository {
	return &CartItemMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionCartItems),
	}
}

func (repo *CartItemMongoRepository) FindPendingByPatientID(ctx context.Context, patientID string) ([]models.CartItem, error) {
	filter := bson.M{
		"patientId": patientID,
		"status":    models.CartItemStatusPending,
	}

	cursor, err := repo.Collection.Find(ctx, filter)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return items, nil
}

func (repo *CartItemMongoRepository) MarkBooked(ctx context.Context, cartItemIDs []string) error {
	objectIDs := make([]primitive.ObjectID, 0, len(cartItemIDs))
	for _, id := range cartItemIDs {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return exceptions.ErrMongoDBNotObjectID(err)
		}
		objectIDs = append(objectIDs, objectID)
	}

	filter := bson.M{"_id": bson.M{"$in": objectIDs}}
	update := bson.M{
		"$set": bson.M{
			"status":    models.CartItemStatusBooked,
			"updatedAt": time.Now(),
		},
	}

	_, err := repo.Collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (repo *CartItemMongoRepository) UpdateDiscount(ctx context.Context, cartItemID string, discount *models.Discount) error {
	objectID, err := primitive.ObjectIDFromHex(cartItemID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	var update bson.M
	if discount == nil {
		update = bson.M{
			"$unset": bson.M{"discount": ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		}
	} else {
		update = bson.M{
			"$set": bson.M{
				"discount":  discount,
				"updatedAt": time.Now(),
			},
		}
	}

	_, err = repo.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
