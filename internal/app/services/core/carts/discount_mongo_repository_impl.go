package carts

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

type DiscountMongoRepository struct {
	Collection *mongo.Collection
}

func NewDiscountMongoRepository(db *mongo.Client, dbName string) contracts.DiscountRepository {
	return &DiscountMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionDiscounts),
	}
}

func (repo *DiscountMongoRepository) FindActiveByCode(ctx context.Context, code string, at time.Time) (*models.DiscountCampaign, error) {
	filter := bson.M{
		"code":     code,
		"active":   true,
		"startsAt": bson.M{"$lte": at},
		"endsAt":   bson.M{"$gt": at},
	}

	var campaign models.DiscountCampaign
	err := repo.Collection.FindOne(ctx, filter).Decode(&campaign)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &campaign, nil
}
