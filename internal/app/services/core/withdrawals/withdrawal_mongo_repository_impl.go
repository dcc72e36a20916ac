package withdrawals

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

type WithdrawalMongoRepository struct {
	Collection *mongo.Collection
}

func NewWithdrawalMongoRepository(db *mongo.Client, dbName string) contracts.WithdrawalRepository {
	return &WithdrawalMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionWithdrawals),
	}
}

func (repo *WithdrawalMongoRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) (string, error) {
	now := time.Now()
	withdrawal.CreatedAt = now
	withdrawal.UpdatedAt = now

	result, err := repo.Collection.InsertOne(ctx, withdrawal)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", exceptions.ErrMongoDBInsertDocument(mongo.ErrNilDocument)
	}
	withdrawal.ID = insertedID.Hex()
	return withdrawal.ID, nil
}

func (repo *WithdrawalMongoRepository) FindByPayoutID(ctx context.Context, payoutID string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := repo.Collection.FindOne(ctx, bson.M{"payoutId": payoutID}).Decode(&withdrawal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &withdrawal, nil
}

func (repo *WithdrawalMongoRepository) Update(ctx context.Context, withdrawal *models.Withdrawal) error {
	objectID, err := primitive.ObjectIDFromHex(withdrawal.ID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	withdrawal.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"status":        withdrawal.Status,
		"failureReason": withdrawal.FailureReason,
		"statusHistory": withdrawal.StatusHistory,
		"payoutId":      withdrawal.PayoutID,
		"updatedAt":     withdrawal.UpdatedAt,
	}}

	_, err = repo.Collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
