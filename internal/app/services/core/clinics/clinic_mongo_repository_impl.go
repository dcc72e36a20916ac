package clinics

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

type ClinicMongoRepository struct {
	Collection *mongo.Collection
}

func NewClinicMongoRepository(db *mongo.Client, dbName string) contracts.ClinicRepository {
	return &ClinicMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionClinics),
	}
}

func (repo *ClinicMongoRepository) FindByID(ctx context.Context, clinicID string) (*models.Clinic, error) {
	objectID, err := primitive.ObjectIDFromHex(clinicID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var clinic models.Clinic
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&clinic)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &clinic, nil
}

func (repo *ClinicMongoRepository) FindByIDs(ctx context.Context, clinicIDs []string) ([]models.Clinic, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(clinicIDs))
	for _, id := range clinicIDs {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, exceptions.ErrMongoDBNotObjectID(err)
		}
		objectIDs = append(objectIDs, objectID)
	}

	cursor, err := repo.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var result []models.Clinic
	if err := cursor.All(ctx, &result); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return result, nil
}

// IncrementBalance applies delta with $inc so concurrent order completions and
// withdrawals against the same clinic never lose an update.
func (repo *ClinicMongoRepository) IncrementBalance(ctx context.Context, clinicID string, delta float64) error {
	objectID, err := primitive.ObjectIDFromHex(clinicID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	update := bson.M{
		"$inc": bson.M{"balance": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err = repo.Collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// DebitBalance only matches when the balance covers the amount, so a
// concurrent withdrawal can never overdraw the clinic.
func (repo *ClinicMongoRepository) DebitBalance(ctx context.Context, clinicID string, amount float64) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(clinicID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}

	filter := bson.M{
		"_id":     objectID,
		"balance": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"balance": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	result, err := repo.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount > 0, nil
}
