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

type PatientMongoRepository struct {
	Collection *mongo.Collection
}

func NewPatientMongoRepository(db *mongo.Client, dbName string) contracts.PatientRepository {
	return &PatientMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionPatients),
	}
}

func (repo *PatientMongoRepository) FindByID(ctx context.Context, patientID string) (*models.Patient, error) {
	objectID, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var patient models.Patient
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&patient)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &patient, nil
}

// DebitSubscriptionCredit decrements one credit only if one is available; the
// conditional filter makes the debit atomic.
func (repo *PatientMongoRepository) DebitSubscriptionCredit(ctx context.Context, patientID string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}

	filter := bson.M{
		"_id":                 objectID,
		"subscriptionCredits": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"subscriptionCredits": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	result, err := repo.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount > 0, nil
}

// DebitInsuranceAllowance reserves amount against the remaining policy limit
// with the same conditional-filter idiom, so two concurrent checkouts can
// never both pass against the same cover.
func (repo *PatientMongoRepository) DebitInsuranceAllowance(ctx context.Context, patientID string, amount float64) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}

	filter := bson.M{
		"_id":                  objectID,
		"insuranceProvider":    bson.M{"$ne": ""},
		"insurancePolicyLimit": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"insurancePolicyLimit": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	result, err := repo.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount > 0, nil
}
