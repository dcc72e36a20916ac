package clinics

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type LabTestMongoRepository struct {
	Collection *mongo.Collection
}

func NewLabTestMongoRepository(db *mongo.Client, dbName string) contracts.LabTestRepository {
	return &LabTestMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionLabTests),
	}
}

func (repo *LabTestMongoRepository) FindByID(ctx context.Context, testID string) (*models.LabTest, error) {
	objectID, err := primitive.ObjectIDFromHex(testID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var test models.LabTest
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&test)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &test, nil
}

func (repo *LabTestMongoRepository) FindByClinicAndNumber(ctx context.Context, clinicID string, testNumber int) (*models.LabTest, error) {
	filter := bson.M{
		"clinicId":   clinicID,
		"testNumber": testNumber,
	}

	var test models.LabTest
	err := repo.Collection.FindOne(ctx, filter).Decode(&test)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &test, nil
}
