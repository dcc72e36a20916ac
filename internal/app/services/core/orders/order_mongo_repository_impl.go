package orders

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderMongoRepository struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	Audits     *mongo.Collection
	Counters   *mongo.Collection
}

func NewOrderMongoRepository(db *mongo.Client, dbName string) contracts.OrderRepository {
	database := db.Database(dbName)
	return &OrderMongoRepository{
		Client:     db,
		Collection: database.Collection(constvars.MongoCollectionOrders),
		Audits:     database.Collection(constvars.MongoCollectionOrderAudits),
		Counters:   database.Collection(constvars.MongoCollectionCounters),
	}
}

// NextOrderSequence reserves the next order number through an upserted
// findOneAndUpdate $inc, so concurrent materializations can never collide.
func (repo *OrderMongoRepository) NextOrderSequence(ctx context.Context) (int64, error) {
	filter := bson.M{"_id": "order_code"}
	update := bson.M{"$inc": bson.M{"value": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Value int64 `bson:"value"`
	}
	if err := repo.Counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return counter.Value, nil
}

func (repo *OrderMongoRepository) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	result, err := repo.Collection.InsertOne(ctx, order)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", exceptions.ErrMongoDBInsertDocument(mongo.ErrNilDocument)
	}
	order.ID = insertedID.Hex()
	return order.ID, nil
}

func (repo *OrderMongoRepository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	objectID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var order models.Order
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &order, nil
}

func (repo *OrderMongoRepository) FindByPatientID(ctx context.Context, patientID string) ([]models.Order, error) {
	return repo.findAll(ctx, bson.M{"patientId": patientID})
}

func (repo *OrderMongoRepository) FindByClinicID(ctx context.Context, clinicID string) ([]models.Order, error) {
	return repo.findAll(ctx, bson.M{"clinicId": clinicID})
}

func (repo *OrderMongoRepository) findAll(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return orders, nil
}

func (repo *OrderMongoRepository) FindByProviderReference(ctx context.Context, provider, providerReference string) (*models.Order, error) {
	var filter bson.M
	switch provider {
	case constvars.ProviderPawaPay:
		filter = bson.M{"pawaPayInfo.depositId": providerReference}
	case constvars.ProviderYellowCard:
		filter = bson.M{"yellowCardInfo.sequenceId": providerReference}
	default:
		return nil, nil
	}

	var order models.Order
	err := repo.Collection.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &order, nil
}

func (repo *OrderMongoRepository) UpdateOrder(ctx context.Context, order *models.Order) error {
	objectID, err := primitive.ObjectIDFromHex(order.ID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	order.UpdatedAt = time.Now()
	update := bson.M{"$set": toUpdateDocument(order)}

	_, err = repo.Collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// UpdateOrderWithAudit runs the order mutation and its audit insert inside one
// transaction, so a reader never sees a changed order without its trail.
func (repo *OrderMongoRepository) UpdateOrderWithAudit(ctx context.Context, order *models.Order, audit *models.OrderAuditRecord) error {
	objectID, err := primitive.ObjectIDFromHex(order.ID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	session, err := repo.Client.StartSession()
	if err != nil {
		return exceptions.ErrMongoDBTransaction(err)
	}
	defer session.EndSession(ctx)

	order.UpdatedAt = time.Now()
	audit.CreatedAt = order.UpdatedAt

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		update := bson.M{"$set": toUpdateDocument(order)}
		if _, err := repo.Collection.UpdateByID(sessCtx, objectID, update); err != nil {
			return nil, exceptions.ErrMongoDBUpdateDocument(err)
		}
		if _, err := repo.Audits.InsertOne(sessCtx, audit); err != nil {
			return nil, exceptions.ErrMongoDBInsertDocument(err)
		}
		return nil, nil
	})
	if err != nil {
		return exceptions.ErrMongoDBTransaction(err)
	}
	return nil
}

func (repo *OrderMongoRepository) CountTestsScheduledAt(ctx context.Context, clinicID string, slot time.Time) (int64, error) {
	filter := bson.M{
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

	count, err := repo.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, exceptions.ErrMongoDBFindDocument(err)
	}
	return count, nil
}

// toUpdateDocument lists the mutable order fields. The identity fields
// (orderCode, clinicId, patientId, createdAt) never change after creation.
func toUpdateDocument(order *models.Order) bson.M {
	return bson.M{
		"tests":           order.Tests,
		"paymentMethod":   order.PaymentMethod,
		"paymentStatus":   order.PaymentStatus,
		"deliveryMethod":  order.DeliveryMethod,
		"deliveryAddress": order.DeliveryAddress,
		"pawaPayInfo":     order.PawaPayInfo,
		"yellowCardInfo":  order.YellowCardInfo,
		"failureReason":   order.FailureReason,
		"updatedAt":       order.UpdatedAt,
	}
}
