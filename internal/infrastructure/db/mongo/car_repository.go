package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
)

const collectionCars = "cars"

type CarRepository struct {
	col *mongo.Collection
}

func NewCarRepository(db *mongo.Database) *CarRepository {
	return &CarRepository{col: db.Collection(collectionCars)}
}

func (r *CarRepository) List(ctx context.Context) ([]*domain.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "brand", Value: 1}, {Key: "model", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	cars := make([]*domain.Car, 0)
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("decode cars: %w", err)
	}
	return cars, nil
}

func (r *CarRepository) FindByID(ctx context.Context, id string) (*domain.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Car
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCarNotFound
		}
		return nil, fmt.Errorf("find car: %w", err)
	}
	return &c, nil
}

func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, car); err != nil {
		return fmt.Errorf("insert car: %w", err)
	}
	return nil
}

// CreateMany inserts the batch in order; a failure stops at the first bad document.
func (r *CarRepository) CreateMany(ctx context.Context, cars []*domain.Car) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, len(cars))
	for i, c := range cars {
		docs[i] = c
	}
	if _, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("insert cars: %w", err)
	}
	return nil
}

func (r *CarRepository) Update(ctx context.Context, id string, p domain.CarPatch) error {
	set := bson.M{}
	if p.Brand != nil {
		set["brand"] = *p.Brand
	}
	if p.Model != nil {
		set["model"] = *p.Model
	}
	if p.Type != nil {
		set["type"] = *p.Type
	}
	if p.PricePerDay != nil {
		set["pricePerDay"] = *p.PricePerDay
	}
	if p.Available != nil {
		set["available"] = *p.Available
	}
	return r.updateOne(ctx, id, set)
}

func (r *CarRepository) SetAvailable(ctx context.Context, id string, available bool) error {
	return r.updateOne(ctx, id, bson.M{"available": available})
}

func (r *CarRepository) updateOne(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}
