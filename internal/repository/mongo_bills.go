package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"achievo/internal/models"
)

type mongoBills struct {
	col *mongo.Collection
}

// NewMongoBills creates a Bills repository backed by the utility_bills
// collection.
func NewMongoBills(db *mongo.Database) Bills {
	return &mongoBills{col: db.Collection("utility_bills")}
}

func (r *mongoBills) FindByID(ctx context.Context, id primitive.ObjectID) (*models.UtilityBill, error) {
	var bill models.UtilityBill
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&bill); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

func (r *mongoBills) ListByType(ctx context.Context, userID primitive.ObjectID, billType models.BillType, newestFirst bool, limit int64) ([]models.UtilityBill, error) {
	order := 1
	if newestFirst {
		order = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: order}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID, "bill_type": billType}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bills := []models.UtilityBill{}
	if err := cur.All(ctx, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *mongoBills) MonthlyTotals(ctx context.Context, userID primitive.ObjectID, billType models.BillType, monthStart time.Time) (BillTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":   userID,
			"bill_type": billType,
			"date":      bson.M{"$gte": monthStart},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"total_amount":      bson.M{"$sum": "$amount"},
			"total_consumption": bson.M{"$sum": "$consumption"},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return BillTotals{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		TotalAmount      float64 `bson:"total_amount"`
		TotalConsumption float64 `bson:"total_consumption"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return BillTotals{}, err
	}
	if len(rows) == 0 {
		return BillTotals{}, nil
	}
	return BillTotals{Amount: rows[0].TotalAmount, Consumption: rows[0].TotalConsumption}, nil
}

func (r *mongoBills) Insert(ctx context.Context, bill *models.UtilityBill) error {
	res, err := r.col.InsertOne(ctx, bill)
	if err != nil {
		return err
	}
	bill.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoBills) Update(ctx context.Context, bill *models.UtilityBill) error {
	update := bson.M{"$set": bson.M{
		"bill_type":   bill.BillType,
		"amount":      bill.Amount,
		"consumption": bill.Consumption,
		"unit":        bill.Unit,
		"date":        bill.Date,
		"notes":       bill.Notes,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": bill.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBills) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBills) DeleteByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
