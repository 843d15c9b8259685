package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"cleansweep/internal/db"
	"cleansweep/internal/model"
)

type mongoReportRepository struct {
	col *mongo.Collection
}

// NewMongoReportRepository builds a MongoDB-backed report repository.
func NewMongoReportRepository(database *mongo.Database) ReportRepository {
	return &mongoReportRepository{col: database.Collection(db.ReportsCollection)}
}

func (r *mongoReportRepository) Create(ctx context.Context, report *model.Report) error {
	applyReportDefaults(report)
	if report.MediaURLs == nil {
		report.MediaURLs = model.StringList{}
	}
	if _, err := r.col.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("insert report: %w", translateMongoError(err))
	}
	return nil
}

// ownerHiddenFields are the user fields stripped from joined owners.
var ownerHiddenFields = []string{
	"password_hash", "role", "superadmin_slot", "total_points", "spent_points", "created_at", "updated_at",
}

// reportWithOwner is a report joined with its owner by $lookup.
type reportWithOwner struct {
	model.Report `bson:",inline"`
	OwnerDocs    []model.Owner `bson:"owner_docs"`
}

func (r *mongoReportRepository) List(ctx context.Context, withOwner bool) ([]model.Report, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if withOwner {
		pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: db.UsersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner_docs"},
		}}})
		// keep only the public owner fields
		hidden := bson.D{}
		for _, field := range ownerHiddenFields {
			hidden = append(hidden, bson.E{Key: "owner_docs." + field, Value: 0})
		}
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: hidden}})
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	var rows []reportWithOwner
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}

	reports := make([]model.Report, 0, len(rows))
	for _, row := range rows {
		rep := row.Report
		if len(row.OwnerDocs) > 0 {
			owner := row.OwnerDocs[0]
			rep.Owner = &owner
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func (r *mongoReportRepository) CountByType(ctx context.Context) (map[model.ReportType]int64, error) {
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	var rows []struct {
		Type  model.ReportType `bson:"_id"`
		Count int64            `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode report counts: %w", err)
	}
	counts := map[model.ReportType]int64{model.ReportTypeReport: 0, model.ReportTypeCleanup: 0}
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
