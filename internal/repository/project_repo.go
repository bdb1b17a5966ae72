package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"formflow/internal/model"
)

// ProjectRepo handles MongoDB operations for projects
type ProjectRepo interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID string, inTrash bool) ([]*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	SetDeleted(ctx context.Context, id string, deletedAt *time.Time) error
	Purge(ctx context.Context, id string) error
}

type projectRepo struct {
	collection *mongo.Collection
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *mongo.Database) ProjectRepo {
	return &projectRepo{
		collection: db.Collection("projects"),
	}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, project)
	return err
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) ListByOwner(ctx context.Context, ownerID string, inTrash bool) ([]*model.Project, error) {
	filter := bson.M{"ownerId": ownerID}
	if inTrash {
		filter["deletedAt"] = bson.M{"$ne": nil}
	} else {
		filter["deletedAt"] = nil
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []*model.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) Update(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	return err
}

func (r *projectRepo) SetDeleted(ctx context.Context, id string, deletedAt *time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"deletedAt": deletedAt, "updatedAt": time.Now()},
	})
	return err
}

func (r *projectRepo) Purge(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
