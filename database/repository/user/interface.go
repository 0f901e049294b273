// File: database/repository/user/interface.go
package userRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"medibook/database"
	"medibook/models"
)

// UserRepository is a read-mostly directory of patients, doctors and admins.
// Account management (signup, credentials) lives in the identity service; the
// engine only resolves ids to roles and notification addresses.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListDoctors(ctx context.Context) ([]models.User, error)
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a new MongoDB UserRepository.
func NewMongoUserRepo() UserRepository {
	db := database.DB()
	return &mongoUserRepo{
		coll: db.Collection("users"),
	}
}
