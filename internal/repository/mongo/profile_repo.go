package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository"
)

const profileCollectionName = "profiles"

// mongoProfileRepository implements repository.ProfileRepository using
// one document per user keyed by the user ID.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new instance of mongoProfileRepository.
// It expects a connected *mongo.Database instance.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Get retrieves the user's profile document.
func (r *mongoProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	filter := bson.M{"_id": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Save upserts the profile with merge semantics: only the keys present
// in the marshalled document are $set, anything else already stored for
// the user stays untouched. A nil Plan is omitted, so saving a profile
// without a plan never clears a confirmed one.
func (r *mongoProfileRepository) Save(ctx context.Context, userID string, profile *domain.Profile) error {
	if profile == nil {
		return errors.New("profile is required")
	}

	doc, err := bson.Marshal(profile)
	if err != nil {
		return err
	}
	var fields bson.M
	if err := bson.Unmarshal(doc, &fields); err != nil {
		return err
	}

	filter := bson.M{"_id": userID}
	update := bson.M{"$set": fields}
	opts := options.Update().SetUpsert(true)

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}
