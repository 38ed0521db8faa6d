package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aegisid/identity-service/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository persists User aggregates. Role assignments are stored as
// role-id references and rehydrated through the role repository on load.
type UserRepository struct {
	col   *mongo.Collection
	roles *RoleRepository
}

func NewUserRepository(db *mongo.Database, roles *RoleRepository) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers), roles: roles}
}

type userDocument struct {
	ID           string   `bson:"_id"`
	Email        string   `bson:"email"`
	PasswordHash string   `bson:"password_hash"`
	RoleIDs      []string `bson:"role_ids"`
	Active       bool     `bson:"active"`
	UpdatedAt    int64    `bson:"updated_at"`
}

func (r *UserRepository) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email.String()})
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"email": email.String()})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// Save upserts the user document keyed by aggregate id. A duplicate-key error
// on the unique email index surfaces as ErrEmailAlreadyRegistered so
// concurrent registrations for the same email cannot both win.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDocument{
		ID:           user.ID().String(),
		Email:        user.Email().String(),
		PasswordHash: string(user.PasswordHash()),
		RoleIDs:      user.RoleIDs(),
		Active:       user.IsActive(),
		UpdatedAt:    time.Now().UTC().Unix(),
	}

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailAlreadyRegistered
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return r.restoreUser(ctx, doc)
}

func (r *UserRepository) restoreUser(ctx context.Context, doc userDocument) (*domain.User, error) {
	id, err := domain.ParseUserID(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user document %q: %w", doc.ID, err)
	}
	email, err := domain.NewEmail(doc.Email)
	if err != nil {
		return nil, fmt.Errorf("corrupt user document %q: %w", doc.ID, err)
	}
	hash, err := domain.NewPasswordHash(doc.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("corrupt user document %q: %w", doc.ID, err)
	}

	roles := make([]*domain.Role, 0, len(doc.RoleIDs))
	for _, raw := range doc.RoleIDs {
		roleID, err := domain.ParseRoleID(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt user document %q: %w", doc.ID, err)
		}
		role, err := r.roles.FindByID(ctx, roleID)
		if err != nil {
			// A dangling reference means the role was deleted out of band;
			// skip it rather than lock the account out.
			if errors.Is(err, domain.ErrRoleNotFound) {
				continue
			}
			return nil, err
		}
		roles = append(roles, role)
	}

	return domain.RestoreUser(id, email, hash, roles, doc.Active), nil
}
