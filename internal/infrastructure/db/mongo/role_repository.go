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

const collectionRoles = "roles"

// RoleRepository persists Role aggregates. The aggregate id is the document
// _id; role names are kept unique by index.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDocument struct {
	ID          string   `bson:"_id"`
	Name        string   `bson:"name"`
	Permissions []string `bson:"permissions"`
	UpdatedAt   int64    `bson:"updated_at"`
}

func (r *RoleRepository) FindByID(ctx context.Context, id domain.RoleID) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return restoreRole(doc)
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	if err := r.col.FindOne(ctx, bson.M{"name": name.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role by name: %w", err)
	}
	return restoreRole(doc)
}

func (r *RoleRepository) ExistsByName(ctx context.Context, name domain.RoleName) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"name": name.String()})
	if err != nil {
		return false, fmt.Errorf("count roles: %w", err)
	}
	return n > 0, nil
}

// Save upserts the role document keyed by aggregate id.
func (r *RoleRepository) Save(ctx context.Context, role *domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	perms := role.Permissions()
	doc := roleDocument{
		ID:          role.ID().String(),
		Name:        role.Name().String(),
		Permissions: make([]string, len(perms)),
		UpdatedAt:   time.Now().UTC().Unix(),
	}
	for i, p := range perms {
		doc.Permissions[i] = p.String()
	}

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoleAlreadyExists
		}
		return fmt.Errorf("save role: %w", err)
	}
	return nil
}

func (r *RoleRepository) FindAll(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var roles []*domain.Role
	for cur.Next(ctx) {
		var doc roleDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		role, err := restoreRole(doc)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// EnsureIndexes creates the unique role-name index.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func restoreRole(doc roleDocument) (*domain.Role, error) {
	id, err := domain.ParseRoleID(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt role document %q: %w", doc.ID, err)
	}
	name, err := domain.NewRoleName(doc.Name)
	if err != nil {
		return nil, fmt.Errorf("corrupt role document %q: %w", doc.ID, err)
	}
	perms := make([]domain.Permission, 0, len(doc.Permissions))
	for _, raw := range doc.Permissions {
		p, err := domain.NewPermission(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt role document %q: %w", doc.ID, err)
		}
		perms = append(perms, p)
	}
	return domain.RestoreRole(id, name, perms), nil
}
