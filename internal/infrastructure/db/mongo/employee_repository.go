package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

const collectionEmployees = "employees"

type employeeDoc struct {
	UID  string `bson:"_id"`
	Name string `bson:"name"`
}

// EmployeeRepository stores the registry one document per employee, keyed
// by card UID.
type EmployeeRepository struct {
	col *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{col: db.Collection(collectionEmployees)}
}

func (r *EmployeeRepository) Load(ctx context.Context) (domain.Registry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reg := make(domain.Registry)
	for cur.Next(ctx) {
		var doc employeeDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		reg[doc.UID] = doc.Name
	}
	return reg, cur.Err()
}

// Save reconciles the collection with the snapshot: upsert every entry,
// then drop documents whose UID is no longer registered.
func (r *EmployeeRepository) Save(ctx context.Context, reg domain.Registry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uids := make([]string, 0, len(reg))
	for uid, name := range reg {
		uids = append(uids, uid)
		_, err := r.col.ReplaceOne(ctx,
			bson.M{"_id": uid},
			employeeDoc{UID: uid, Name: name},
			options.Replace().SetUpsert(true))
		if err != nil {
			return err
		}
	}

	_, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": uids}})
	return err
}
