package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

const collectionRecords = "records"

type dayDoc struct {
	UID    string            `bson:"uid"`
	Date   string            `bson:"date"`
	Events map[string]string `bson:"events"`
}

// AttendanceRepository stores the ledger one document per employee-day.
type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionRecords)}
}

func (r *AttendanceRepository) Load(ctx context.Context) (domain.Ledger, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ledger := make(domain.Ledger)
	for cur.Next(ctx) {
		var doc dayDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		day := make(domain.DayRecord, len(doc.Events))
		for ev, hhmm := range doc.Events {
			day[domain.EventName(ev)] = hhmm
		}
		days, ok := ledger[doc.UID]
		if !ok {
			days = make(map[string]domain.DayRecord)
			ledger[doc.UID] = days
		}
		days[doc.Date] = day
	}
	return ledger, cur.Err()
}

// Save reconciles the collection with the snapshot: upsert every
// employee-day, then drop documents for UIDs that left the ledger
// (a purge removes every day of that employee).
func (r *AttendanceRepository) Save(ctx context.Context, ledger domain.Ledger) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uids := make([]string, 0, len(ledger))
	for uid, days := range ledger {
		uids = append(uids, uid)
		for date, day := range days {
			events := make(map[string]string, len(day))
			for ev, hhmm := range day {
				events[string(ev)] = hhmm
			}
			_, err := r.col.ReplaceOne(ctx,
				bson.M{"uid": uid, "date": date},
				dayDoc{UID: uid, Date: date, Events: events},
				options.Replace().SetUpsert(true))
			if err != nil {
				return err
			}
		}
	}

	_, err := r.col.DeleteMany(ctx, bson.M{"uid": bson.M{"$nin": uids}})
	return err
}

// EnsureIndexes creates the employee-day lookup index.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
