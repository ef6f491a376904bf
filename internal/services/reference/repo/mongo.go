// Package repo provides the reference record sources: MongoDB and Postgres
package repo

import (
	"context"
	"errors"
	"math"
	"strconv"

	perr "pfascheck/internal/platform/errors"
	mgo "pfascheck/internal/platform/store/mongo"
	"pfascheck/internal/services/reference/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// DefaultField is the record field holding zip codes
const DefaultField = "ZIP Codes"

// finder is the slice of *mongo.Collection the source needs
type finder interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Mongo reads every document of one collection, projecting only the zip field
type Mongo struct {
	coll  finder
	field string
}

// NewMongo binds a source to collection on the client's database
func NewMongo(c *mgo.Client, collection, field string) *Mongo {
	return newMongo(c.Collection(collection), field)
}

func newMongo(f finder, field string) *Mongo {
	if field == "" {
		field = DefaultField
	}
	return &Mongo{coll: f, field: field}
}

// Name implements domain.Source
func (m *Mongo) Name() string { return "mongo" }

// Records implements domain.Source
func (m *Mongo) Records(ctx context.Context) ([]domain.Record, error) {
	proj := bson.D{{Key: m.field, Value: 1}, {Key: "_id", Value: 0}}
	cur, err := m.coll.Find(ctx, bson.D{}, options.Find().SetProjection(proj))
	if err != nil {
		return nil, perr.FromStore(err, "find reference records")
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []domain.Record
	for cur.Next(ctx) {
		rv, err := cur.Current.LookupErr(m.field)
		if err != nil {
			if errors.Is(err, bsoncore.ErrElementNotFound) {
				out = append(out, domain.Record{Codes: domain.Missing()})
				continue
			}
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "decode reference record")
		}
		out = append(out, domain.Record{Codes: decodeField(rv)})
	}
	if err := cur.Err(); err != nil {
		return nil, perr.FromStore(err, "iterate reference records")
	}
	return out, nil
}

// decodeField maps the loosely typed document field onto the CodeField variant
func decodeField(rv bson.RawValue) domain.CodeField {
	switch rv.Type {
	case bsontype.String:
		return domain.Delimited(rv.StringValue())
	case bsontype.Array:
		vals, err := rv.Array().Values()
		if err != nil {
			return domain.Missing()
		}
		codes := make([]string, 0, len(vals))
		for _, v := range vals {
			if s, ok := scalar(v); ok {
				codes = append(codes, s)
			}
		}
		return domain.List(codes...)
	default:
		if s, ok := scalar(rv); ok {
			return domain.List(s)
		}
		return domain.Missing()
	}
}

// scalar stringifies a single value; null, empty and zero values are skipped
func scalar(v bson.RawValue) (string, bool) {
	switch v.Type {
	case bsontype.String:
		s := v.StringValue()
		return s, s != ""
	case bsontype.Int32:
		n := v.Int32()
		return strconv.FormatInt(int64(n), 10), n != 0
	case bsontype.Int64:
		n := v.Int64()
		return strconv.FormatInt(n, 10), n != 0
	case bsontype.Double:
		f := v.Double()
		if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	default:
		return "", false
	}
}
