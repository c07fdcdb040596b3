package source

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/datacanvas/pkg/errors"
	"github.com/matzehuels/datacanvas/pkg/value"
)

// DefaultMongoLimit caps the number of documents read when Limit is zero.
const DefaultMongoLimit = 100

// Mongo reads records from a MongoDB collection. Documents keep their field
// order.
type Mongo struct {
	URI        string
	Database   string
	Collection string
	Filter     bson.D
	Limit      int64
	// ExcludeID drops the _id field from each record.
	ExcludeID bool
}

func (m Mongo) Name() string {
	return fmt.Sprintf("mongo:%s.%s", m.Database, m.Collection)
}

func (m Mongo) Records(ctx context.Context) ([]value.Value, error) {
	if m.URI == "" || m.Database == "" || m.Collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidSource, "mongo source needs uri, database and collection")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to %s", m.Name())
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	limit := m.Limit
	if limit <= 0 {
		limit = DefaultMongoLimit
	}
	find := options.Find().SetLimit(limit)
	if m.ExcludeID {
		find.SetProjection(bson.D{{Key: "_id", Value: 0}})
	}
	filter := m.Filter
	if filter == nil {
		filter = bson.D{}
	}

	cur, err := client.Database(m.Database).Collection(m.Collection).Find(ctx, filter, find)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s", m.Name())
	}
	defer cur.Close(ctx)

	var records []value.Value
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document from %s", m.Name())
		}
		v, err := FromBSON(doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "convert document from %s", m.Name())
		}
		records = append(records, v)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", m.Name())
	}
	return records, nil
}

// FromBSON converts a decoded BSON value. Object IDs, dates and decimals become
// strings.
func FromBSON(x any) (value.Value, error) {
	switch t := x.(type) {
	case bson.D:
		members := make([]value.Member, len(t))
		for i, e := range t {
			v, err := FromBSON(e.Value)
			if err != nil {
				return value.Value{}, fmt.Errorf("%s: %w", e.Key, err)
			}
			members[i] = value.M(e.Key, v)
		}
		return value.NewObject(members...), nil
	case bson.A:
		items := make([]value.Value, len(t))
		for i, item := range t {
			v, err := FromBSON(item)
			if err != nil {
				return value.Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return value.NewArray(items...), nil
	case bson.M:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := make(bson.D, len(keys))
		for i, k := range keys {
			d[i] = bson.E{Key: k, Value: t[k]}
		}
		return FromBSON(d)
	case primitive.ObjectID:
		return value.NewString(t.Hex()), nil
	case primitive.DateTime:
		return value.NewString(t.Time().UTC().Format(time.RFC3339Nano)), nil
	case time.Time:
		return value.NewString(t.UTC().Format(time.RFC3339Nano)), nil
	case primitive.Decimal128:
		return value.NewString(t.String()), nil
	case primitive.Null, primitive.Undefined:
		return value.NewNull(), nil
	case primitive.Binary:
		return value.NewString(fmt.Sprintf("Binary(%d bytes)", len(t.Data))), nil
	case primitive.Regex:
		return value.NewString("/" + t.Pattern + "/" + t.Options), nil
	case primitive.Timestamp:
		return value.NewNumber(float64(t.T)), nil
	}
	return value.FromAny(x)
}

// CacheRecords marks Mongo results as cacheable by the pipeline.
func (m Mongo) CacheRecords() bool { return true }
