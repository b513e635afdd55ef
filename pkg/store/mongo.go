package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	kaleio "github.com/matzehuels/kale/pkg/io"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string // default "kale"
	Collection string // default "functions"
}

// MongoStore keeps one document per function, keyed by name:
//
//	{_id: "main", tree: {version: 1, root: {...}}, updated_at: ISODate(...)}
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

type functionDoc struct {
	Name      string    `bson:"_id"`
	Tree      bson.D    `bson:"tree,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo store: empty URI")
	}
	if cfg.Database == "" {
		cfg.Database = "kale"
	}
	if cfg.Collection == "" {
		cfg.Collection = "functions"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		now:    time.Now,
	}, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "tree", Value: 0}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, failed(err, "list", s.coll.Name())
	}
	var docs []functionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, failed(err, "list", s.coll.Name())
	}
	out := make([]Summary, len(docs))
	for i, d := range docs {
		out[i] = Summary{Name: d.Name, UpdatedAt: d.UpdatedAt.UTC()}
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*Function, error) {
	if err := errors.ValidateFunctionName(name); err != nil {
		return nil, err
	}
	var doc functionDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, failed(err, "get", name)
	}
	return fromDoc(doc)
}

func (s *MongoStore) Put(ctx context.Context, name string, tree expr.Expr) error {
	if err := errors.ValidateFunctionName(name); err != nil {
		return err
	}
	if tree == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil tree for %q", name)
	}
	doc, err := toDoc(name, tree, s.now())
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: name}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return failed(err, "put", name)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateFunctionName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: name}})
	if err != nil {
		return failed(err, "delete", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// toDoc embeds the tree's JSON document as a nested BSON document.
func toDoc(name string, tree expr.Expr, now time.Time) (functionDoc, error) {
	data, err := kaleio.Marshal(tree)
	if err != nil {
		return functionDoc{}, failed(err, "encode", name)
	}
	var d bson.D
	if err := bson.UnmarshalExtJSON(data, false, &d); err != nil {
		return functionDoc{}, failed(err, "encode", name)
	}
	return functionDoc{Name: name, Tree: d, UpdatedAt: now.UTC()}, nil
}

func fromDoc(doc functionDoc) (*Function, error) {
	data, err := bson.MarshalExtJSON(doc.Tree, false, false)
	if err != nil {
		return nil, failed(err, "decode", doc.Name)
	}
	tree, err := kaleio.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("function %q: %w", doc.Name, err)
	}
	return &Function{Name: doc.Name, Tree: tree, UpdatedAt: doc.UpdatedAt.UTC()}, nil
}

var _ Store = (*MongoStore)(nil)
