package mongodb

import (
	"context"
	stderrors "errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/edgefold/monograph/pkg/document"
	"github.com/edgefold/monograph/pkg/errors"
)

// GraphDefinition loads the stored definition of a named graph.
func (s *Store) GraphDefinition(ctx context.Context, name string) (*document.GraphDefinition, error) {
	var def document.GraphDefinition
	err := s.graphs.FindOne(ctx, bson.M{"_id": name}).Decode(&def)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "graph %q is not defined", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeConnection, "failed to load definition of graph %q", name)
	}
	return &def, nil
}

// SaveGraphDefinition stores or replaces the definition of a named graph.
func (s *Store) SaveGraphDefinition(ctx context.Context, def *document.GraphDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	_, err := s.graphs.ReplaceOne(ctx, bson.M{"_id": def.Name}, def, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrapf(err, errors.ErrorTypeConnection, "failed to save definition of graph %q", def.Name)
	}
	s.logger.Info("graph definition saved",
		zap.String("graph", def.Name),
		zap.Int("edge_definitions", len(def.EdgeDefinitions)))
	return nil
}

// DeleteGraphDefinition removes the definition of a named graph. The
// collections the graph referred to are left untouched.
func (s *Store) DeleteGraphDefinition(ctx context.Context, name string) error {
	res, err := s.graphs.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrapf(err, errors.ErrorTypeConnection, "failed to delete definition of graph %q", name)
	}
	if res.DeletedCount == 0 {
		return errors.Newf(errors.ErrorTypeNotFound, "graph %q is not defined", name)
	}
	s.logger.Info("graph definition deleted", zap.String("graph", name))
	return nil
}

// HasGraph reports whether a named graph is defined.
func (s *Store) HasGraph(ctx context.Context, name string) (bool, error) {
	n, err := s.graphs.CountDocuments(ctx, bson.M{"_id": name})
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrorTypeConnection, "failed to look up graph %q", name)
	}
	return n > 0, nil
}

// ListGraphs returns the names of all defined graphs in sorted order.
func (s *Store) ListGraphs(ctx context.Context) ([]string, error) {
	proj := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.graphs.Find(ctx, bson.M{}, proj)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to list graphs")
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var row struct {
			Name string `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode graph definition")
		}
		names = append(names, row.Name)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "cursor failed while listing graphs")
	}

	sort.Strings(names)
	return names, nil
}
