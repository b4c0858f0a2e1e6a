package mongodb

import (
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edgefold/monograph/pkg/document"
	"github.com/edgefold/monograph/pkg/errors"
)

const duplicateKeyCode = 11000

// BuildProjection returns the find projection for a fetch restricted to
// fields. The reserved identity fields are always included so derived
// node and edge identities survive the projection. A nil return means
// whole documents.
func BuildProjection(fields []string) bson.D {
	if len(fields) == 0 {
		return nil
	}

	proj := bson.D{
		{Key: document.FieldKey, Value: 1},
		{Key: document.FieldFrom, Value: 1},
		{Key: document.FieldTo, Value: 1},
	}
	seen := map[string]bool{
		document.FieldKey:  true,
		document.FieldFrom: true,
		document.FieldTo:   true,
	}
	for _, f := range fields {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		proj = append(proj, bson.E{Key: f, Value: 1})
	}
	return proj
}

// BuildReplaceModels returns upsert models that replace whole documents
// by key.
func BuildReplaceModels(docs []document.Document) ([]mongo.WriteModel, error) {
	models := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		id, ok := doc[document.FieldKey]
		if !ok {
			return nil, errors.New(errors.ErrorTypeValidation, "document missing _id for replace")
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{document.FieldKey: id}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	return models, nil
}

// BuildUpdateModels returns upsert models that merge document fields
// into existing documents by key. The key stays in the filter only
// because MongoDB rejects _id inside $set; documents that carry nothing
// beyond their key degrade to ensure-exists upserts.
func BuildUpdateModels(docs []document.Document) ([]mongo.WriteModel, error) {
	models := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		id, ok := doc[document.FieldKey]
		if !ok {
			return nil, errors.New(errors.ErrorTypeValidation, "document missing _id for update")
		}

		set := make(bson.M, len(doc))
		for k, v := range doc {
			if k != document.FieldKey {
				set[k] = v
			}
		}

		var update bson.M
		if len(set) == 0 {
			update = bson.M{"$setOnInsert": bson.M{document.FieldKey: id}}
		} else {
			update = bson.M{"$set": set}
		}

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{document.FieldKey: id}).
			SetUpdate(update).
			SetUpsert(true))
	}
	return models, nil
}

// IsDuplicateKeyErr reports whether err carries a duplicate key write
// error.
func IsDuplicateKeyErr(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// duplicateCount inspects a bulk write failure and counts write errors
// caused by duplicate keys. other reports whether the failure contains
// anything beyond duplicates.
func duplicateCount(err error) (dups int, other bool) {
	var bwe mongo.BulkWriteException
	if !stderrors.As(err, &bwe) {
		return 0, true
	}
	for _, we := range bwe.WriteErrors {
		if we.Code == duplicateKeyCode {
			dups++
		} else {
			other = true
		}
	}
	if bwe.WriteConcernError != nil {
		other = true
	}
	return dups, other
}
