package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/jcmexdev/storefront/internal/coordinator/sagalog"
)

type sagaLogDoc struct {
	SagaID        string `bson:"saga_id"`
	Status        string `bson:"status"`
	CurrentStep   string `bson:"current_step"`
	Payload       string `bson:"payload,omitempty"`
	ErrorMessages string `bson:"error_messages"`
	TraceID       string `bson:"trace_id"`
	SpanID        string `bson:"span_id"`
	UpdatedAt     string `bson:"updated_at"`
}

// Save appends one saga transition to the saga_logs collection.
func (s *Store) Save(ctx context.Context, e *sagalog.SagaLog) error {
	_, err := s.col(colSagaLogs).InsertOne(ctx, sagaLogDoc{
		SagaID:        e.SagaID,
		Status:        string(e.Status),
		CurrentStep:   e.CurrentStep,
		Payload:       e.Payload,
		ErrorMessages: e.ErrorMessages,
		TraceID:       e.TraceID,
		SpanID:        e.SpanID,
		UpdatedAt:     e.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	return err
}

// Pending returns the latest entry of every saga whose last transition is
// not terminal, up to limit sagas.
func (s *Store) Pending(ctx context.Context, limit int) ([]sagalog.SagaLog, error) {
	pipeline := bson.A{
		bson.M{"$sort": bson.M{"_id": 1}},
		bson.M{"$group": bson.M{
			"_id":            "$saga_id",
			"first":          bson.M{"$first": "$_id"},
			"saga_id":        bson.M{"$last": "$saga_id"},
			"status":         bson.M{"$last": "$status"},
			"current_step":   bson.M{"$last": "$current_step"},
			"error_messages": bson.M{"$last": "$error_messages"},
			"trace_id":       bson.M{"$last": "$trace_id"},
			"span_id":        bson.M{"$last": "$span_id"},
			"updated_at":     bson.M{"$last": "$updated_at"},
		}},
		bson.M{"$match": bson.M{"status": bson.M{"$nin": bson.A{
			string(sagalog.StatusCompleted), string(sagalog.StatusFailed),
		}}}},
		bson.M{"$sort": bson.M{"first": 1}},
		bson.M{"$limit": limit},
	}

	cur, err := s.col(colSagaLogs).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []sagaLogDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]sagalog.SagaLog, 0, len(docs))
	for _, d := range docs {
		at, err := parseTime(d.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, sagalog.SagaLog{
			SagaID:        d.SagaID,
			Status:        sagalog.Status(d.Status),
			CurrentStep:   d.CurrentStep,
			ErrorMessages: d.ErrorMessages,
			TraceID:       d.TraceID,
			SpanID:        d.SpanID,
			UpdatedAt:     at,
		})
	}
	return out, nil
}
