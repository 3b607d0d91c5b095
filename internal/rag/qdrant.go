package rag

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// Payload keys stored with every point.
const (
	payloadText       = "text"
	payloadDocID      = "doc_id"
	payloadChunkIndex = "chunk_index"
)

// SearchHit is one chunk returned by a similarity search.
type SearchHit struct {
	Text  string
	DocID string
	Score float32
}

// QdrantStore keeps document chunks in a Qdrant collection
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStore connects to Qdrant over gRPC
func NewQdrantStore(host string, port int, collection string) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
	}, nil
}

// Close closes the gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// EnsureCollection creates the collection with cosine distance unless it
// already exists.
func (s *QdrantStore) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// UpsertPoints writes points and waits until they are searchable.
func (s *QdrantStore) UpsertPoints(ctx context.Context, points []*qdrant.PointStruct) error {
	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// DeleteByDocID removes every chunk stored for docID.
func (s *QdrantStore) DeleteByDocID(ctx context.Context, docID string) error {
	wait := true
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(payloadDocID, docID)},
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to delete points of %s: %w", docID, err)
	}
	return nil
}

// Search returns the chunks closest to vector, best first. Points without
// text are skipped.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit uint64) ([]SearchHit, error) {
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]SearchHit, 0, len(points))
	for _, point := range points {
		text := point.GetPayload()[payloadText].GetStringValue()
		if text == "" {
			continue
		}
		hits = append(hits, SearchHit{
			Text:  text,
			DocID: point.GetPayload()[payloadDocID].GetStringValue(),
			Score: point.GetScore(),
		})
	}

	return hits, nil
}
