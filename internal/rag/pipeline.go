package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

//go:generate mockgen -source=pipeline.go -destination=mock_pipeline.go -package=rag

// Embedder turns text into an embedding vector
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// TextChunker defines the interface for text chunking operations
type TextChunker interface {
	ChunkText(text string) []string
}

// VectorDatabase defines the interface for vector database operations
type VectorDatabase interface {
	EnsureCollection(ctx context.Context, vectorSize uint64) error
	UpsertPoints(ctx context.Context, points []*qdrant.PointStruct) error
	DeleteByDocID(ctx context.Context, docID string) error
	Search(ctx context.Context, vector []float32, limit uint64) ([]SearchHit, error)
}

// ErrNoRelevantDocuments is returned by Retrieve when the search finds nothing.
var ErrNoRelevantDocuments = errors.New("no relevant documents found")

// pointNamespace seeds the deterministic point IDs of ingested chunks.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://kgpt-1.onrender.com/points"))

// Pipeline ingests documents and retrieves context for questions
type Pipeline struct {
	chunker     TextChunker
	embedder    Embedder
	store       VectorDatabase
	vectorSize  uint64
	searchLimit int
}

// NewPipeline creates a pipeline and makes sure the collection exists.
func NewPipeline(ctx context.Context, chunker TextChunker, embedder Embedder, store VectorDatabase, vectorSize uint64, searchLimit int) (*Pipeline, error) {
	if err := store.EnsureCollection(ctx, vectorSize); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}

	return &Pipeline{
		chunker:     chunker,
		embedder:    embedder,
		store:       store,
		vectorSize:  vectorSize,
		searchLimit: searchLimit,
	}, nil
}

// PointID is the Qdrant ID of chunk i of a document.
func PointID(docID string, i int) string {
	return uuid.NewSHA1(pointNamespace, []byte(fmt.Sprintf("%s#%d", docID, i))).String()
}

// Ingest chunks, embeds and stores a document. An empty docID is replaced by
// a random one. Re-ingesting a document replaces all of its previous chunks.
// It returns the document ID used.
func (p *Pipeline) Ingest(ctx context.Context, text string, docID string) (string, error) {
	chunks := p.chunker.ChunkText(text)
	if len(chunks) == 0 {
		return "", fmt.Errorf("no chunks created from text")
	}

	replacing := docID != ""
	if !replacing {
		docID = uuid.NewString()
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := p.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("failed to generate embedding for chunk %d: %w", i, err)
		}
		if uint64(len(embedding)) != p.vectorSize {
			return "", fmt.Errorf("embedding for chunk %d has %d dimensions, want %d", i, len(embedding), p.vectorSize)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(docID, i)),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadText:       chunk,
				payloadDocID:      docID,
				payloadChunkIndex: int64(i),
			}),
		})
	}

	if replacing {
		if err := p.store.DeleteByDocID(ctx, docID); err != nil {
			return "", fmt.Errorf("failed to delete previous chunks: %w", err)
		}
	}

	if err := p.store.UpsertPoints(ctx, points); err != nil {
		return "", fmt.Errorf("failed to upsert points: %w", err)
	}

	return docID, nil
}

// Retrieve searches for the chunks closest to the question and joins them
// into one context block.
func (p *Pipeline) Retrieve(ctx context.Context, question string) (string, error) {
	embedding, err := p.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	hits, err := p.store.Search(ctx, embedding, uint64(p.searchLimit))
	if err != nil {
		return "", fmt.Errorf("failed to search: %w", err)
	}
	if len(hits) == 0 {
		return "", ErrNoRelevantDocuments
	}

	var b strings.Builder
	for i, hit := range hits {
		fmt.Fprintf(&b, "[Document %d: %s, Score: %.4f]\n%s\n\n", i+1, hit.DocID, hit.Score, hit.Text)
	}

	return strings.TrimSpace(b.String()), nil
}
