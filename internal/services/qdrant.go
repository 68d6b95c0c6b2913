package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// VectorIndexService mirrors skill and summary embeddings into Qdrant for
// the discovery endpoints. The ranking core itself never queries this
// index; it scores over the embeddings loaded from the repository.
type VectorIndexService interface {
	InitCollection() error
	UpsertSkillEmbedding(ctx context.Context, ownerID, ownerType, skillName string, embedding []float32) error
	UpsertSummaryChunk(ctx context.Context, ownerID, ownerType, text string, embedding []float32) error
	SearchSimilarSkills(ctx context.Context, queryEmbedding []float32, ownerType string, limit int) ([]SkillSearchResult, error)
	DeleteOwner(ctx context.Context, ownerID string) error
}

type SkillSearchResult struct {
	OwnerID   string
	OwnerType string
	SkillName string
	Text      string
	Score     float32
}

type vectorIndexService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewVectorIndexService(urlStr, apiKey, collectionName string) (VectorIndexService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &vectorIndexService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 dimension
	}, nil
}

// InitCollection implements VectorIndexService.
func (v *vectorIndexService) InitCollection() error {
	ctx := context.Background()

	exists, err := v.client.CollectionExists(ctx, v.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = v.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: v.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     v.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", v.collectionName)
	return nil
}

// UpsertSkillEmbedding implements VectorIndexService.
func (v *vectorIndexService) UpsertSkillEmbedding(ctx context.Context, ownerID, ownerType, skillName string, embedding []float32) error {
	return v.upsert(ctx, map[string]interface{}{
		"owner_id":   ownerID,
		"owner_type": ownerType,
		"skill_name": skillName,
		"kind":       "skill",
	}, embedding)
}

// UpsertSummaryChunk implements VectorIndexService.
func (v *vectorIndexService) UpsertSummaryChunk(ctx context.Context, ownerID, ownerType, text string, embedding []float32) error {
	return v.upsert(ctx, map[string]interface{}{
		"owner_id":   ownerID,
		"owner_type": ownerType,
		"text":       text,
		"kind":       "summary",
	}, embedding)
}

func (v *vectorIndexService) upsert(ctx context.Context, payload map[string]interface{}, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(uuid.New().String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(payload),
	}

	_, err := v.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: v.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilarSkills implements VectorIndexService.
func (v *vectorIndexService) SearchSimilarSkills(ctx context.Context, queryEmbedding []float32, ownerType string, limit int) ([]SkillSearchResult, error) {
	var filter *qdrant.Filter
	if ownerType != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("owner_type", ownerType),
			},
		}
	}

	searchResult, err := v.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: v.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []SkillSearchResult
	for _, point := range searchResult {
		payload := point.Payload

		result := SkillSearchResult{
			Score: point.Score,
		}

		if ownerID, ok := payload["owner_id"]; ok {
			if val, ok := ownerID.GetKind().(*qdrant.Value_StringValue); ok {
				result.OwnerID = val.StringValue
			}
		}

		if ownerType, ok := payload["owner_type"]; ok {
			if val, ok := ownerType.GetKind().(*qdrant.Value_StringValue); ok {
				result.OwnerType = val.StringValue
			}
		}

		if skillName, ok := payload["skill_name"]; ok {
			if val, ok := skillName.GetKind().(*qdrant.Value_StringValue); ok {
				result.SkillName = val.StringValue
			}
		}

		if text, ok := payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				result.Text = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// DeleteOwner implements VectorIndexService.
func (v *vectorIndexService) DeleteOwner(ctx context.Context, ownerID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("owner_id", ownerID),
		},
	}

	_, err := v.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: v.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete owner points: %w", err)
	}

	return nil
}
