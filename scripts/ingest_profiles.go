package main

import (
	"context"
	"log"
	"os"
	"strings"

	"greentalent/matching-engine/internal/config"
	"greentalent/matching-engine/internal/repositories"
	"greentalent/matching-engine/internal/services"
)

// Backfills missing embeddings for every profile and opportunity, and
// mirrors skill embeddings plus resume summary chunks into the Qdrant
// collection used by the discovery endpoints.
func main() {
	log.Println("🚀 Starting embedding backfill...")

	// Load configuration
	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	profileRepo := repositories.NewProfileRepository(db)
	opportunityRepo := repositories.NewOpportunityRepository(db)

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	vectorIndex, err := services.NewVectorIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := vectorIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	chunker := services.NewTextChunker()
	ctx := context.Background()

	successCount := 0
	failCount := 0

	embed := func(text string) ([]float32, bool) {
		embedding, err := geminiService.GenerateEmbedding(ctx, text)
		if err != nil {
			log.Printf("   ❌ Failed to embed %q: %v", truncateForLog(text), err)
			failCount++
			return nil, false
		}
		successCount++
		return embedding, true
	}

	// Profiles
	profiles, err := profileRepo.FindAll()
	if err != nil {
		log.Fatalf("❌ Failed to list profiles: %v", err)
	}

	for _, profile := range profiles {
		log.Printf("\n👤 Processing profile: %s", profile.FullName)

		for _, skill := range profile.Skills {
			if skill.Embedding != nil {
				continue
			}
			embedding, ok := embed(skill.Name)
			if !ok {
				continue
			}
			if err := profileRepo.SaveSkillEmbedding(skill.ID, embedding); err != nil {
				log.Printf("   ❌ Failed to save skill embedding: %v", err)
				failCount++
				continue
			}
			if err := vectorIndex.UpsertSkillEmbedding(ctx, profile.ID.String(), "profile", skill.Name, embedding); err != nil {
				log.Printf("   ⚠️  Failed to mirror skill into Qdrant: %v", err)
			}
		}

		for _, exp := range profile.Experiences {
			if exp.Embedding == nil && exp.Description != "" {
				if embedding, ok := embed(exp.Title + ": " + exp.Description); ok {
					if err := profileRepo.SaveExperienceEmbedding(exp.ID, embedding); err != nil {
						log.Printf("   ❌ Failed to save experience embedding: %v", err)
						failCount++
					}
				}
			}

			for _, usage := range exp.Skills {
				if usage.Embedding != nil {
					continue
				}
				if embedding, ok := embed(usage.Name + " in the context of " + exp.Title); ok {
					if err := profileRepo.SaveExperienceSkillEmbedding(usage.ID, embedding); err != nil {
						log.Printf("   ❌ Failed to save skill usage embedding: %v", err)
						failCount++
					}
				}
			}
		}

		// Mirror the resume summary for discovery search
		if profile.SummaryText != "" {
			chunks := chunker.ChunkText(profile.SummaryText, 1000, 200)
			log.Printf("   ✂️  Mirroring %d summary chunks", len(chunks))
			for _, chunk := range chunks {
				embedding, ok := embed(chunk)
				if !ok {
					continue
				}
				if err := vectorIndex.UpsertSummaryChunk(ctx, profile.ID.String(), "profile", chunk, embedding); err != nil {
					log.Printf("   ⚠️  Failed to mirror summary chunk: %v", err)
				}
			}
		}
	}

	// Opportunities
	opportunities, err := opportunityRepo.FindAll()
	if err != nil {
		log.Fatalf("❌ Failed to list opportunities: %v", err)
	}

	for _, opportunity := range opportunities {
		log.Printf("\n💼 Processing opportunity: %s", opportunity.DisplayName())

		for _, skill := range opportunity.Skills {
			if skill.Embedding != nil {
				continue
			}
			embedding, ok := embed(skill.Name)
			if !ok {
				continue
			}
			if err := opportunityRepo.SaveSkillEmbedding(skill.ID, embedding); err != nil {
				log.Printf("   ❌ Failed to save skill embedding: %v", err)
				failCount++
				continue
			}
			if err := vectorIndex.UpsertSkillEmbedding(ctx, opportunity.ID.String(), "opportunity", skill.Name, embedding); err != nil {
				log.Printf("   ⚠️  Failed to mirror skill into Qdrant: %v", err)
			}
		}

		for _, req := range opportunity.Requirements {
			if req.Embedding != nil {
				continue
			}
			if embedding, ok := embed(req.Text); ok {
				if err := opportunityRepo.SaveRequirementEmbedding(req.ID, embedding); err != nil {
					log.Printf("   ❌ Failed to save requirement embedding: %v", err)
					failCount++
				}
			}
		}
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Backfill Summary:")
	log.Printf("   ✅ Embeddings generated: %d", successCount)
	log.Printf("   ❌ Failures: %d", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some embeddings failed. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ Backfill completed successfully!")
}

func truncateForLog(text string) string {
	if len(text) > 60 {
		return text[:60] + "..."
	}
	return text
}
