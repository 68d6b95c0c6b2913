package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"greentalent/matching-engine/internal/repositories"
)

// Worker is the asynchronous wrapper around the synchronous ranking
// pipeline. It adds no concurrency inside a run; concurrency exists only
// across queued evaluation sets.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueSet(setID uuid.UUID)
}

type worker struct {
	evalRepo         repositories.EvaluationRepository
	evaluatorService EvaluatorService
	jobQueue         chan uuid.UUID
	concurrency      int
	wg               sync.WaitGroup
	stopChan         chan struct{}
}

func NewWorker(
	evalRepo repositories.EvaluationRepository,
	evaluatorService EvaluatorService,
	concurrency int,
) Worker {
	return &worker{
		evalRepo:         evalRepo,
		evaluatorService: evaluatorService,
		jobQueue:         make(chan uuid.UUID, 100),
		concurrency:      concurrency,
		stopChan:         make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processSets(ctx, i+1)
	}

	// Start polling for queued sets
	w.wg.Add(1)
	go w.pollPendingSets(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueSet implements Worker.
func (w *worker) EnqueueSet(setID uuid.UUID) {
	select {
	case w.jobQueue <- setID:
		log.Printf("📥 Evaluation set %s enqueued\n", setID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue set %s\n", setID)
	}
}

func (w *worker) processSets(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing evaluation sets\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case setID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing set %s\n", workerID, setID)
			if err := w.evaluatorService.RunQueuedSet(ctx, setID); err != nil {
				log.Printf("❌ Worker #%d failed to process set %s: %v\n", workerID, setID, err)
			} else {
				log.Printf("✅ Worker #%d completed set %s\n", workerID, setID)
			}
		}
	}
}

func (w *worker) pollPendingSets(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	log.Println("🔄 Starting pending sets poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending sets poller stopped")
			return
		case <-ticker.C:
			pendingSets, err := w.evalRepo.FindPendingSets(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending sets: %v\n", err)
				continue
			}

			if len(pendingSets) > 0 {
				log.Printf("📋 Found %d pending evaluation sets\n", len(pendingSets))
			}

			for _, set := range pendingSets {
				w.EnqueueSet(set.ID)
			}
		}
	}
}
