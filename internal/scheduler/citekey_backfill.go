package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bruecksen/publications/internal/database"
	"github.com/bruecksen/publications/internal/database/publications"
	"github.com/bruecksen/publications/internal/services"
)

const backfillBatchSize = 500

// CitekeyBackfillScheduler periodically assigns citation keys to
// publications that never received one, such as records created before key
// generation existed or records inserted by hand.
type CitekeyBackfillScheduler struct {
	db       *database.Database
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isWorking  bool
	cancelFunc context.CancelFunc
}

// NewCitekeyBackfillScheduler creates a new scheduler instance.
func NewCitekeyBackfillScheduler(db *database.Database, schedule string) *CitekeyBackfillScheduler {
	return &CitekeyBackfillScheduler{
		db:       db,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *CitekeyBackfillScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runBackfill()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Citekey backfill scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running backfill.
func (s *CitekeyBackfillScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Citekey backfill scheduler: stopped")
}

// RunNow triggers an immediate backfill.
func (s *CitekeyBackfillScheduler) RunNow() {
	go s.runBackfill()
}

// IsRunning returns whether the scheduler is active.
func (s *CitekeyBackfillScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next backfill will occur.
func (s *CitekeyBackfillScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *CitekeyBackfillScheduler) runBackfill() {
	s.mu.Lock()
	if s.isWorking {
		s.mu.Unlock()
		log.Printf("Citekey backfill: skipped (already running)")
		return
	}
	s.isWorking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isWorking = false
		s.mu.Unlock()
	}()

	startTime := time.Now()
	assigned, err := s.Backfill()
	if err != nil {
		log.Printf("Citekey backfill: failed: %v", err)
		return
	}
	if assigned == 0 {
		log.Printf("Citekey backfill: nothing to do")
		return
	}
	log.Printf("Citekey backfill: assigned %d citation keys in %v",
		assigned, time.Since(startTime).Round(time.Millisecond))
}

// Backfill assigns citation keys to publications missing one and reports
// how many keys it assigned.
func (s *CitekeyBackfillScheduler) Backfill() (int, error) {
	repo := publications.NewRepository(s.db.DB)
	keygen := services.NewCitekeyGenerator(repo)

	pubs, err := repo.ListMissingCitekeys(backfillBatchSize)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for i := range pubs {
		citekey, err := keygen.Generate(&pubs[i])
		if err != nil {
			return assigned, err
		}
		if err := repo.UpdateCitekey(pubs[i].ID, citekey); err != nil {
			return assigned, err
		}
		assigned++
	}
	return assigned, nil
}
