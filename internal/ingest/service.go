package ingest

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/healthstats/visitload/internal/model"
)

// Service runs ingestion jobs on a bounded worker pool. Submit
// registers the job synchronously, so callers can poll it immediately,
// then hands the prepared upload to a worker.
type Service struct {
	pipe  *Pipeline
	log   zerolog.Logger
	queue chan *Prep
	wg    sync.WaitGroup
}

// NewService starts a pool of workers draining a bounded queue.
// Non-positive workers or queueDepth fall back to 1 and 16.
func NewService(pipe *Pipeline, workers, queueDepth int, log zerolog.Logger) *Service {
	if workers <= 0 {
		workers = 1
	}
	if queueDepth <= 0 {
		queueDepth = 16
	}
	s := &Service{
		pipe:  pipe,
		log:   log,
		queue: make(chan *Prep, queueDepth),
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	return s
}

// Submit prepares the upload, registers its job, and queues it for
// processing. The returned job is still PENDING; poll it for progress.
// Rejected files surface as *DecodeError with the FAILED job's id.
func (s *Service) Submit(ctx context.Context, fileName string, payload []byte) (*model.Job, error) {
	prep, err := s.pipe.Prepare(ctx, fileName, payload)
	if err != nil {
		return nil, err
	}
	select {
	case s.queue <- prep:
		return prep.Job, nil
	case <-ctx.Done():
		_ = s.pipe.store.FailJob(context.Background(), prep.Job.JobID, "ingestion not started: "+ctx.Err().Error())
		return nil, &PipelineError{Phase: "queue", Err: ctx.Err()}
	}
}

// Stop closes the queue and waits for queued and in-flight jobs to
// finish. No Submit may be issued afterwards.
func (s *Service) Stop() {
	close(s.queue)
	s.wg.Wait()
}

func (s *Service) worker(n int) {
	defer s.wg.Done()
	for prep := range s.queue {
		// Jobs run to completion even when the submitting request is
		// long gone, so the worker carries its own context.
		if _, err := s.pipe.Process(context.Background(), prep); err != nil {
			s.log.Error().
				Err(err).
				Int64("job_id", prep.Job.JobID).
				Int("worker", n).
				Msg("ingestion job failed")
		}
	}
}
