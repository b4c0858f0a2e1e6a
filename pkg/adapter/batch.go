package adapter

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/edgefold/monograph/pkg/document"
	"github.com/edgefold/monograph/pkg/errors"
	"github.com/edgefold/monograph/pkg/metrics"
	"github.com/edgefold/monograph/pkg/observability"
	"github.com/edgefold/monograph/pkg/pool"
)

// batchWriter buffers documents for one collection and flushes them
// through the store whenever the buffer reaches the batch size. Flushes
// run inline; retries back off sequentially on retryable errors.
type batchWriter struct {
	store      DocumentStore
	collection string
	insertOpts document.InsertOptions
	batchSize  int
	retry      retryPolicy
	buf        []document.Document
	written    int
	flushes    int
	tracker    *metrics.ThroughputTracker
	logger     *zap.Logger
	tracer     *observability.RunTracer
}

type retryPolicy struct {
	attempts   int
	delay      time.Duration
	multiplier float64
	maxDelay   time.Duration
}

func (a *Adapter) newBatchWriter(collection string, io importOptions, log *zap.Logger, tracer *observability.RunTracer) *batchWriter {
	return &batchWriter{
		store:      a.store,
		collection: collection,
		insertOpts: document.InsertOptions{OnDuplicate: io.onDuplicate},
		batchSize:  io.batchSize,
		retry: retryPolicy{
			attempts:   a.cfg.Reliability.RetryAttempts,
			delay:      a.cfg.Reliability.RetryDelay,
			multiplier: a.cfg.Reliability.RetryMultiplier,
			maxDelay:   a.cfg.Reliability.MaxRetryDelay,
		},
		buf:     pool.GetBatchSlice(io.batchSize),
		tracker: metrics.NewThroughputTracker(collection),
		logger:  log.With(zap.String("collection", collection)),
		tracer:  tracer,
	}
}

// Add buffers one document, flushing when the buffer is full.
func (w *batchWriter) Add(ctx context.Context, doc document.Document) error {
	w.buf = append(w.buf, doc)
	if len(w.buf) >= w.batchSize {
		return w.Flush(ctx)
	}
	return nil
}

// Flush writes the buffered documents, if any.
func (w *batchWriter) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}

	size := len(w.buf)
	timer := metrics.NewTimer("flush")

	err := w.tracer.TraceBatch(ctx, w.collection, size, func(ctx context.Context) error {
		return w.flushWithRetry(ctx)
	})

	metrics.BatchFlushDuration.WithLabelValues(w.collection).Observe(timer.Stop().Seconds())
	if err != nil {
		return err
	}

	metrics.BatchesFlushed.WithLabelValues(w.collection).Inc()
	w.flushes++
	w.buf = w.buf[:0]
	return nil
}

func (w *batchWriter) flushWithRetry(ctx context.Context) error {
	flushID := pool.GenerateID("flush")
	delay := w.retry.delay

	for attempt := 1; ; attempt++ {
		n, err := w.store.InsertBatch(ctx, w.collection, w.buf, w.insertOpts)
		if err == nil {
			w.written += n
			w.tracker.Increment(int64(n))
			if dropped := len(w.buf) - n; dropped > 0 {
				w.logger.Debug("duplicate documents dropped",
					zap.String("flush_id", flushID),
					zap.Int("documents", dropped))
			}
			return nil
		}

		if !errors.IsRetryable(err) || attempt >= w.retry.attempts {
			metrics.RecordError(string(errors.GetType(err)))
			return err
		}

		w.logger.Warn("batch flush failed; retrying",
			zap.String("flush_id", flushID),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "batch flush canceled")
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * w.retry.multiplier)
		if delay > w.retry.maxDelay {
			delay = w.retry.maxDelay
		}
	}
}

// Close flushes the remaining buffer and releases it.
func (w *batchWriter) Close(ctx context.Context) error {
	err := w.Flush(ctx)
	pool.PutBatchSlice(w.buf)
	w.buf = nil
	if err == nil && w.written > 0 {
		w.logger.Debug("writer closed",
			zap.Int("documents", w.written),
			zap.Int("flushes", w.flushes),
			zap.Float64("docs_per_second", w.tracker.GetAndReset()))
	}
	return err
}

// writerSet lazily manages one batchWriter per target collection.
type writerSet struct {
	adapter *Adapter
	opts    importOptions
	logger  *zap.Logger
	tracer  *observability.RunTracer
	writers map[string]*batchWriter
}

func (a *Adapter) newWriterSet(io importOptions, log *zap.Logger, tracer *observability.RunTracer) *writerSet {
	return &writerSet{
		adapter: a,
		opts:    io,
		logger:  log,
		tracer:  tracer,
		writers: make(map[string]*batchWriter),
	}
}

func (ws *writerSet) add(ctx context.Context, collection string, doc document.Document) error {
	w, ok := ws.writers[collection]
	if !ok {
		w = ws.adapter.newBatchWriter(collection, ws.opts, ws.logger, ws.tracer)
		ws.writers[collection] = w
	}
	return w.Add(ctx, doc)
}

// closeAll flushes every writer in collection order and releases their
// buffers. The first error aborts remaining flushes but buffers are
// still released.
func (ws *writerSet) closeAll(ctx context.Context) error {
	cols := make([]string, 0, len(ws.writers))
	for col := range ws.writers {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var firstErr error
	for _, col := range cols {
		w := ws.writers[col]
		if firstErr != nil {
			pool.PutBatchSlice(w.buf)
			w.buf = nil
			continue
		}
		if err := w.Close(ctx); err != nil {
			firstErr = err
		}
	}
	return firstErr
}

// discard releases all buffers without flushing.
func (ws *writerSet) discard() {
	for _, w := range ws.writers {
		if w.buf != nil {
			pool.PutBatchSlice(w.buf)
			w.buf = nil
		}
	}
}

func (ws *writerSet) totalWritten() int {
	var n int
	for _, w := range ws.writers {
		n += w.written
	}
	return n
}

func (ws *writerSet) totalFlushes() int {
	var n int
	for _, w := range ws.writers {
		n += w.flushes
	}
	return n
}
