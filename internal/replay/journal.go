package replay

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	journalBufferSize    = 1024 // circular buffer slots
	journalMaxPerSec     = 5000 // global emit rate limit
	journalFlushSize     = 64   // entries per batch write
	journalFlushInterval = 100 * time.Millisecond
)

// JournalEntry is one synthesized event as written to the JSONL journal.
type JournalEntry struct {
	Time  float64 `json:"t"`
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Actor int     `json:"actor"`
}

// Journal is a bounded, rate-limited, asynchronously flushed JSONL record
// of the discrete events a recording pass synthesizes. It is a debugging
// aid: the replay itself never reads it back, and a full buffer drops
// entries rather than stalling the recorder.
type Journal struct {
	buffer    [journalBufferSize]JournalEntry
	writeHead uint64 // atomic, producer position
	readHead  uint64 // atomic, consumer position

	limiter *rate.Limiter

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	file   *os.File
	fileMu sync.Mutex

	dropped uint64 // atomic
	total   uint64 // atomic
}

// NewJournal creates a journal. Call Start before emitting.
func NewJournal() *Journal {
	return &Journal{
		limiter:  rate.NewLimiter(journalMaxPerSec, journalMaxPerSec/10),
		stopChan: make(chan struct{}),
	}
}

// Start opens the output file and begins the async writer. Idempotent.
func (j *Journal) Start(filePath string) error {
	if j.running.Load() {
		return nil
	}

	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		j.file = file
	}

	j.running.Store(true)
	j.writerWg.Add(1)
	go j.writerLoop()
	return nil
}

// Stop flushes and shuts the journal down. Safe to call more than once.
func (j *Journal) Stop() {
	j.stopOnce.Do(func() {
		j.running.Store(false)
		close(j.stopChan)
		j.writerWg.Wait()

		j.fileMu.Lock()
		if j.file != nil {
			j.file.Close()
		}
		j.fileMu.Unlock()
	})
}

// Emit records one event. Returns false if rate limited, stopped, or the
// buffer overwrote an unread slot.
func (j *Journal) Emit(t float64, ev Event) bool {
	if !j.running.Load() {
		return false
	}
	if !j.limiter.Allow() {
		atomic.AddUint64(&j.dropped, 1)
		return false
	}

	head := atomic.AddUint64(&j.writeHead, 1)
	tail := atomic.LoadUint64(&j.readHead)
	if head-tail >= journalBufferSize {
		// Rolling window: drop the oldest entry instead of blocking.
		atomic.AddUint64(&j.readHead, 1)
		atomic.AddUint64(&j.dropped, 1)
	}

	j.buffer[head%journalBufferSize] = JournalEntry{
		Time:  t,
		Type:  ev.Type.String(),
		X:     ev.X,
		Y:     ev.Y,
		Actor: ev.Actor,
	}
	atomic.AddUint64(&j.total, 1)
	return true
}

// Stats returns counters for monitoring.
func (j *Journal) Stats() (total, dropped uint64) {
	return atomic.LoadUint64(&j.total), atomic.LoadUint64(&j.dropped)
}

func (j *Journal) writerLoop() {
	defer j.writerWg.Done()

	ticker := time.NewTicker(journalFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.flush()
		case <-j.stopChan:
			j.flush()
			return
		}
	}
}

func (j *Journal) flush() {
	if j.file == nil {
		// Drain the buffer anyway so Emit never stalls on backpressure.
		atomic.StoreUint64(&j.readHead, atomic.LoadUint64(&j.writeHead))
		return
	}

	j.fileMu.Lock()
	defer j.fileMu.Unlock()

	for n := 0; n < journalFlushSize; n++ {
		tail := atomic.LoadUint64(&j.readHead)
		head := atomic.LoadUint64(&j.writeHead)
		if tail >= head {
			return
		}
		entry := j.buffer[(tail+1)%journalBufferSize]
		atomic.AddUint64(&j.readHead, 1)

		line, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		line = append(line, '\n')
		if _, err := j.file.Write(line); err != nil {
			return
		}
	}
}
