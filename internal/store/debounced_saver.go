package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"fidelity-cli/internal/logging"
)

// Saver persists a full DB snapshot. Store implements it.
type Saver interface {
	Save(db *DB) error
}

// DebouncedSaver coalesces edits: each Notify replaces the pending snapshot and resets the
// timer, so only the last state before a quiet period is written.
type DebouncedSaver struct {
	saver    Saver
	debounce time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	settle  *sync.Cond // signalled on mu when a write attempt finishes
	timer   *time.Timer
	pending *DB
	seq     uint64
	taken   uint64 // highest seq handed to a writer
	settled uint64 // highest seq whose write attempt finished
	closed  bool

	writeMu sync.Mutex
	written uint64
	lastErr error
}

type DebouncedSaverOpts struct {
	Saver    Saver
	Debounce time.Duration
	Logger   *zap.Logger
}

func NewDebouncedSaver(opts DebouncedSaverOpts) *DebouncedSaver {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultSaveDebounce
	}
	d := &DebouncedSaver{
		saver:    opts.Saver,
		debounce: debounce,
		log:      logging.OrNop(opts.Logger),
	}
	d.settle = sync.NewCond(&d.mu)
	return d
}

// Notify schedules a save of db. The DB is cloned immediately; later mutations by the
// caller are not seen until the next Notify.
func (d *DebouncedSaver) Notify(db *DB) {
	if d == nil || db == nil {
		return
	}
	snap := db.Clone()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.seq++
	d.pending = snap
	if d.timer == nil {
		d.timer = time.AfterFunc(d.debounce, d.onTimer)
		return
	}
	d.timer.Reset(d.debounce)
}

// Pending reports whether a snapshot is waiting to be written.
func (d *DebouncedSaver) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *DebouncedSaver) take() (*DB, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap, seq := d.pending, d.seq
	d.pending = nil
	if snap != nil && seq > d.taken {
		d.taken = seq
	}
	return snap, seq
}

// finish marks the write attempt for seq as done and wakes Flush callers waiting on it.
func (d *DebouncedSaver) finish(seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq > d.settled {
		d.settled = seq
	}
	d.settle.Broadcast()
}

// waitInFlight blocks until every snapshot handed to a writer has been attempted.
func (d *DebouncedSaver) waitInFlight() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.settled < d.taken {
		d.settle.Wait()
	}
}

func (d *DebouncedSaver) onTimer() {
	snap, seq := d.take()
	if snap == nil {
		return
	}
	if err := d.write(snap, seq); err != nil {
		d.log.Error("debounced save failed", zap.Error(err), zap.Uint64("seq", seq))
		d.requeue(snap, seq)
	}
	d.finish(seq)
}

// requeue puts a failed snapshot back so the next Flush retries it, unless a newer one arrived.
func (d *DebouncedSaver) requeue(snap *DB, seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil && d.seq == seq {
		d.pending = snap
	}
}

// write saves snap unless a newer snapshot has already been written.
func (d *DebouncedSaver) write(snap *DB, seq uint64) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	if seq <= d.written {
		return nil
	}
	err := d.saver.Save(snap)
	d.lastErr = err
	if err != nil {
		return err
	}
	d.written = seq
	d.log.Debug("state saved", zap.Uint64("seq", seq), zap.Int("cases", len(snap.Cases)))
	return nil
}

// Flush writes the pending snapshot now and returns once it is durable.
func (d *DebouncedSaver) Flush() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	snap, seq := d.take()
	if snap == nil {
		// The timer may have taken the snapshot without writing it yet.
		d.waitInFlight()
		d.writeMu.Lock()
		err := d.lastErr
		d.writeMu.Unlock()
		return err
	}
	err := d.write(snap, seq)
	if err != nil {
		d.requeue(snap, seq)
	}
	d.finish(seq)
	return err
}

// SaveNow replaces any pending snapshot with db and writes it synchronously (force save).
func (d *DebouncedSaver) SaveNow(db *DB) error {
	d.Notify(db)
	return d.Flush()
}

// Close flushes and stops accepting snapshots.
func (d *DebouncedSaver) Close() error {
	if d == nil {
		return nil
	}
	err := d.Flush()
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return err
}
