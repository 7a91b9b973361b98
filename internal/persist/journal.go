package persist

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrJournalFull is returned by the Record methods when the writer has fallen behind.
var ErrJournalFull = errors.New("death journal queue full")

// DeathRecord is one resolved death.
type DeathRecord struct {
	Tick       uint64
	VictimChar int32 // 0 for NPCs
	VictimName string
	VictimNpc  int32 // template ID, 0 for players
	KillerChar int32
	KillerName string
	Category   string
	MapID      int16
	X, Y       int32
}

// BossKillRecord carries the new absolute kill count for one boss.
type BossKillRecord struct {
	CharID int32
	BossID int32
	Count  int
}

// PermissionChange grants or revokes one permission tag.
type PermissionChange struct {
	CharID     int32
	Permission string
	Granted    bool
}

// Batch is everything written in one transaction.
type Batch struct {
	Deaths      []DeathRecord
	BossKills   []BossKillRecord
	Permissions []PermissionChange
}

// Len returns the number of rows in the batch.
func (b *Batch) Len() int {
	return len(b.Deaths) + len(b.BossKills) + len(b.Permissions)
}

func (b *Batch) add(entry any) {
	switch e := entry.(type) {
	case DeathRecord:
		b.Deaths = append(b.Deaths, e)
	case BossKillRecord:
		b.BossKills = append(b.BossKills, e)
	case PermissionChange:
		b.Permissions = append(b.Permissions, e)
	}
}

// BatchWriter persists a batch atomically.
type BatchWriter interface {
	WriteBatch(ctx context.Context, b Batch) error
}

// Journal moves death side-effects off the game loop. The game loop calls
// the Record methods (never block) and RequestFlush; Run owns the buffer and the writer.
type Journal struct {
	w        BatchWriter
	in       chan any
	flushReq chan struct{}
	log      *zap.Logger

	// maxRetained caps the rows a failed write keeps for the next attempt.
	maxRetained int
	dropped     atomic.Int64
}

func NewJournal(w BatchWriter, queueSize int, log *zap.Logger) *Journal {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Journal{
		w:           w,
		in:          make(chan any, queueSize),
		flushReq:    make(chan struct{}, 1),
		log:         log,
		maxRetained: queueSize,
	}
}

// Dropped returns how many rows were discarded because writes kept failing.
func (j *Journal) Dropped() int64 { return j.dropped.Load() }

func (j *Journal) enqueue(entry any) error {
	select {
	case j.in <- entry:
		return nil
	default:
		return ErrJournalFull
	}
}

func (j *Journal) RecordDeath(r DeathRecord) error           { return j.enqueue(r) }
func (j *Journal) RecordBossKill(r BossKillRecord) error     { return j.enqueue(r) }
func (j *Journal) RecordPermission(r PermissionChange) error { return j.enqueue(r) }

// RequestFlush asks Run to write what it has. Extra requests while one is
// pending are coalesced.
func (j *Journal) RequestFlush() {
	select {
	case j.flushReq <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is cancelled, then performs a final flush.
// A failed write keeps its newest rows, up to the queue size, for the next attempt.
func (j *Journal) Run(ctx context.Context) error {
	var pending Batch
	for {
		select {
		case entry := <-j.in:
			pending.add(entry)
		case <-j.flushReq:
			j.drain(&pending)
			pending = j.retain(j.write(ctx, pending))
		case <-ctx.Done():
			j.drain(&pending)
			// 關閉時使用獨立 context，避免已取消的 ctx 讓最後一次寫入直接失敗
			finalCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			rest := j.write(finalCtx, pending)
			cancel()
			if rest.Len() > 0 {
				j.log.Error("關閉時死亡紀錄未能寫入", zap.Int("rows", rest.Len()))
			}
			return nil
		}
	}
}

func (j *Journal) drain(b *Batch) {
	for {
		select {
		case entry := <-j.in:
			b.add(entry)
		default:
			return
		}
	}
}

func (j *Journal) write(ctx context.Context, b Batch) Batch {
	if b.Len() == 0 {
		return Batch{}
	}
	if err := j.w.WriteBatch(ctx, b); err != nil {
		j.log.Error("死亡紀錄批次寫入失敗", zap.Int("rows", b.Len()), zap.Error(err))
		return b
	}
	j.log.Debug("死亡紀錄已寫入",
		zap.Int("deaths", len(b.Deaths)),
		zap.Int("boss_kills", len(b.BossKills)),
		zap.Int("permissions", len(b.Permissions)),
	)
	return Batch{}
}

// retain drops the oldest rows of b beyond maxRetained. Deaths go first, then
// boss kills (each row carries an absolute count), permission changes last.
func (j *Journal) retain(b Batch) Batch {
	over := b.Len() - j.maxRetained
	if over <= 0 {
		return b
	}
	n := over
	b.Deaths, n = dropOldest(b.Deaths, n)
	b.BossKills, n = dropOldest(b.BossKills, n)
	b.Permissions, _ = dropOldest(b.Permissions, n)
	total := j.dropped.Add(int64(over))
	j.log.Warn("死亡紀錄積壓過多，捨棄最舊資料", zap.Int("dropped", over), zap.Int64("dropped_total", total))
	return b
}

func dropOldest[T any](rows []T, n int) ([]T, int) {
	if n <= 0 {
		return rows, 0
	}
	if n >= len(rows) {
		return rows[:0], n - len(rows)
	}
	return append(rows[:0:0], rows[n:]...), 0
}
