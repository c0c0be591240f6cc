package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"debate_arena/internal/room"
)

// DefaultPollInterval 是未指定時的輪詢間隔
const DefaultPollInterval = 2 * time.Second

// State 是輪詢器的狀態
type State int

// 輪詢器狀態
const (
	StateIdle State = iota
	StatePolling
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	default:
		return "stopped"
	}
}

// StopReason 說明輪詢為何停止
type StopReason int

// 停止原因
const (
	StopNone StopReason = iota
	StopTerminal
	StopError
	StopCancelled
)

// ErrPollerRunning 表示輪詢已在進行中
var ErrPollerRunning = errors.New("poller is already running")

// Poller 定期向 SnapshotSource 取得房間快照
// 每次成功都整個替換持有的快照，房間結束或發生錯誤時停止，不會自動重試
type Poller struct {
	source   SnapshotSource
	key      string
	interval time.Duration
	clock    clockwork.Clock
	onUpdate func(*room.StatusView)

	mu       sync.Mutex
	state    State
	reason   StopReason
	snapshot *room.StatusView
	err      error
	cancel   context.CancelFunc
	done     chan struct{}
	gen      int
}

// PollerOption 設定 Poller 的選項
type PollerOption func(*Poller)

// WithInterval 設定輪詢間隔，非正值會被忽略
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithClock 替換時鐘，測試時使用
func WithClock(c clockwork.Clock) PollerOption {
	return func(p *Poller) { p.clock = c }
}

// OnUpdate 在每次取得新快照後於輪詢 goroutine 中呼叫，不可在其中同步呼叫 Stop
func OnUpdate(fn func(*room.StatusView)) PollerOption {
	return func(p *Poller) { p.onUpdate = fn }
}

// NewPoller 建立閒置中的輪詢器，呼叫 Start 後才開始請求
func NewPoller(source SnapshotSource, key string, opts ...PollerOption) *Poller {
	p := &Poller{
		source:   source,
		key:      room.NormalizeKey(key),
		interval: DefaultPollInterval,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	closed := make(chan struct{})
	close(closed)
	p.done = closed
	return p
}

// Start 立即取得一次快照，之後每個 interval 取一次
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePolling {
		return ErrPollerRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	p.gen++
	p.state = StatePolling
	p.reason = StopNone
	p.err = nil
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(ctx, p.gen, p.done)
	return nil
}

// Resume 在輪詢因錯誤停止後重新開始
func (p *Poller) Resume(ctx context.Context) error {
	return p.Start(ctx)
}

// Stop 取消輪詢並等待 goroutine 結束，之後快照不會再變動
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.state == StatePolling {
		p.state = StateStopped
		p.reason = StopCancelled
	}
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done
}

// Done 在目前這輪輪詢結束時關閉
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Snapshot 回傳最近一次取得的快照，呼叫端不可修改
func (p *Poller) Snapshot() *room.StatusView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// Err 回傳造成停止的錯誤
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// State 回傳目前狀態
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Reason 回傳最近一次停止的原因
func (p *Poller) Reason() StopReason {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reason
}

func (p *Poller) loop(ctx context.Context, gen int, done chan struct{}) {
	defer close(done)

	for {
		view, err := p.source.RoomStatus(ctx, p.key)
		if ctx.Err() != nil {
			return
		}
		if !p.apply(gen, view, err) {
			return
		}
		if p.onUpdate != nil {
			p.onUpdate(view)
		}
		if view.Terminal() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-p.clock.After(p.interval):
		}
	}
}

// apply 記錄一次輪詢結果，回傳 false 表示應結束迴圈
func (p *Poller) apply(gen int, view *room.StatusView, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != gen || p.state != StatePolling {
		return false
	}
	if err != nil {
		p.state = StateStopped
		p.reason = StopError
		p.err = err
		p.cancel()
		return false
	}
	p.snapshot = view
	if view.Terminal() {
		p.state = StateStopped
		p.reason = StopTerminal
		p.cancel()
	}
	return true
}
