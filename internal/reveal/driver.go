package reveal

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval 每个字符的默认显示间隔
const DefaultInterval = 30 * time.Millisecond

// Update 一次前缀变化
type Update struct {
	Turn   uint64
	Prefix string
	Len    int
	Total  int
	State  State
}

// Driver 为每一轮文本运行一个打字协程
// 同一时刻只有一个协程存活；Start 会先停止上一轮再开始新一轮
type Driver struct {
	clock    Clock
	interval time.Duration
	out      chan Update

	mu     sync.Mutex
	turn   uint64
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// NewDriver 创建打字驱动，interval <= 0 时使用 DefaultInterval
func NewDriver(interval time.Duration, clock Clock) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Driver{
		clock:    clock,
		interval: interval,
		out:      make(chan Update),
	}
}

// Updates 前缀更新通道，Close 后关闭
func (d *Driver) Updates() <-chan Update {
	return d.out
}

// Interval 返回字符间隔
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// Start 开始新一轮显示并返回轮次编号
func (d *Driver) Start(text string, instant bool) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return d.turn
	}
	d.stopLocked()

	d.turn++
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done

	go d.run(ctx, done, d.turn, text, instant)
	return d.turn
}

// Close 停止当前协程并关闭更新通道，之后不会再有任何更新
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	d.stopLocked()
	close(d.out)
}

// stopLocked 取消当前协程并等待其退出，调用者必须持有锁
func (d *Driver) stopLocked() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil
	d.done = nil
}

func (d *Driver) run(ctx context.Context, done chan struct{}, turn uint64, text string, instant bool) {
	defer close(done)

	r := NewRevealer()
	r.Reset(text, instant)
	if !d.emit(ctx, turn, r) || r.Complete() {
		return
	}

	ticker := d.clock.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			r.Advance()
			if !d.emit(ctx, turn, r) || r.Complete() {
				return
			}
		}
	}
}

func (d *Driver) emit(ctx context.Context, turn uint64, r *Revealer) bool {
	u := Update{
		Turn:   turn,
		Prefix: r.Prefix(),
		Len:    r.Len(),
		Total:  r.Total(),
		State:  r.State(),
	}
	select {
	case d.out <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
