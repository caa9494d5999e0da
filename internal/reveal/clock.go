package reveal

import "time"

// Ticker 周期性触发器
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock 创建 Ticker，测试中可替换为手动驱动的实现
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// RealClock 基于 time.Ticker 的时钟
type RealClock struct{}

func (RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop() { r.t.Stop() }
