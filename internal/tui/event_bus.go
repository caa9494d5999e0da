package tui

import (
	"sort"
	"sync"
	"time"
)

// Event 事件接口
type Event interface {
	// Type 事件类型
	Type() string
	// Timestamp 事件时间戳
	Timestamp() time.Time
}

// EventHandler 事件处理器接口
type EventHandler interface {
	// CanHandle 检查是否可以处理该事件
	CanHandle(event Event) bool

	// Handle 处理事件
	Handle(event Event) error

	// Priority 处理优先级，数值越小优先级越高
	Priority() int
}

// EventBus 事件总线接口
type EventBus interface {
	Subscribe(eventType string, handler EventHandler)
	Unsubscribe(eventType string, handler EventHandler)
	// Publish 同步发布，返回各处理器的错误
	Publish(event Event) []error
	Clear()
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	eventType string
	timestamp time.Time
}

func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{eventType: eventType, timestamp: time.Now()}
}

func (e BaseEvent) Type() string { return e.eventType }
func (e BaseEvent) Timestamp() time.Time { return e.timestamp }

// MemoryEventBus 内存事件总线实现
type MemoryEventBus struct {
	handlers map[string][]EventHandler
	mutex    sync.RWMutex
}

// NewMemoryEventBus 创建内存事件总线
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[string][]EventHandler),
	}
}

// Subscribe 订阅事件，同优先级按订阅顺序执行
func (bus *MemoryEventBus) Subscribe(eventType string, handler EventHandler) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	// 复制后再排序，进行中的 Publish 仍持有旧切片
	old := bus.handlers[eventType]
	handlers := make([]EventHandler, 0, len(old)+1)
	handlers = append(handlers, old...)
	handlers = append(handlers, handler)
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority() < handlers[j].Priority()
	})
	bus.handlers[eventType] = handlers
}

// Unsubscribe 取消订阅事件
func (bus *MemoryEventBus) Unsubscribe(eventType string, handler EventHandler) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	handlers := bus.handlers[eventType]
	for i, h := range handlers {
		if h == handler {
			bus.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
}

// Publish 发布事件
func (bus *MemoryEventBus) Publish(event Event) []error {
	bus.mutex.RLock()
	handlers := bus.handlers[event.Type()]
	bus.mutex.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if !handler.CanHandle(event) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Clear 清空所有订阅
func (bus *MemoryEventBus) Clear() {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	bus.handlers = make(map[string][]EventHandler)
}

// 事件类型常量
const (
	EventTypeTurnStarted     = "turn.started"
	EventTypeRevealCompleted = "reveal.completed"
	EventTypeSurfaceResized  = "surface.resized"
)
