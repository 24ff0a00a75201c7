// Package event 提供同步的事件分发器
//
// 模拟核心通过事件把奖励、击杀等副作用交给宿主处理，
// 分发在调用方的帧内同步完成，不涉及任何 goroutine。
package event

// Type 事件类型
type Type string

// Event 事件
type Event struct {
	Type Type
	Data interface{} // 事件数据，具体类型见 types.go
}

// Listener 事件订阅者
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc 允许普通函数作为订阅者
type ListenerFunc func(e Event)

// OnEvent 实现 Listener
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// Dispatcher 事件分发器
type Dispatcher struct {
	listeners map[Type][]Listener
}

// NewDispatcher 创建新的分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[Type][]Listener),
	}
}

// Subscribe 订阅事件，按订阅顺序通知
func (d *Dispatcher) Subscribe(t Type, l Listener) {
	d.listeners[t] = append(d.listeners[t], l)
}

// SubscribeFunc 以函数形式订阅事件
func (d *Dispatcher) SubscribeFunc(t Type, fn func(e Event)) {
	d.Subscribe(t, ListenerFunc(fn))
}

// Dispatch 同步通知所有订阅者
func (d *Dispatcher) Dispatch(e Event) {
	for _, l := range d.listeners[e.Type] {
		l.OnEvent(e)
	}
}

// Publish 是 Dispatch 的便捷形式
func (d *Dispatcher) Publish(t Type, data interface{}) {
	d.Dispatch(Event{Type: t, Data: data})
}
