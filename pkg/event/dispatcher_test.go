package event

import "testing"

type countingListener struct {
	count int
	last  Event
}

func (l *countingListener) OnEvent(e Event) {
	l.count++
	l.last = e
}

func TestDispatchOnlyMatchingType(t *testing.T) {
	d := NewDispatcher()
	gold := &countingListener{}
	kills := &countingListener{}
	d.Subscribe(GoldEarned, gold)
	d.Subscribe(EnemyKilled, kills)

	d.Publish(GoldEarned, GoldEarnedData{Amount: 15})

	if gold.count != 1 {
		t.Errorf("Expected gold listener called once, got %d", gold.count)
	}
	if kills.count != 0 {
		t.Errorf("Kill listener should not be called, got %d", kills.count)
	}
	data, ok := gold.last.Data.(GoldEarnedData)
	if !ok || data.Amount != 15 {
		t.Errorf("Unexpected payload %#v", gold.last.Data)
	}
}

func TestSubscribersNotifiedInOrder(t *testing.T) {
	d := NewDispatcher()
	var order []int
	d.SubscribeFunc(WaveStarted, func(Event) { order = append(order, 1) })
	d.SubscribeFunc(WaveStarted, func(Event) { order = append(order, 2) })

	d.Publish(WaveStarted, WaveData{Wave: 1})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Expected [1 2], got %v", order)
	}
}

func TestDispatchWithoutListeners(t *testing.T) {
	d := NewDispatcher()
	// 没有订阅者时不应 panic
	d.Publish(BaseDestroyed, BaseDestroyedData{IsEnemy: true})
}
