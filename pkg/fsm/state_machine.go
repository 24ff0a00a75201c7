// Package fsm 实现单位的有限状态机
//
// 状态机只负责根据战场上下文计算状态，不关心渲染和音效；
// 动画、音效和奖励等副作用都通过 OnChange 回调挂接。
package fsm

// State 单位状态
type State int

const (
	// StateMoving 向敌方基地前进
	StateMoving State = iota
	// StateAttacking 敌人进入射程，原地攻击
	StateAttacking
	// StateHolding 坦克专用：攻击的同时阻挡敌方前进
	StateHolding
	// StateHealing 治疗者专用：治疗射程内受伤的友军
	StateHealing
	// StateSupporting 保留状态，Evaluate 不会产生
	StateSupporting
	// StateDying 死亡中（终止状态）
	StateDying
)

// MeleeRange 近战单位（射程为0）的交战距离（像素）
const MeleeRange = 30.0

// String 返回状态名称（用于日志）
func (s State) String() string {
	switch s {
	case StateMoving:
		return "Moving"
	case StateAttacking:
		return "Attacking"
	case StateHolding:
		return "Holding"
	case StateHealing:
		return "Healing"
	case StateSupporting:
		return "Supporting"
	case StateDying:
		return "Dying"
	default:
		return "Unknown"
	}
}

// Target 最近目标的距离
// Found 为 false 表示不存在目标（此时 Distance 无意义）
type Target struct {
	Distance float64
	Found    bool
}

// At 构造一个距离为 d 的目标
func At(d float64) Target {
	return Target{Distance: d, Found: true}
}

// None 表示没有目标
var None = Target{}

// Context 一次状态评估的输入
type Context struct {
	Enemy       Target  // 最近的存活敌人
	AttackRange float64 // 本单位射程，0 表示近战
	IsTank      bool
	IsHealer    bool
	DamagedAlly Target // 最近的受伤友军（仅治疗者使用）
}

// EffectiveRange 返回有效射程：射程为正时使用射程，否则使用近战距离
func EffectiveRange(attackRange float64) float64 {
	if attackRange > 0 {
		return attackRange
	}
	return MeleeRange
}

// ChangeFunc 状态变化回调，每次实际变化恰好调用一次
type ChangeFunc func(from, to State)

// StateMachine 单位状态机
type StateMachine struct {
	current  State
	onChange ChangeFunc
}

// New 创建初始状态为 Moving 的状态机
func New() *StateMachine {
	return &StateMachine{current: StateMoving}
}

// SetOnChange 注册状态变化回调（覆盖之前的回调）
func (m *StateMachine) SetOnChange(fn ChangeFunc) {
	m.onChange = fn
}

// Current 返回当前状态
func (m *StateMachine) Current() State {
	return m.current
}

// IsDying 是否处于死亡状态
func (m *StateMachine) IsDying() bool {
	return m.current == StateDying
}

// Evaluate 根据上下文计算新状态并应用
//
// 规则优先级：
//  1. Dying 是吸收态
//  2. 治疗者：射程内有受伤友军 → Healing，否则 Moving
//  3. 没有敌人 → Moving
//  4. 敌人在有效射程内 → 坦克 Holding，其他 Attacking
//  5. 否则 Moving
func (m *StateMachine) Evaluate(ctx Context) State {
	if m.current == StateDying {
		return StateDying
	}
	m.apply(decide(ctx))
	return m.current
}

func decide(ctx Context) State {
	effectiveRange := EffectiveRange(ctx.AttackRange)

	if ctx.IsHealer {
		if ctx.DamagedAlly.Found && ctx.DamagedAlly.Distance <= effectiveRange {
			return StateHealing
		}
		return StateMoving
	}

	if !ctx.Enemy.Found {
		return StateMoving
	}

	if ctx.Enemy.Distance <= effectiveRange {
		if ctx.IsTank {
			return StateHolding
		}
		return StateAttacking
	}
	return StateMoving
}

// TransitionToDying 进入死亡状态（幂等）
// 返回 true 表示本次调用发生了实际转换
func (m *StateMachine) TransitionToDying() bool {
	if m.current == StateDying {
		return false
	}
	m.apply(StateDying)
	return true
}

func (m *StateMachine) apply(next State) {
	if next == m.current {
		return
	}
	prev := m.current
	m.current = next
	if m.onChange != nil {
		m.onChange(prev, next)
	}
}
