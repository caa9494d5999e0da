package reveal

// State 打字效果的状态
type State int

const (
	StateReset State = iota
	StateRevealing
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StateRevealing:
		return "revealing"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Revealer 按字符逐步暴露文本前缀的状态机
// 前缀长度以 rune 计，不会切断多字节字符
type Revealer struct {
	runes []rune
	pos   int
	state State
}

// NewRevealer 创建处于 StateComplete 的空状态机
func NewRevealer() *Revealer {
	return &Revealer{state: StateComplete}
}

// Reset 开始新的一轮文本
// instant 为 true 时直接进入 StateComplete；空文本同样立即完成
func (r *Revealer) Reset(text string, instant bool) {
	r.runes = []rune(text)
	r.pos = 0
	r.state = StateReset
	if instant || len(r.runes) == 0 {
		r.pos = len(r.runes)
		r.state = StateComplete
	}
}

// Advance 再暴露一个字符，完成后返回 false 且不再改变状态
func (r *Revealer) Advance() bool {
	if r.state == StateComplete {
		return false
	}
	r.pos++
	r.state = StateRevealing
	if r.pos >= len(r.runes) {
		r.pos = len(r.runes)
		r.state = StateComplete
	}
	return true
}

// Prefix 当前暴露的文本前缀
func (r *Revealer) Prefix() string {
	return string(r.runes[:r.pos])
}

func (r *Revealer) Len() int { return r.pos }
func (r *Revealer) Total() int { return len(r.runes) }
func (r *Revealer) State() State { return r.state }
func (r *Revealer) Complete() bool { return r.state == StateComplete }
