package session

// Ledger 当前投票的答卷，每个连接最多一条
type Ledger struct {
	answers map[string]string
}

func NewLedger() *Ledger {
	return &Ledger{answers: make(map[string]string)}
}

// Record 写入 id 的答案；已有答案时不覆盖并返回 false
func (l *Ledger) Record(id, option string) bool {
	if _, ok := l.answers[id]; ok {
		return false
	}
	l.answers[id] = option
	return true
}

// Lookup 查询 id 的答案，ok 表示是否已作答
func (l *Ledger) Lookup(id string) (option string, ok bool) {
	option, ok = l.answers[id]
	return
}

func (l *Ledger) Remove(id string) { delete(l.answers, id) }

func (l *Ledger) Len() int { return len(l.answers) }

// Reset 新投票发布时清空
func (l *Ledger) Reset() { l.answers = make(map[string]string) }

func (l *Ledger) each(fn func(option string)) {
	for _, option := range l.answers {
		fn(option)
	}
}
