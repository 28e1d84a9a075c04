package models

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Tally 每个选项的票数，保持选项顺序
//
// 序列化为 JSON 对象 {option: count}，键顺序与投票选项一致
type Tally struct {
	options []string
	counts  map[string]int
}

// NewTally 以 options 初始化计票，每个选项从 0 开始；重复选项合并到首次出现的位置
func NewTally(options []string) Tally {
	t := Tally{counts: make(map[string]int, len(options))}
	for _, option := range options {
		if _, ok := t.counts[option]; ok {
			continue
		}
		t.options = append(t.options, option)
		t.counts[option] = 0
	}
	return t
}

// Add 为 option 计一票，非本次投票的选项直接忽略
func (t Tally) Add(option string) bool {
	if _, ok := t.counts[option]; !ok {
		return false
	}
	t.counts[option]++
	return true
}

// Count 返回 option 的票数以及它是否属于本次投票
func (t Tally) Count(option string) (int, bool) {
	n, ok := t.counts[option]
	return n, ok
}

// Options 计票中的选项（已去重）
func (t Tally) Options() []string {
	return append([]string(nil), t.options...)
}

// Len 选项个数
func (t Tally) Len() int { return len(t.options) }

// Total 总票数
func (t Tally) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Map 转成普通 map，便于测试比较
func (t Tally) Map() map[string]int {
	m := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		m[k] = v
	}
	return m
}

// Clone 深拷贝
func (t Tally) Clone() Tally {
	c := Tally{options: t.Options(), counts: t.Map()}
	return c
}

func (t Tally) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, option := range t.options {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(option)
		if err != nil {
			return nil, errors.Wrap(err, "encode tally key")
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(t.counts[option])
		if err != nil {
			return nil, errors.Wrap(err, "encode tally count")
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 按对象键的出现顺序还原选项顺序
func (t *Tally) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "decode tally")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("tally must be a json object")
	}
	*t = Tally{counts: make(map[string]int)}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return errors.Wrap(err, "decode tally key")
		}
		key, _ := tok.(string)
		var n int
		if err = dec.Decode(&n); err != nil {
			return errors.Wrapf(err, "decode tally count for %q", key)
		}
		if _, ok := t.counts[key]; !ok {
			t.options = append(t.options, key)
		}
		t.counts[key] = n
	}
	return nil
}
