package session

import (
	"math"
	"time"

	"classpoll/internal/models"
)

// Outbound 会话产生的一条待推送事件，To 为空表示广播
type Outbound struct {
	To    string
	Event models.Event
}

// Broadcast 是否发给所有连接
func (o Outbound) Broadcast() bool { return o.To == "" }

// Session 课堂投票会话
//
// 持有唯一的当前投票、在线学生、答卷和历史记录；不加锁，调用方保证同一时间只处理一个事件
type Session struct {
	registry *Registry
	ledger   *Ledger
	state    PollState
	history  History
	now      func() time.Time
}

type Option func(*Session)

// WithClock 替换生成完成时间的时钟
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(opts ...Option) *Session {
	s := &Session{
		registry: NewRegistry(),
		ledger:   NewLedger(),
		state:    NoActivePoll{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State 当前投票状态
func (s *Session) State() PollState { return s.state }

// Connect 新连接建立，有投票时只给该连接同步题目和计票
func (s *Session) Connect(id string) []Outbound {
	return s.sync(id)
}

// Join 学生报名，name 为空时使用默认昵称
func (s *Session) Join(id, name string) []Outbound {
	if name == "" {
		name = models.DefaultName
	}
	s.registry.Register(id, name)

	out := s.sync(id)
	return append(out, s.participants())
}

// Publish 发布新投票，替换旧投票并清空所有答卷
func (s *Session) Publish(poll models.Poll) []Outbound {
	poll = poll.Clone()
	s.state = PollActive{Poll: poll}
	s.ledger.Reset()
	return []Outbound{broadcast(models.EventPollPublished, poll.Clone())}
}

// Submit 提交答案
//
// 被拒绝时不改变任何状态，返回原因；成功后广播票数，若答卷数达到在线人数则广播完成并写入历史
func (s *Session) Submit(id string, answer any) ([]Outbound, error) {
	if !s.registry.Has(id) {
		return nil, ErrNotParticipant
	}
	if _, answered := s.ledger.Lookup(id); answered {
		return nil, ErrAlreadyAnswered
	}
	active, ok := s.state.(PollActive)
	if !ok {
		return nil, ErrNoActivePoll
	}
	index, ok := answerIndex(answer)
	if !ok || index < 0 || index >= len(active.Poll.Options) {
		return nil, ErrInvalidAnswer
	}

	s.ledger.Record(id, active.Poll.Options[index])

	tally := Tally(s.state, s.ledger)
	out := []Outbound{broadcast(models.EventResultsUpdated, tally.Clone())}

	if s.ledger.Len() >= s.registry.Count() {
		out = append(out, broadcast(models.EventPollComplete, tally.Clone()))
		s.history.Append(active.Poll, tally, s.timestamp())
	}
	return out, nil
}

// Kick 踢出第一个昵称为 name 的学生，无论是否找到都广播名单
func (s *Session) Kick(name string) []Outbound {
	var out []Outbound
	if id, ok := s.registry.First(name); ok {
		out = append(out, Outbound{To: id, Event: models.Event{Name: models.EventKicked}})
		s.registry.Remove(id)
		s.ledger.Remove(id)
	}
	return append(out, s.participants())
}

// Disconnect 连接断开，移除学生和答卷；不会重新判断是否完成
func (s *Session) Disconnect(id string) []Outbound {
	s.registry.Remove(id)
	s.ledger.Remove(id)
	return []Outbound{s.participants()}
}

// Message 聊天消息原样转发给所有连接
func (s *Session) Message(payload any) []Outbound {
	return []Outbound{broadcast(models.EventReceiveMessage, payload)}
}

// Tally 当前计票
func (s *Session) Tally() models.Tally {
	return Tally(s.state, s.ledger)
}

// Status 实时状态，无投票时 ok 为 false
func (s *Session) Status() (models.Status, bool) {
	active, ok := s.state.(PollActive)
	if !ok {
		return models.Status{}, false
	}
	return models.Status{
		Poll:              active.Poll.Clone(),
		Results:           s.Tally(),
		TotalStudents:     s.registry.Count(),
		ResponsesReceived: s.ledger.Len(),
	}, true
}

// History 全部历史记录，按完成顺序
func (s *Session) History() []models.HistoryRecord {
	return s.history.Records()
}

// Names 在线学生昵称
func (s *Session) Names() []string {
	return s.registry.Names()
}

// Answer 查询 id 在当前投票中的答案
func (s *Session) Answer(id string) (string, bool) {
	return s.ledger.Lookup(id)
}

func (s *Session) Stats() models.Stats {
	_, active := s.state.(PollActive)
	return models.Stats{
		Participants:   s.registry.Count(),
		Answers:        s.ledger.Len(),
		PollActive:     active,
		PollsCompleted: s.history.Len(),
	}
}

func (s *Session) sync(id string) []Outbound {
	active, ok := s.state.(PollActive)
	if !ok {
		return nil
	}
	return []Outbound{
		{To: id, Event: models.Event{Name: models.EventPollPublished, Payload: active.Poll.Clone()}},
		{To: id, Event: models.Event{Name: models.EventResultsUpdated, Payload: s.Tally()}},
	}
}

func (s *Session) participants() Outbound {
	return broadcast(models.EventParticipantList, s.registry.Names())
}

func (s *Session) timestamp() string {
	return s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func broadcast(name models.EventName, payload any) Outbound {
	return Outbound{Event: models.Event{Name: name, Payload: payload}}
}

// answerIndex 只接受整数值的数字
func answerIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
