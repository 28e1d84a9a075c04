package live

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/savsgio/gotils/strconv"

	"classpoll/internal/models"
	"classpoll/internal/session"
	"classpoll/pkg/metrics"
)

var (
	ErrClosed    = errors.New("hub is not running")
	ErrDuplicate = errors.New("connection id already attached")
)

type client struct {
	id   string
	send chan []byte
}

// Hub 实时通道调度
//
// 所有连接事件和查询都在 Run 的单个协程里依次执行，会话状态只由该协程访问
type Hub struct {
	session  *session.Session
	metrics  *metrics.Metrics
	buffer   int
	clients  map[string]*client
	requests chan func()
	stopped  chan struct{}
}

func NewHub(s *session.Session, m *metrics.Metrics, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		session:  s,
		metrics:  m,
		buffer:   buffer,
		clients:  make(map[string]*client),
		requests: make(chan func()),
		stopped:  make(chan struct{}),
	}
}

// Run 处理事件直到 ctx 结束，退出时关闭所有连接的发送队列
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-h.requests:
			fn()
		}
	}
}

func (h *Hub) shutdown() {
	close(h.stopped)
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
	h.metrics.Connections.Set(0)
}

// do 把 fn 交给事件循环执行并等待完成
func (h *Hub) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}
	select {
	case h.requests <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.stopped:
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connect 接入新连接，返回该连接的发送队列；队列关闭表示连接应当断开
func (h *Hub) Connect(ctx context.Context, id string) (<-chan []byte, error) {
	var (
		send <-chan []byte
		err  error
	)
	doErr := h.do(ctx, func() {
		if _, ok := h.clients[id]; ok {
			err = ErrDuplicate
			return
		}
		c := &client{id: id, send: make(chan []byte, h.buffer)}
		h.clients[id] = c
		send = c.send
		h.metrics.Connections.Set(float64(len(h.clients)))
		h.metrics.Events.WithLabelValues(string(models.EventConnect)).Inc()
		log.Debug().Str("id", id).Msg("新连接接入")
		h.deliver(h.session.Connect(id))
	})
	if doErr != nil {
		return nil, doErr
	}
	return send, err
}

// Receive 处理连接发来的一帧，无法解析或不合规的请求静默丢弃
func (h *Hub) Receive(ctx context.Context, id string, raw []byte) error {
	return h.do(ctx, func() {
		if _, ok := h.clients[id]; !ok {
			return
		}
		frame, err := DecodeFrame(raw)
		if err != nil {
			log.Debug().Err(err).Str("id", id).Str("raw", strconv.B2S(raw)).Msg("无法解析的消息")
			return
		}
		h.handle(id, frame)
	})
}

// Disconnect 连接断开；已被移除的连接直接忽略
func (h *Hub) Disconnect(ctx context.Context, id string) error {
	return h.do(ctx, func() {
		c, ok := h.clients[id]
		if !ok {
			return
		}
		close(c.send)
		delete(h.clients, id)
		h.metrics.Connections.Set(float64(len(h.clients)))
		h.metrics.Events.WithLabelValues(string(models.EventDisconnect)).Inc()
		log.Debug().Str("id", id).Msg("连接断开")
		h.deliver(h.session.Disconnect(id))
	})
}

// Status 当前投票的实时状态，ok 为 false 表示没有投票
func (h *Hub) Status(ctx context.Context) (status models.Status, ok bool, err error) {
	err = h.do(ctx, func() {
		status, ok = h.session.Status()
	})
	return
}

// History 历史记录
func (h *Hub) History(ctx context.Context) (records []models.HistoryRecord, err error) {
	err = h.do(ctx, func() {
		records = h.session.History()
	})
	return
}

// Stats 会话概况
func (h *Hub) Stats(ctx context.Context) (stats models.Stats, err error) {
	err = h.do(ctx, func() {
		stats = h.session.Stats()
		stats.Connections = len(h.clients)
	})
	return
}

func (h *Hub) handle(id string, frame models.Frame) {
	var out []session.Outbound

	switch frame.Event {
	case models.EventJoin:
		name, err := decodeName(frame.Data)
		if err != nil {
			log.Debug().Err(err).Str("id", id).Msg("报名参数错误")
			return
		}
		out = h.session.Join(id, name)
		log.Info().Str("id", id).Str("name", name).Msg("学生报名")
	case models.EventPublishPoll:
		poll, err := decodePublish(frame.Data)
		if err != nil {
			log.Debug().Err(err).Str("id", id).Msg("投票参数错误")
			return
		}
		out = h.session.Publish(poll)
		log.Info().Str("question", poll.Question).Strs("options", poll.Options).Msg("发布新投票")
	case models.EventSubmit:
		answer, err := decodeSubmit(frame.Data)
		if err != nil {
			log.Debug().Err(err).Str("id", id).Msg("答案参数错误")
			return
		}
		out, err = h.session.Submit(id, answer)
		if err != nil {
			h.metrics.Rejected.WithLabelValues(rejectReason(err)).Inc()
			log.Debug().Err(err).Str("id", id).Msg("忽略答案")
			return
		}
	case models.EventKick:
		name, err := decodeName(frame.Data)
		if err != nil {
			log.Debug().Err(err).Str("id", id).Msg("踢人参数错误")
			return
		}
		out = h.session.Kick(name)
		log.Info().Str("name", name).Msg("踢出学生")
	case models.EventMessage:
		out = h.session.Message(frame.Data)
	default:
		log.Debug().Str("id", id).Str("event", string(frame.Event)).Msg("未知事件")
		return
	}

	h.metrics.Events.WithLabelValues(string(frame.Event)).Inc()
	h.deliver(out)
}

// deliver 按顺序推送；发送队列已满的连接被移除，并按断开处理
func (h *Hub) deliver(out []session.Outbound) {
	for len(out) > 0 {
		var dropped []string
		for _, o := range out {
			if o.Event.Name == models.EventPollComplete {
				h.metrics.PollsCompleted.Inc()
				log.Info().Interface("results", o.Event.Payload).Msg("投票完成")
			}
			frame, err := EncodeEvent(o.Event)
			if err != nil {
				log.Error().Err(err).Msg("编码推送失败")
				continue
			}
			if o.Broadcast() {
				for id, c := range h.clients {
					if !h.push(c, frame) {
						dropped = append(dropped, id)
					}
				}
				continue
			}
			if c, ok := h.clients[o.To]; ok && !h.push(c, frame) {
				dropped = append(dropped, o.To)
			}
		}

		out = nil
		for _, id := range dropped {
			out = append(out, h.session.Disconnect(id)...)
		}
	}
	h.metrics.Participants.Set(float64(h.session.Stats().Participants))
}

// push 非阻塞写入发送队列，写不进去时立即移除该连接
func (h *Hub) push(c *client, frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
	}
	close(c.send)
	delete(h.clients, c.id)
	h.metrics.Dropped.Inc()
	h.metrics.Connections.Set(float64(len(h.clients)))
	log.Warn().Str("id", c.id).Msg("发送队列已满，断开连接")
	return false
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, session.ErrNotParticipant):
		return "not_participant"
	case errors.Is(err, session.ErrAlreadyAnswered):
		return "already_answered"
	case errors.Is(err, session.ErrNoActivePoll):
		return "no_active_poll"
	case errors.Is(err, session.ErrInvalidAnswer):
		return "invalid_answer"
	default:
		return "unknown"
	}
}
