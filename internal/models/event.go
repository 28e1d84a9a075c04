package models

import "github.com/goccy/go-json"

// EventName 实时通道事件名
type EventName string

// 客户端发送的事件
const (
	EventConnect     EventName = "connect"
	EventJoin        EventName = "join"
	EventPublishPoll EventName = "publish-poll"
	EventSubmit      EventName = "submit-answer"
	EventKick        EventName = "kick"
	EventMessage     EventName = "send-message"
	EventDisconnect  EventName = "disconnect"
)

// 服务端推送的事件
const (
	EventPollPublished   EventName = "poll-published"
	EventResultsUpdated  EventName = "results-updated"
	EventPollComplete    EventName = "poll-complete"
	EventParticipantList EventName = "participant-list"
	EventKicked          EventName = "kicked"
	EventReceiveMessage  EventName = "receive-message"
)

// DefaultName 未提供昵称时使用
const DefaultName = "Anonymous"

// Frame 实时通道上的一帧
type Frame struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event 服务端要推送的事件与负载
type Event struct {
	Name    EventName
	Payload any
}

// JoinRequest join 负载
type JoinRequest struct {
	Name string `json:"name"`
}

// PublishRequest publish-poll 负载
type PublishRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Duration float64  `json:"duration"`
}

// SubmitRequest submit-answer 负载
//
// AnswerIndex 保留原始值，由会话判断是否是合法整数
type SubmitRequest struct {
	AnswerIndex any `json:"answerIndex"`
}

// KickRequest kick 负载
type KickRequest struct {
	Name string `json:"name"`
}
