package models

import (
	"golang.org/x/exp/slices"
)

// Poll 教师发布的题目
type Poll struct {
	// Question 题干
	Question string `json:"question"`
	// Options 选项，按发布顺序
	Options []string `json:"options"`
	// Duration 作答时长（秒），仅供客户端展示，服务端不计时
	Duration float64 `json:"duration"`
}

// Clone 深拷贝，历史记录与广播都不能共享选项切片
func (p Poll) Clone() Poll {
	p.Options = slices.Clone(p.Options)
	return p
}

// HistoryRecord 已完成投票的快照，写入后不可变
type HistoryRecord struct {
	Poll    Poll  `json:"poll"`
	Results Tally `json:"results"`
	// Timestamp 完成时间 ISO-8601
	Timestamp string `json:"timestamp"`
}

// Status 当前投票的实时状态
type Status struct {
	Poll              Poll  `json:"poll"`
	Results           Tally `json:"results"`
	TotalStudents     int   `json:"totalStudents"`
	ResponsesReceived int   `json:"responsesReceived"`
}

// Stats 会话概况，系统接口和指标使用
type Stats struct {
	Connections    int  `json:"connections"`
	Participants   int  `json:"participants"`
	Answers        int  `json:"answers"`
	PollActive     bool `json:"poll_active"`
	PollsCompleted int  `json:"polls_completed"`
}
