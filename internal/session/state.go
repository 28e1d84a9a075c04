package session

import "classpoll/internal/models"

// PollState 投票状态：NoActivePoll 或 PollActive
type PollState interface {
	pollState()
}

// NoActivePoll 尚未发布任何投票
type NoActivePoll struct{}

// PollActive 当前生效的投票，直到被下一次发布替换
type PollActive struct {
	Poll models.Poll
}

func (NoActivePoll) pollState() {}
func (PollActive) pollState()   {}

// Tally 根据投票状态和答卷计票，无投票时返回空计票
func Tally(state PollState, ledger *Ledger) models.Tally {
	active, ok := state.(PollActive)
	if !ok {
		return models.NewTally(nil)
	}
	tally := models.NewTally(active.Poll.Options)
	ledger.each(func(option string) {
		tally.Add(option)
	})
	return tally
}
