package session

import "github.com/pkg/errors"

// 提交答案被拒绝的原因，只用于日志和测试，不会回传给客户端
var (
	ErrNotParticipant  = errors.New("submitter is not a registered participant")
	ErrAlreadyAnswered = errors.New("participant already answered the current poll")
	ErrNoActivePoll    = errors.New("no active poll")
	ErrInvalidAnswer   = errors.New("answer index is not a valid option index")
)
