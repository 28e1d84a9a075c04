package live

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"classpoll/internal/models"
)

type outFrame struct {
	Event models.EventName `json:"event"`
	Data  any              `json:"data,omitempty"`
}

// EncodeEvent 编码为 {"event": name, "data": payload}
func EncodeEvent(ev models.Event) ([]byte, error) {
	data, err := json.Marshal(outFrame{Event: ev.Name, Data: ev.Payload})
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", ev.Name)
	}
	return data, nil
}

// DecodeFrame 解析客户端发来的一帧
func DecodeFrame(raw []byte) (models.Frame, error) {
	var frame models.Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return models.Frame{}, errors.Wrap(err, "decode frame")
	}
	if frame.Event == "" {
		return models.Frame{}, errors.New("frame without event")
	}
	return frame, nil
}

// decodeName 兼容 {"name": "..."} 与直接传字符串两种写法
func decodeName(data json.RawMessage) (string, error) {
	if len(data) == 0 || string(data) == "null" {
		return "", nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		return name, nil
	}
	var req models.JoinRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return "", errors.Wrap(err, "decode name")
	}
	return req.Name, nil
}

func decodePublish(data json.RawMessage) (models.Poll, error) {
	var req models.PublishRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return models.Poll{}, errors.Wrap(err, "decode poll")
	}
	return models.Poll{Question: req.Question, Options: req.Options, Duration: req.Duration}, nil
}

func decodeSubmit(data json.RawMessage) (any, error) {
	var req models.SubmitRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.Wrap(err, "decode answer")
	}
	return req.AnswerIndex, nil
}
