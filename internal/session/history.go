package session

import "classpoll/internal/models"

// History 已完成投票的记录，只追加
type History struct {
	records []models.HistoryRecord
}

func (h *History) Append(poll models.Poll, results models.Tally, timestamp string) {
	h.records = append(h.records, models.HistoryRecord{
		Poll:      poll.Clone(),
		Results:   results.Clone(),
		Timestamp: timestamp,
	})
}

func (h *History) Len() int { return len(h.records) }

// Records 返回副本，调用方修改不影响已保存的记录
func (h *History) Records() []models.HistoryRecord {
	out := make([]models.HistoryRecord, 0, len(h.records))
	for _, r := range h.records {
		out = append(out, models.HistoryRecord{
			Poll:      r.Poll.Clone(),
			Results:   r.Results.Clone(),
			Timestamp: r.Timestamp,
		})
	}
	return out
}
