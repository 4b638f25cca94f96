package metrics

import (
	"strconv"
	"time"
)

const (
	FieldRequests         = "requests"
	FieldSucceeded        = "succeeded"
	FieldFailed           = "failed"
	FieldValidationFailed = "validation_failed"
	FieldTotalLatencyMs   = "total_latency_ms"
	FieldLatencyCount     = "latency_count"
)

// Hourly is one hour of narration counters.
type Hourly struct {
	Date             string `json:"date" example:"2024-05-01"`
	Hour             int    `json:"hour" example:"14"`
	Requests         int64  `json:"requests"`
	Succeeded        int64  `json:"succeeded"`
	Failed           int64  `json:"failed"`
	ValidationFailed int64  `json:"validation_failed"`
	AvgLatencyMs     int64  `json:"avg_latency_ms"`
}

type Summary struct {
	Hours            int      `json:"hours"`
	Requests         int64    `json:"requests"`
	Succeeded        int64    `json:"succeeded"`
	Failed           int64    `json:"failed"`
	ValidationFailed int64    `json:"validation_failed"`
	AvgLatencyMs     int64    `json:"avg_latency_ms"`
	ErrorRate        float64  `json:"error_rate"`
	Buckets          []Hourly `json:"buckets"`
}

func RedisKey(t time.Time) string {
	t = t.UTC()
	return "narrator:metrics:" + t.Format("2006-01-02") + ":" + strconv.Itoa(t.Hour())
}

// Summarize folds hourly buckets into totals. Average latency is weighted
// by each bucket's request count.
func Summarize(hours int, buckets []Hourly) Summary {
	s := Summary{Hours: hours, Buckets: buckets}
	if s.Buckets == nil {
		s.Buckets = []Hourly{}
	}

	var weighted int64
	for _, b := range buckets {
		s.Requests += b.Requests
		s.Succeeded += b.Succeeded
		s.Failed += b.Failed
		s.ValidationFailed += b.ValidationFailed
		weighted += b.AvgLatencyMs * b.Requests
	}

	if s.Requests > 0 {
		s.AvgLatencyMs = weighted / s.Requests
		s.ErrorRate = float64(s.Failed) / float64(s.Requests) * 100
	}
	return s
}
