package domain

import "time"

// StyleTargetResult 是一次 (style, target) 循环完成后的统计。
type StyleTargetResult struct {
	Style Style `json:"style"`
	Size  int   `json:"size"`
	Count int   `json:"count"`
}

// RunReport 汇总一次完整运行的结果（只在内存中使用；输出树里只放 PNG）。
type RunReport struct {
	SourceRoot string `json:"source_root"`
	OutRoot    string `json:"out_root"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Entries []StyleTargetResult `json:"entries"`
	// Skipped 记录配置了但磁盘上不存在的风格目录（绝对路径）。
	Skipped []string `json:"skipped"`
}

// Total 返回本次写出的 PNG 文件总数。
func (r RunReport) Total() int {
	n := 0
	for _, e := range r.Entries {
		n += e.Count
	}
	return n
}

// Duration 返回运行耗时；未结束时返回 0。
func (r RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
