package stats

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

// SessionTokenStats aggregates token usage over one session.
type SessionTokenStats struct {
	SessionID           string `json:"sessionId"`
	ProjectName         string `json:"projectName"`
	TotalInputTokens    int64  `json:"totalInputTokens"`
	TotalOutputTokens   int64  `json:"totalOutputTokens"`
	TotalCacheCreation  int64  `json:"totalCacheCreationTokens"`
	TotalCacheRead      int64  `json:"totalCacheReadTokens"`
	TotalTokens         int64  `json:"totalTokens"`
	MessageCount        int    `json:"messageCount"`
	FirstMessageTime    string `json:"firstMessageTime"`
	LastMessageTime     string `json:"lastMessageTime"`
}

// DailyStats buckets activity by calendar day.
type DailyStats struct {
	Date         string `json:"date"`
	TotalTokens  int64  `json:"totalTokens"`
	InputTokens  int64  `json:"inputTokens"`
	OutputTokens int64  `json:"outputTokens"`
	MessageCount int    `json:"messageCount"`
}

// ToolUsageStats counts how often one tool was invoked.
type ToolUsageStats struct {
	ToolName   string `json:"toolName"`
	UsageCount int    `json:"usageCount"`
}

// HeatmapCell is one (weekday, hour) bucket of activity.
type HeatmapCell struct {
	Day           int   `json:"day"`
	Hour          int   `json:"hour"`
	ActivityCount int   `json:"activityCount"`
	TokensUsed    int64 `json:"tokensUsed"`
}

// TokenDistribution splits total tokens by kind.
type TokenDistribution struct {
	Input         int64 `json:"input"`
	Output        int64 `json:"output"`
	CacheCreation int64 `json:"cacheCreation"`
	CacheRead     int64 `json:"cacheRead"`
}

// ProjectSummary aggregates stats over every session of a project.
type ProjectSummary struct {
	ProjectName       string            `json:"projectName"`
	TotalSessions     int               `json:"totalSessions"`
	TotalMessages     int               `json:"totalMessages"`
	TotalTokens       int64             `json:"totalTokens"`
	AvgTokensPerSess  int64             `json:"avgTokensPerSession"`
	MostActiveHour    int               `json:"mostActiveHour"`
	MostUsedTools     []ToolUsageStats  `json:"mostUsedTools"`
	DailyStats        []DailyStats      `json:"dailyStats"`
	ActivityHeatmap   []HeatmapCell     `json:"activityHeatmap"`
	TokenDistribution TokenDistribution `json:"tokenDistribution"`
}

// SessionComparison places one session relative to its project.
type SessionComparison struct {
	SessionID          string  `json:"sessionId"`
	PercentOfTokens    float64 `json:"percentageOfProjectTokens"`
	PercentOfMessages  float64 `json:"percentageOfProjectMessages"`
	RankByTokens       int     `json:"rankByTokens"`
	IsAboveAverage     bool    `json:"isAboveAverage"`
}

// ForSession computes token stats over one session's messages. Summary
// messages carry no usage and no real timestamp, so they are not counted.
func ForSession(sessionID, projectName string, msgs []transcript.Message) SessionTokenStats {
	out := SessionTokenStats{
		SessionID:   sessionID,
		ProjectName: projectName,
	}
	for i := range msgs {
		if msgs[i].Type == transcript.TypeSummary {
			continue
		}
		out.MessageCount++
		usage := ExtractUsage(&msgs[i])
		out.TotalInputTokens += usage.InputTokens
		out.TotalOutputTokens += usage.OutputTokens
		out.TotalCacheCreation += usage.CacheCreationTokens
		out.TotalCacheRead += usage.CacheReadTokens

		if out.FirstMessageTime == "" {
			out.FirstMessageTime = msgs[i].Timestamp
		}
		out.LastMessageTime = msgs[i].Timestamp
	}
	out.TotalTokens = out.TotalInputTokens + out.TotalOutputTokens +
		out.TotalCacheCreation + out.TotalCacheRead
	return out
}

// ForProject computes per-session stats and the aggregated summary for a
// project directory. Unreadable sessions are skipped by the store layer.
func ForProject(ctx context.Context, store *session.Store, projectPath, projectName string) ([]SessionTokenStats, *ProjectSummary, error) {
	sessions, err := store.ListSessions(ctx, projectPath, false)
	if err != nil {
		return nil, nil, err
	}

	summary := &ProjectSummary{ProjectName: projectName}
	daily := map[string]*DailyStats{}
	tools := map[string]int{}
	heat := map[[2]int]*HeatmapCell{}
	hours := map[int]int{}

	var perSession []SessionTokenStats
	for _, info := range sessions {
		msgs, _, _, err := store.LoadMessages(ctx, info.FilePath)
		if err != nil {
			continue
		}
		st := ForSession(info.ActualSessionID, projectName, msgs)
		perSession = append(perSession, st)

		summary.TotalSessions++
		summary.TotalMessages += st.MessageCount
		summary.TotalTokens += st.TotalTokens
		summary.TokenDistribution.Input += st.TotalInputTokens
		summary.TokenDistribution.Output += st.TotalOutputTokens
		summary.TokenDistribution.CacheCreation += st.TotalCacheCreation
		summary.TokenDistribution.CacheRead += st.TotalCacheRead

		for i := range msgs {
			if msgs[i].Type == transcript.TypeSummary {
				continue
			}
			accumulateMessage(&msgs[i], daily, tools, heat, hours)
		}
	}

	if summary.TotalSessions > 0 {
		summary.AvgTokensPerSess = summary.TotalTokens / int64(summary.TotalSessions)
	}
	summary.MostActiveHour = busiestHour(hours)
	summary.DailyStats = sortedDaily(daily)
	summary.MostUsedTools = sortedTools(tools)
	summary.ActivityHeatmap = sortedHeatmap(heat)
	return perSession, summary, nil
}

func accumulateMessage(msg *transcript.Message, daily map[string]*DailyStats, tools map[string]int, heat map[[2]int]*HeatmapCell, hours map[int]int) {
	usage := ExtractUsage(msg)

	ts, tsOK := parseTime(msg.Timestamp)
	if tsOK {
		date := ts.Format("2006-01-02")
		d := daily[date]
		if d == nil {
			d = &DailyStats{Date: date}
			daily[date] = d
		}
		d.MessageCount++
		d.InputTokens += usage.InputTokens
		d.OutputTokens += usage.OutputTokens
		d.TotalTokens += usage.Total()

		hours[ts.Hour()]++
		key := [2]int{int(ts.Weekday()), ts.Hour()}
		cell := heat[key]
		if cell == nil {
			cell = &HeatmapCell{Day: key[0], Hour: key[1]}
			heat[key] = cell
		}
		cell.ActivityCount++
		cell.TokensUsed += usage.Total()
	}

	for _, block := range msg.ContentBlocks() {
		if block.Type == transcript.ContentTypeToolUse && block.Name != "" {
			tools[block.Name]++
		}
	}
	if len(msg.ToolUse) > 0 {
		var tu struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(msg.ToolUse, &tu); err == nil && tu.Name != "" {
			tools[tu.Name]++
		}
	}
}

// Compare places sessionID among its project's sessions. Returns false
// when the session is not part of the given list.
func Compare(perSession []SessionTokenStats, sessionID string) (SessionComparison, bool) {
	var target *SessionTokenStats
	var totalTokens int64
	totalMessages := 0
	for i := range perSession {
		totalTokens += perSession[i].TotalTokens
		totalMessages += perSession[i].MessageCount
		if perSession[i].SessionID == sessionID {
			target = &perSession[i]
		}
	}
	if target == nil || len(perSession) == 0 {
		return SessionComparison{}, false
	}

	ranked := make([]SessionTokenStats, len(perSession))
	copy(ranked, perSession)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].TotalTokens > ranked[j].TotalTokens
	})
	rank := 1
	for i := range ranked {
		if ranked[i].SessionID == sessionID {
			rank = i + 1
			break
		}
	}

	cmp := SessionComparison{
		SessionID:    sessionID,
		RankByTokens: rank,
	}
	if totalTokens > 0 {
		cmp.PercentOfTokens = 100 * float64(target.TotalTokens) / float64(totalTokens)
	}
	if totalMessages > 0 {
		cmp.PercentOfMessages = 100 * float64(target.MessageCount) / float64(totalMessages)
	}
	avg := float64(totalTokens) / float64(len(perSession))
	cmp.IsAboveAverage = float64(target.TotalTokens) > avg
	return cmp, true
}

func parseTime(ts string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func busiestHour(hours map[int]int) int {
	best, bestCount := 0, -1
	for h := range 24 {
		if c := hours[h]; c > bestCount {
			best, bestCount = h, c
		}
	}
	return best
}

func sortedDaily(daily map[string]*DailyStats) []DailyStats {
	out := make([]DailyStats, 0, len(daily))
	for _, d := range daily {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func sortedTools(tools map[string]int) []ToolUsageStats {
	out := make([]ToolUsageStats, 0, len(tools))
	for name, count := range tools {
		out = append(out, ToolUsageStats{ToolName: name, UsageCount: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsageCount != out[j].UsageCount {
			return out[i].UsageCount > out[j].UsageCount
		}
		return out[i].ToolName < out[j].ToolName
	})
	return out
}

func sortedHeatmap(heat map[[2]int]*HeatmapCell) []HeatmapCell {
	out := make([]HeatmapCell, 0, len(heat))
	for _, cell := range heat {
		out = append(out, *cell)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}
