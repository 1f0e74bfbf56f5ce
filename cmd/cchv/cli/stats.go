package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/paths"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/provider"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/stats"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/view"
)

func newStatsCmd(a *app) *cobra.Command {
	var compare bool

	cmd := &cobra.Command{
		Use:   "stats [session|project]",
		Short: "Token and activity statistics",
		Long:  "Token statistics for a session file or a whole project directory.\nWithout an argument a session is picked interactively.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.currentProvider()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
					return runProjectStats(cmd, a, args[0])
				}
			}

			sessionPath, err := resolveSessionPath(cmd.Context(), p, args)
			if err != nil {
				return err
			}
			return runSessionStats(cmd, a, p, sessionPath, compare)
		},
	}

	cmd.Flags().BoolVar(&compare, "compare", false, "rank the session against its project")
	return cmd
}

func runSessionStats(cmd *cobra.Command, a *app, p provider.Provider, sessionPath string, compare bool) error {
	msgs, err := p.Messages(cmd.Context(), sessionPath)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	sessionID := session.ActualSessionID(msgs, sessionPath)
	projectName := paths.ProjectName(filepath.Base(filepath.Dir(sessionPath)))

	st := stats.ForSession(sessionID, projectName, msgs)
	printSessionStats(cmd, a.palette(), st)

	if !compare {
		return nil
	}
	claude, ok := p.(*provider.ClaudeProvider)
	if !ok {
		return fmt.Errorf("--compare is only available for the claude-code provider")
	}
	perSession, _, err := stats.ForProject(cmd.Context(), claude.Store(), filepath.Dir(sessionPath), projectName)
	if err != nil {
		return err
	}
	comparison, ok := stats.Compare(perSession, st.SessionID)
	if !ok {
		return fmt.Errorf("session %s not found in project", st.SessionID)
	}
	printComparison(cmd, a.palette(), comparison)
	return nil
}

func runProjectStats(cmd *cobra.Command, a *app, projectPath string) error {
	store := session.NewStore()
	projectName := paths.ProjectName(filepath.Base(projectPath))

	perSession, summary, err := stats.ForProject(cmd.Context(), store, projectPath, projectName)
	if err != nil {
		return err
	}
	pal := a.palette()

	cmd.Println(pal.Heading(fmt.Sprintf("project %s", summary.ProjectName)))
	cmd.Printf("  sessions: %d  messages: %d  tokens: %d (avg %d/session)\n",
		summary.TotalSessions, summary.TotalMessages, summary.TotalTokens, summary.AvgTokensPerSess)
	cmd.Printf("  most active hour: %02d:00\n", summary.MostActiveHour)

	d := summary.TokenDistribution
	cmd.Printf("  tokens: input %d, output %d, cache creation %d, cache read %d\n",
		d.Input, d.Output, d.CacheCreation, d.CacheRead)

	if len(summary.MostUsedTools) > 0 {
		cmd.Println(pal.Heading("top tools"))
		for i, tool := range summary.MostUsedTools {
			if i == 5 {
				break
			}
			cmd.Printf("  %-20s %d\n", tool.ToolName, tool.UsageCount)
		}
	}

	if len(summary.DailyStats) > 0 {
		cmd.Println(pal.Heading("daily activity"))
		for _, day := range summary.DailyStats {
			cmd.Printf("  %s  %6d msgs  %10d tokens\n", day.Date, day.MessageCount, day.TotalTokens)
		}
	}

	cmd.Println(pal.Heading("sessions by tokens"))
	for _, st := range perSession {
		cmd.Printf("  %-40s %10d tokens  %d msgs\n",
			stringsTruncate(st.SessionID, 40), st.TotalTokens, st.MessageCount)
	}
	return nil
}

func printSessionStats(cmd *cobra.Command, pal view.Palette, st stats.SessionTokenStats) {
	cmd.Println(pal.Heading(fmt.Sprintf("session %s", st.SessionID)))
	cmd.Printf("  messages: %d\n", st.MessageCount)
	cmd.Printf("  tokens: %d total (input %d, output %d, cache creation %d, cache read %d)\n",
		st.TotalTokens, st.TotalInputTokens, st.TotalOutputTokens,
		st.TotalCacheCreation, st.TotalCacheRead)
	if st.FirstMessageTime != "" {
		cmd.Printf("  span: %s .. %s\n", st.FirstMessageTime, st.LastMessageTime)
	}
}

func printComparison(cmd *cobra.Command, pal view.Palette, c stats.SessionComparison) {
	cmd.Println(pal.Heading("within project"))
	cmd.Printf("  %.1f%% of project tokens, %.1f%% of project messages\n",
		c.PercentOfTokens, c.PercentOfMessages)
	above := "below"
	if c.IsAboveAverage {
		above = "above"
	}
	cmd.Printf("  rank %d by tokens, %s project average\n", c.RankByTokens, above)
}

func stringsTruncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
