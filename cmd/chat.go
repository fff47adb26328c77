package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/assistant"
	"github.com/lumenplan/dayplanner/internal/insights"
	"github.com/lumenplan/dayplanner/internal/llmclient"
	"github.com/lumenplan/dayplanner/internal/observability"
	"github.com/lumenplan/dayplanner/internal/store"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the planning assistant",
	Long: `Starts an interactive session. Messages are classified into planning
actions (events, goals, pillars, chains, suggestions) and confident results
are applied to the planner store; everything else becomes conversation.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()
	cfg := appConfig

	client, err := llmclient.NewClient(cfg.Assistant.Model, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	baseURL := cfg.Assistant.Model.BaseURL
	if oc, ok := client.(*llmclient.OpenAIClient); ok {
		baseURL = oc.BaseURL()
	}
	monitor := llmclient.NewHealthMonitor(baseURL, cfg.Assistant.Model.ProbeInterval, cfg.Assistant.Model.ProbeTimeout, logger)

	planner, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return err
	}
	defer planner.Close()

	engine := insights.NewEngine(logger)
	asst := assistant.New(client, monitor, engine, cfg.Assistant, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor.Start(ctx)
	defer monitor.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return repl(ctx, asst, planner, engine, logger)
	})
	return g.Wait()
}

// repl reads messages line by line, feeds them through the pipeline, prints
// the reply and persists confident created items.
func repl(ctx context.Context, asst *assistant.Assistant, planner *store.Store, engine *insights.Engine, logger *zap.Logger) error {
	fmt.Println("dayplanner — describe what you want to do. Ctrl-D to leave.")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		resp, err := asst.ProcessMessage(ctx, message, currentDayContext(ctx, planner))
		if err != nil {
			if llmclient.CodeOf(err) == llmclient.ErrCodeNotConnected {
				fmt.Println("(the model endpoint is unreachable; check your provider configuration)")
			} else {
				fmt.Printf("(something went wrong: %v)\n", err)
			}
			continue
		}

		printResponse(resp)

		for _, item := range resp.CreatedItems {
			if err := planner.Apply(ctx, item); err != nil {
				logger.Warn("Failed to persist created item", zap.String("id", item.ID), zap.Error(err))
				continue
			}
		}
		if action, ok := recordableAction(resp); ok {
			engine.Record(action, time.Now())
		}
	}
}

// recordableAction reports whether the response represents a completed
// planning action worth feeding the pattern engine. Guidance replies keep an
// action tag but created nothing; counting those would teach the engine
// habits the user never confirmed.
func recordableAction(resp schemas.AIResponse) (schemas.AssistantAction, bool) {
	if resp.ActionType == nil {
		return "", false
	}
	if len(resp.CreatedItems) > 0 || *resp.ActionType == schemas.ActionSuggestActivities {
		return *resp.ActionType, true
	}
	return "", false
}

func printResponse(resp schemas.AIResponse) {
	fmt.Println(resp.Text)
	for _, s := range resp.Suggestions {
		fmt.Printf("  %s %s (%s, %s) — %s\n", s.Emoji, s.Title, s.Duration.Round(time.Minute), s.Energy, s.Explanation)
	}
	for _, item := range resp.CreatedItems {
		fmt.Printf("  + %s %q saved\n", item.Kind, item.Title)
	}
}

// currentDayContext snapshots today's stored schedule into the immutable
// context the pipeline wants. Energy and mood default to neutral; a fuller
// client would ask the user.
func currentDayContext(ctx context.Context, planner *store.Store) schemas.DayContext {
	now := time.Now()
	day := schemas.DayContext{
		Date:     now,
		Energy:   schemas.EnergyDaylight,
		FreeTime: 4 * time.Hour,
	}

	blocks, err := planner.Schedule(ctx)
	if err != nil {
		return day
	}
	var scheduled time.Duration
	for _, b := range blocks {
		if sameDay(b.StartTime, now) {
			day.Schedule = append(day.Schedule, b)
			scheduled += b.Duration
		}
	}
	if scheduled < day.FreeTime {
		day.FreeTime -= scheduled
	} else {
		day.FreeTime = 0
	}

	pillars, err := planner.Pillars(ctx)
	if err == nil {
		for _, p := range pillars {
			if p.Wisdom != "" {
				day.Principles = append(day.Principles, p.Wisdom)
			}
		}
	}
	return day
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
