package bot

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"recurring-planner/internal/model"
)

const maxDigestItems = 30

// ProjectLookup resolves project names for the digest.
type ProjectLookup interface {
	ListByIDs(ctx context.Context, ids []uint) (map[uint]model.Project, error)
}

// Notifier posts a digest of generated tasks to a Telegram chat.
type Notifier struct {
	api      *tgbotapi.BotAPI
	chatID   int64
	projects ProjectLookup
	loc      *time.Location
	log      *zap.Logger
}

// New authorizes against the Bot API. Pass an empty endpoint to use the public one.
func New(token, endpoint string, chatID int64, projects ProjectLookup, loc *time.Location, log *zap.Logger) (*Notifier, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Notifier{api: api, chatID: chatID, projects: projects, loc: loc, log: log}, nil
}

// NotifyGenerated implements service.Notifier.
func (n *Notifier) NotifyGenerated(ctx context.Context, created []model.Task) error {
	if len(created) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(created))
	for _, task := range created {
		ids = append(ids, task.ProjectID)
	}
	projects, err := n.projects.ListByIDs(ctx, ids)
	if err != nil {
		n.log.Warn("load project names", zap.Error(err))
		projects = nil
	}

	names := make(map[uint]string, len(projects))
	for id, p := range projects {
		names[id] = p.Name
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return n.sendText(FormatDigest(created, names, n.loc))
}

func (n *Notifier) sendText(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

// FormatDigest renders the created tasks as Telegram HTML, earliest due date first.
func FormatDigest(created []model.Task, projectNames map[uint]string, loc *time.Location) string {
	tasks := append([]model.Task(nil), created...)
	sort.SliceStable(tasks, func(i, j int) bool {
		switch {
		case tasks[i].DueDate == nil:
			return false
		case tasks[j].DueDate == nil:
			return true
		default:
			return tasks[i].DueDate.Before(*tasks[j].DueDate)
		}
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("♻️ <b>Recurring tasks created: %d</b>\n", len(tasks)))

	for i, task := range tasks {
		if i == maxDigestItems {
			sb.WriteString(fmt.Sprintf("\n…and %d more", len(tasks)-maxDigestItems))
			break
		}
		sb.WriteString("\n")
		sb.WriteString(formatTask(task, projectNames, loc))
	}

	return strings.TrimSpace(sb.String())
}

func formatTask(task model.Task, projectNames map[uint]string, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🟢 %s", html.EscapeString(strings.TrimSpace(task.Title))))

	if name := strings.TrimSpace(projectNames[task.ProjectID]); name != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(name)))
	}

	if task.DueDate != nil {
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s", task.DueDate.In(loc).Format("2006-01-02")))
	}
	if task.StartTime != "" && task.EndTime != "" {
		sb.WriteString(fmt.Sprintf(" · %s–%s", task.StartTime, task.EndTime))
	}

	return sb.String()
}
