package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/oliver-zyn/productivity-hub/internal/assistant"
	"github.com/oliver-zyn/productivity-hub/internal/command"
	apperrors "github.com/oliver-zyn/productivity-hub/internal/errors"
	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/store"
	"github.com/oliver-zyn/productivity-hub/internal/validation"
)

const (
	projectDeadlineDays     = 30
	aiMeetingDescription    = "Reunião criada pela IA"
	aiProjectDescription    = "Projeto criado automaticamente pela IA"
	notConfiguredReply      = "⚠️ Configure sua API key da OpenAI (OPENAI_API_KEY)"
	emptyAssistantReply     = "Desculpe, não consegui processar sua mensagem."
	commandFailedReplyStart = "❌ Erro ao executar comando: "
)

type ChatService struct {
	workspaces *WorkspaceService
	assistant  *assistant.Client
}

func NewChatService(workspaces *WorkspaceService, assistantClient *assistant.Client) *ChatService {
	return &ChatService{workspaces: workspaces, assistant: assistantClient}
}

func (s *ChatService) GetChat(ctx context.Context, userID string) model.AIChat {
	return s.workspaces.Get(ctx, userID).Chat()
}

func (s *ChatService) SetOpen(ctx context.Context, userID string, open bool) model.AIChat {
	ws := s.workspaces.Get(ctx, userID)
	ws.SetChatOpen(ctx, open)
	return ws.Chat()
}

func (s *ChatService) Clear(ctx context.Context, userID string) model.AIChat {
	ws := s.workspaces.Get(ctx, userID)
	ws.ClearChat(ctx)
	return ws.Chat()
}

// SendMessage records the user message, asks the assistant and executes any
// command found in the reply. The assistant call is not cancelled when the
// caller goes away, so the reply always lands in the chat log.
func (s *ChatService) SendMessage(ctx context.Context, userID, message string) (model.AIChat, *apperrors.APIError) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.AIChat{}, apperrors.BadRequest("empty_message", "message is required")
	}

	ctx = context.WithoutCancel(ctx)
	ws := s.workspaces.Get(ctx, userID)

	ws.AddMessage(ctx, model.RoleUser, message)
	ws.SetTyping(ctx, true)

	workspace := assistantContext(ws)
	reply, err := s.assistant.SendMessage(ctx, message, &workspace)
	if err != nil {
		if errors.Is(err, assistant.ErrNotConfigured) {
			ws.AddMessage(ctx, model.RoleAssistant, "❌ Erro: "+notConfiguredReply)
		} else {
			log.Printf("assistant request for user %s: %v", userID, err)
			ws.AddMessage(ctx, model.RoleAssistant, "❌ Erro: "+err.Error())
		}
		return s.chatAfterTyping(ctx, ws), nil
	}
	if strings.TrimSpace(reply) == "" {
		reply = emptyAssistantReply
	}
	ws.AddMessage(ctx, model.RoleAssistant, reply)

	if cmd := command.Parse(reply); cmd != nil {
		if confirmation, err := s.execute(ctx, ws, cmd); err != nil {
			ws.AddMessage(ctx, model.RoleAssistant, commandFailedReplyStart+commandErrorText(err))
		} else if confirmation != "" {
			ws.AddMessage(ctx, model.RoleAssistant, confirmation)
		}
	}

	return s.chatAfterTyping(ctx, ws), nil
}

// RunCommand executes text as if the assistant had replied with it. It is
// used by clients that produce the command block themselves.
func (s *ChatService) RunCommand(ctx context.Context, userID, text string) (string, *apperrors.APIError) {
	cmd := command.Parse(text)
	if cmd == nil {
		return "", apperrors.BadRequest("no_command", "no command found in text")
	}

	ws := s.workspaces.Get(ctx, userID)
	confirmation, err := s.execute(ctx, ws, cmd)
	if err != nil {
		var invalid *validation.Error
		if errors.As(err, &invalid) {
			return "", storeError(err)
		}
		log.Printf("run command for user %s: %v", userID, err)
		return "", apperrors.Internal("failed to execute command")
	}
	ws.AddMessage(ctx, model.RoleAssistant, confirmation)
	return confirmation, nil
}

func (s *ChatService) chatAfterTyping(ctx context.Context, ws *store.Store) model.AIChat {
	ws.SetTyping(ctx, false)
	return ws.Chat()
}

func (s *ChatService) execute(ctx context.Context, ws *store.Store, cmd *command.Command) (string, error) {
	switch cmd.Type {
	case command.KindCreateMeeting:
		return s.createMeeting(ctx, ws, cmd.Meeting)
	case command.KindCreateProject:
		return s.createProject(ctx, ws, cmd.Project)
	case command.KindAnalyzeProductivity:
		analysis, err := s.assistant.AnalyzeProductivity(ctx, assistantContext(ws))
		if err != nil {
			log.Printf("productivity analysis: %v", err)
		}
		return analysis, nil
	}
	return "", fmt.Errorf("unknown command %q", cmd.Type)
}

// createMeeting schedules the meeting today at the requested time, or
// tomorrow when that time has already passed.
func (s *ChatService) createMeeting(ctx context.Context, ws *store.Store, params *command.MeetingParams) (string, error) {
	now := s.workspaces.now().In(ws.Location())
	start := time.Date(now.Year(), now.Month(), now.Day(), params.Hour, params.Minute, 0, 0, now.Location())
	if start.Before(now) {
		start = start.AddDate(0, 0, 1)
	}

	duration := params.Duration
	if duration <= 0 {
		duration = command.DefaultDuration
	}

	_, err := ws.AddMeeting(ctx, model.NewMeeting{
		Title:       params.Title,
		StartTime:   start,
		Duration:    duration,
		Platform:    model.PlatformMeet,
		Type:        model.MeetingAICreated,
		Description: aiMeetingDescription,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"✅ Reunião \"%s\" criada com sucesso para %02d:%02d! 🎉\n\nLink gerado automaticamente no painel de reuniões.",
		params.Title, params.Hour, params.Minute,
	), nil
}

func (s *ChatService) createProject(ctx context.Context, ws *store.Store, params *command.ProjectParams) (string, error) {
	category := params.Category
	if !category.Valid() {
		category = command.DefaultCategory
	}
	deadline := s.workspaces.now().In(ws.Location()).AddDate(0, 0, projectDeadlineDays)

	project, err := ws.AddProject(ctx, model.NewProject{
		Title:       params.Title,
		Category:    category,
		Deadline:    deadline.Format(model.DeadlineLayout),
		Description: aiProjectDescription,
	})
	if err != nil {
		return "", err
	}

	for _, text := range params.Subtasks {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, _, err := ws.AddSubtask(ctx, project.ID, text); err != nil {
			log.Printf("skip subtask %q of project %d: %v", text, project.ID, err)
		}
	}

	withSubtasks := ""
	if len(params.Subtasks) > 0 {
		withSubtasks = fmt.Sprintf(" com %d subtarefas", len(params.Subtasks))
	}
	return fmt.Sprintf(
		"🎉 Projeto \"%s\" criado com sucesso%s!\n\n📅 Deadline: %s\n📂 Categoria: %s",
		params.Title, withSubtasks, deadline.Format("02/01/2006"), category,
	), nil
}

func commandErrorText(err error) string {
	var invalid *validation.Error
	if errors.As(err, &invalid) {
		return validation.FormatErrors(invalid.Errors)
	}
	return err.Error()
}
