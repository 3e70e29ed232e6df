package assistant

import (
	"fmt"
	"math"
	"strings"

	"github.com/oliver-zyn/productivity-hub/internal/model"
)

const systemPrompt = `Você é um assistente de produtividade pessoal integrado a um hub de tarefas e projetos.

SUAS CAPACIDADES:
1. CRIAR REUNIÕES: Se o usuário mencionar "reunião" + horário + tema, responda SEMPRE no formato:
   AÇÃO:CREATE_MEETING
   TÍTULO:[título da reunião]
   HORÁRIO:[HH:MM]
   DURAÇÃO:[minutos]

2. CRIAR PROJETOS: Se o usuário quiser um projeto, responda SEMPRE no formato:
   AÇÃO:CREATE_PROJECT
   TÍTULO:[título do projeto]
   CATEGORIA:[trabalho/faculdade/pessoal]
   SUBTAREFAS:[lista de subtarefas separadas por |]

3. ANÁLISE: Analise a produtividade baseado no contexto fornecido

IMPORTANTE:
- Quando detectar uma solicitação de criação, SEMPRE use o formato exato acima
- Seja direto e use os comandos de AÇÃO quando apropriado
- Seja conversacional e útil para outras perguntas
- Use emojis quando apropriado
- Mantenha respostas concisas

Exemplo de resposta para "criar projeto sobre machine learning":
✨ Claro! Vou criar um projeto sobre machine learning para você.

AÇÃO:CREATE_PROJECT
TÍTULO:Aprendizado de Machine Learning
CATEGORIA:pessoal
SUBTAREFAS:Estudar conceitos básicos|Escolher linguagem e ferramentas|Fazer primeiro projeto prático|Estudar algoritmos avançados|Criar portfolio

Projeto criado com sucesso! 🚀`

// Workspace summarizes the user's data for the system prompt.
type Workspace struct {
	Tasks    []model.Task
	Projects []model.Project
	Meetings []model.Meeting
	Metrics  model.Metrics
}

// BuildSystemPrompt returns the static instructions followed by a summary of
// ws when it is non-nil.
func BuildSystemPrompt(ws *Workspace) string {
	if ws == nil {
		return systemPrompt
	}

	completed := 0
	for _, task := range ws.Tasks {
		if task.Completed {
			completed++
		}
	}
	active := 0
	for _, project := range ws.Projects {
		if project.Status == model.ProjectInProgress {
			active++
		}
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nCONTEXTO ATUAL DO USUÁRIO:\n")
	fmt.Fprintf(&b, "- Tarefas: %d (%d concluídas)\n", len(ws.Tasks), completed)
	fmt.Fprintf(&b, "- Projetos: %d (%d em andamento)\n", len(ws.Projects), active)
	fmt.Fprintf(&b, "- Reuniões hoje: %d\n", ws.Metrics.MeetingsToday)
	fmt.Fprintf(&b, "- Pomodoros: %d\n", ws.Metrics.PomodoroSessions)
	fmt.Fprintf(&b, "- Tempo focado: %d minutos", ws.Metrics.FocusTime)
	return b.String()
}

func subtasksPrompt(title, description string) string {
	return fmt.Sprintf(`Crie uma lista de 5-7 subtarefas específicas e práticas para o projeto "%s".

Descrição do projeto: %s

Retorne APENAS as subtarefas, uma por linha, sem numeração ou símbolos. Cada subtarefa deve ser:
- Específica e clara
- Realizável
- Relevante para o projeto
- Em português

Exemplo de formato:
Análise de requisitos
Criação do protótipo
Desenvolvimento da funcionalidade principal`, title, description)
}

func productivityPrompt(ws Workspace) string {
	m := ws.Metrics
	pending := 0
	for _, task := range ws.Tasks {
		if !task.Completed {
			pending++
		}
	}
	active := 0
	for _, project := range ws.Projects {
		if project.Status == model.ProjectInProgress {
			active++
		}
	}

	return fmt.Sprintf(`Analise a produtividade do usuário baseado nos seguintes dados:

MÉTRICAS:
- Tarefas concluídas: %d/%d (%d%%)
- Pomodoros realizados: %d
- Tempo focado: %d minutos
- Projetos ativos: %d
- Reuniões hoje: %d

TAREFAS PENDENTES: %d
PROJETOS EM ANDAMENTO: %d

Forneça uma análise concisa e construtiva com:
1. Avaliação geral (2-3 frases)
2. Principais pontos fortes
3. Sugestões de melhoria (máximo 2)
4. Uma dica prática

Use um tom motivador e personalizado. Máximo 200 palavras.`,
		m.TasksCompleted, m.TasksPlanned, completionRate(m),
		m.PomodoroSessions, m.FocusTime, m.ProjectsActive, m.MeetingsToday,
		pending, active)
}

// DefaultSubtasks is returned when the assistant cannot suggest subtasks.
func DefaultSubtasks() []string {
	return []string{
		"Planejamento e definição de escopo",
		"Pesquisa e análise inicial",
		"Desenvolvimento/Execução principal",
		"Testes e validação",
		"Documentação",
		"Revisão e entrega final",
	}
}

// DefaultProductivityAnalysis renders a canned analysis from the metrics.
func DefaultProductivityAnalysis(m model.Metrics) string {
	rate := completionRate(m)

	insight := "Tente focar em uma tarefa por vez para melhorar sua taxa de conclusão."
	if rate > 70 {
		insight = "Você está indo muito bem hoje! Continue assim."
	}
	tip := "🎉 **Parabéns:** Ótimo uso da técnica Pomodoro!"
	if m.PomodoroSessions < 3 {
		tip = "🎯 **Dica:** Use mais sessões Pomodoro para manter o foco."
	}

	return fmt.Sprintf(`📊 **Análise da sua produtividade:**

✅ Taxa de conclusão: %d%%
⏱️ Tempo focado: %d minutos
🍅 Pomodoros: %d
📋 Projetos ativos: %d

💡 **Insight:** %s

%s`, rate, m.FocusTime, m.PomodoroSessions, m.ProjectsActive, insight, tip)
}

func completionRate(m model.Metrics) int {
	if m.TasksPlanned == 0 {
		return 0
	}
	return int(math.Round(float64(m.TasksCompleted) / float64(m.TasksPlanned) * 100))
}
