package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliver-zyn/productivity-hub/internal/model"
)

func TestParseProjectBlock(t *testing.T) {
	cmd := Parse("AÇÃO:CREATE_PROJECT TÍTULO:Estudo de Go CATEGORIA:pessoal SUBTAREFAS:Ler docs|Escrever hello world|Fazer deploy")

	require.NotNil(t, cmd)
	assert.Equal(t, KindCreateProject, cmd.Type)
	require.NotNil(t, cmd.Project)
	assert.Equal(t, "Estudo de Go", cmd.Project.Title)
	assert.Equal(t, model.CategoryPersonal, cmd.Project.Category)
	assert.Equal(t, []string{"Ler docs", "Escrever hello world", "Fazer deploy"}, cmd.Project.Subtasks)
	assert.Nil(t, cmd.Meeting)
}

func TestParseProjectWithCommentary(t *testing.T) {
	reply := "✨ Claro! Vou criar um projeto para você.\n\n" +
		"AÇÃO:CREATE_PROJECT\n" +
		"TÍTULO:Aprendizado de ML!\n" +
		"CATEGORIA: Faculdade\n" +
		"SUBTAREFAS:Estudar conceitos|Escolher ferramentas| |Criar portfolio\n" +
		"🚀 Projeto criado com sucesso!"

	cmd := Parse(reply)

	require.NotNil(t, cmd)
	require.Equal(t, KindCreateProject, cmd.Type)
	assert.Equal(t, "Aprendizado de ML", cmd.Project.Title)
	assert.Equal(t, model.CategorySchool, cmd.Project.Category)
	assert.Equal(t, []string{"Estudar conceitos", "Escolher ferramentas", "Criar portfolio"}, cmd.Project.Subtasks)
}

func TestParseProjectUnaccentedMarkersAndInvalidCategory(t *testing.T) {
	cmd := Parse("ACAO:CREATE_PROJECT TITULO:Horta em casa CATEGORIA:hobby SUBTAREFAS:Comprar sementes")

	require.NotNil(t, cmd)
	assert.Equal(t, "Horta em casa", cmd.Project.Title)
	assert.Equal(t, model.CategoryPersonal, cmd.Project.Category)
	assert.Equal(t, []string{"Comprar sementes"}, cmd.Project.Subtasks)
}

func TestParseProjectFallsBackToLooseMatch(t *testing.T) {
	cmd := Parse("AÇÃO:CREATE_PROJECT título: Estudo de Rust categoria:Trabalho subtarefas:Ler livro|Praticar Projeto pronto")

	require.NotNil(t, cmd)
	assert.Equal(t, "Estudo de Rust", cmd.Project.Title)
	assert.Equal(t, model.CategoryWork, cmd.Project.Category)
	assert.Equal(t, []string{"Ler livro", "Praticar"}, cmd.Project.Subtasks)
}

func TestParseProjectWithoutFieldsKeepsDefaultTitle(t *testing.T) {
	for _, text := range []string{
		"AÇÃO:CREATE_PROJECT Vou montar um projeto sobre culinária italiana. Aguarde!",
		"Vou criar um projeto sobre Kubernetes avançado. AÇÃO:CREATE_PROJECT",
	} {
		cmd := Parse(text)

		require.NotNil(t, cmd, text)
		assert.Equal(t, DefaultProjectTitle, cmd.Project.Title, text)
		assert.Equal(t, model.CategoryPersonal, cmd.Project.Category, text)
		assert.Empty(t, cmd.Project.Subtasks, text)
	}
}

func TestParseProjectSubtasksEndAtSentinelAfterMarker(t *testing.T) {
	cmd := Parse("🚀 Bora! AÇÃO:CREATE_PROJECT TÍTULO:Estudo de Go CATEGORIA:pessoal SUBTAREFAS:Ler docs|Fazer deploy 🚀 Boa sorte com o projeto")

	require.NotNil(t, cmd)
	assert.Equal(t, "Estudo de Go", cmd.Project.Title)
	assert.Equal(t, []string{"Ler docs", "Fazer deploy"}, cmd.Project.Subtasks)
}

func TestParseProjectAllDefaults(t *testing.T) {
	cmd := Parse("AÇÃO:CREATE_PROJECT")

	require.NotNil(t, cmd)
	assert.Equal(t, DefaultProjectTitle, cmd.Project.Title)
	assert.Equal(t, DefaultCategory, cmd.Project.Category)
	assert.Empty(t, cmd.Project.Subtasks)
}

func TestParseMeeting(t *testing.T) {
	cmd := Parse("Perfeito! AÇÃO:CREATE_MEETING TÍTULO:Reunião de equipe HORÁRIO:18:30 DURAÇÃO:45 minutos")

	require.NotNil(t, cmd)
	assert.Equal(t, KindCreateMeeting, cmd.Type)
	require.NotNil(t, cmd.Meeting)
	assert.Equal(t, MeetingParams{Title: "Reunião de equipe", Hour: 18, Minute: 30, Duration: 45}, *cmd.Meeting)
}

func TestParseMeetingMalformedMinute(t *testing.T) {
	cmd := Parse("AÇÃO:CREATE_MEETING TÍTULO:Café HORÁRIO:9:5")

	require.NotNil(t, cmd)
	assert.Equal(t, 9, cmd.Meeting.Hour)
	assert.Equal(t, 0, cmd.Meeting.Minute)
	assert.Equal(t, DefaultDuration, cmd.Meeting.Duration)
	assert.Equal(t, "Café", cmd.Meeting.Title)
}

func TestParseMeetingDefaults(t *testing.T) {
	cases := map[string]MeetingParams{
		"ACAO:CREATE_MEETING": {Title: DefaultMeetingTitle, Hour: 14, Minute: 0, Duration: 60},
		"ACAO:CREATE_MEETING TITULO:Sync HORARIO:25:99 DURACAO:abc": {Title: "Sync", Hour: 14, Minute: 0, Duration: 60},
		"ACAO:CREATE_MEETING HORARIO:07:15 DURACAO:0":               {Title: DefaultMeetingTitle, Hour: 7, Minute: 15, Duration: 60},
	}
	for input, want := range cases {
		cmd := Parse(input)
		require.NotNil(t, cmd, input)
		assert.Equal(t, want, *cmd.Meeting, input)
	}
}

func TestParseProductivity(t *testing.T) {
	for _, text := range []string{
		"Sua PRODUTIVIDADE está ótima",
		"Fiz uma Análise rápida",
		"analise concluida",
		"Seu desempenho melhorou",
	} {
		cmd := Parse(text)
		require.NotNil(t, cmd, text)
		assert.Equal(t, KindAnalyzeProductivity, cmd.Type, text)
	}
}

func TestParseConversationReturnsNil(t *testing.T) {
	assert.Nil(t, Parse("Olá! Como posso ajudar hoje?"))
	assert.Nil(t, Parse(""))
}

func TestParseProjectTakesPrecedenceOverMeeting(t *testing.T) {
	cmd := Parse("AÇÃO:CREATE_MEETING AÇÃO:CREATE_PROJECT TÍTULO:Plano CATEGORIA:trabalho SUBTAREFAS:a")
	require.NotNil(t, cmd)
	assert.Equal(t, KindCreateProject, cmd.Type)
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"TÍTULO:",
		"AÇÃO:CREATE_PROJECT SUBTAREFAS:",
		"AÇÃO:CREATE_PROJECT CATEGORIA:SUBTAREFAS:TÍTULO:",
		"AÇÃO:CREATE_PROJECT SUBTAREFAS:🚀",
		"AÇÃO:CREATE_MEETING HORÁRIO:",
		"AÇÃO:CREATE_MEETING DURAÇÃO:",
		"AÇÃO:CREATE_MEETING HORÁRIO:ççççççççççççç",
		"AÇÃO:CREATE_MEETING DURAÇÃO:çççççççççç HORÁRIO:1",
		"\x00\xff\xfe",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() { Parse(input) }, input)
	}
}

func TestSliceRespectsRuneBoundaries(t *testing.T) {
	assert.Equal(t, "", slice("ç", 0, 1))
	assert.Equal(t, "ab", slice("abç", 0, 3))
	assert.Equal(t, "", slice("abc", 5, 10))
}
