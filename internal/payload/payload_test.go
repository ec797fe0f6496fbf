package payload

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/alexanderramin/wbshub/internal/breakdown"
	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ComposesTarefaOnce(t *testing.T) {
	task := domain.TaskDef{ID: 1, Name: "Tarefa X", DefaultDays: 2}
	stages, err := breakdown.Breakdown(TaskLabel(task), 2)
	require.NoError(t, err)

	p := Build("010", stages[0].Label, "01058 - Montagem", "eletrico")
	assert.Equal(t, "010 - 1. Tarefa X - 50%", p.Tarefa)
	assert.Equal(t, "01058 - Montagem", p.Projeto)
	assert.Equal(t, "eletrico", p.WBSType)
	assert.Equal(t, 1, strings.Count(p.Tarefa, "%"), "percentage must appear exactly once")
}

func TestBuild_WireFormat(t *testing.T) {
	p := Build("010", "2. Cabeamento - 100%", "P1", "eletrico")
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tarefa":"010 - 2. Cabeamento - 100%","projeto":"P1","wbs_type":"eletrico"}`, string(data))
}

func TestBuildMultiplier_IncludesCategory(t *testing.T) {
	p := BuildMultiplier("010", "Motor spindle", "Definir lista de itens", "P1", "aquisicao", "Hardware Mecânico")
	assert.Equal(t, "010 - <Motor spindle> - Definir lista de itens", p.Tarefa)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"categoria":"Hardware Mecânico"`)
}

func TestTaskLabel(t *testing.T) {
	assert.Equal(t, "12. Teste final", TaskLabel(domain.TaskDef{ID: 12, Name: "Teste final"}))
}
