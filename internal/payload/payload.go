// Package payload assembles the webhook body for a single sub-task.
//
// The percentage suffix is appended once, by the breakdown package. Build
// only prefixes the WBS code, so a sub-task label "1. Task - 50%" becomes the
// tarefa "010 - 1. Task - 50%".
package payload

import (
	"fmt"

	"github.com/alexanderramin/wbshub/internal/domain"
)

// TaskLabel returns the numbered label of a task definition ("<id>. <name>").
func TaskLabel(task domain.TaskDef) string {
	return fmt.Sprintf("%d. %s", task.ID, task.Name)
}

// Build composes the payload for one percentage sub-task.
func Build(wbsCode, subTaskLabel, project, wbsType string) domain.Payload {
	return domain.Payload{
		Tarefa:  fmt.Sprintf("%s - %s", wbsCode, subTaskLabel),
		Projeto: project,
		WBSType: wbsType,
	}
}

// BuildMultiplier composes the payload for one item × fixed-task pair of a
// multiplier template. The item is wrapped in angle brackets:
// "010 - <Motor spindle> - Definir lista de itens".
func BuildMultiplier(wbsCode, item, fixedTask, project, wbsType, category string) domain.Payload {
	return domain.Payload{
		Tarefa:    fmt.Sprintf("%s - <%s> - %s", wbsCode, item, fixedTask),
		Projeto:   project,
		WBSType:   wbsType,
		Categoria: category,
	}
}
