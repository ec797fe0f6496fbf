package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/wbshub/internal/domain"
)

// FormatPreview renders the tarefa strings that a confirmation will submit,
// followed by the total and any selections that were rejected. Tarefas
// longer than width are cut; width <= 0 disables the limit.
func FormatPreview(wbsType string, tarefas []string, rejected []error, width int) string {
	var b strings.Builder

	b.WriteString(Header("Preview · " + wbsType))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(tarefas))
	for i, t := range tarefas {
		rows = append(rows, []string{Dim(strconv.Itoa(i + 1)), t})
	}
	b.WriteString(Table{Headers: []string{"#", "TAREFA"}, MaxWidth: width}.Render(rows))
	b.WriteString("\n")
	b.WriteString(Bold(fmt.Sprintf("Total: %d %s", len(tarefas), plural(len(tarefas), "tarefa", "tarefas"))))
	b.WriteString("\n")

	if len(rejected) > 0 {
		b.WriteString("\n")
		for _, err := range rejected {
			b.WriteString(Warning("skipped: " + err.Error()))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatItemResult renders one progress line for non-interactive output,
// e.g. "[2/5] ✔ 010 - 1. Tarefa - 50% (200)".
func FormatItemResult(done, total int, res domain.ItemResult) string {
	counter := Dim(fmt.Sprintf("[%d/%d]", done, total))
	if res.OK {
		return fmt.Sprintf("%s %s %s %s", counter, OKMark(), res.Tarefa, Dim(fmt.Sprintf("(%d)", res.Status)))
	}
	return fmt.Sprintf("%s %s %s %s", counter, FailMark(), res.Tarefa, StyleRed.Render(errText(res.Err)))
}

// FormatBatchReport renders the final per-item summary of a batch.
func FormatBatchReport(report *domain.BatchReport) string {
	var b strings.Builder

	for _, res := range report.Results {
		if res.OK {
			fmt.Fprintf(&b, "%s %s\n", OKMark(), res.Tarefa)
			continue
		}
		fmt.Fprintf(&b, "%s %s\n    %s\n", FailMark(), res.Tarefa, StyleRed.Render(errText(res.Err)))
	}
	b.WriteString("\n")

	total := len(report.Results)
	switch {
	case total == 0:
		b.WriteString(Dim("Nothing was submitted."))
	case report.Failed == 0:
		b.WriteString(StyleGreen.Render(fmt.Sprintf("All %d %s created.", total, plural(total, "tarefa", "tarefas"))))
	default:
		b.WriteString(StyleYellow.Render(fmt.Sprintf("%d succeeded, %d failed.", report.Succeeded, report.Failed)))
	}
	if report.Duration > 0 {
		b.WriteString(Dim("  " + FormatDuration(report.Duration)))
	}
	if report.ID != "" {
		b.WriteString("\n")
		b.WriteString(Dim("batch " + report.ID))
	}

	return RenderBox("Submission", b.String())
}

// FormatLoadErrors renders template load problems as warnings, one per line.
func FormatLoadErrors(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, err := range errs {
		b.WriteString(Warning(err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func errText(err error) string {
	if err == nil {
		return "failed"
	}
	return err.Error()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
