package report

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"tabclass/domain/classification"
)

const reportTemplate = `# Classification run {{.ID}}

| Field | Value |
|---|---|
| Source | {{or .Source "-"}} |
| Fingerprint | {{short .Fingerprint}} |
| Suitability | {{.Suitability}} |
| Algorithm | {{algorithm .Algorithm}} |
| Label | {{.Label}} |
| Created | {{created .}} |

## Partitions

| Train | Validation | Test |
|---:|---:|---:|
| {{.Counts.Train}} | {{.Counts.Validation}} | {{.Counts.Test}} |
{{with .Weights}}
## Class weights

| Class | Count | Weight |
|---|---:|---:|
| true | {{.CountTrue}} | {{num .True}} |
| false | {{.CountFalse}} | {{num .False}} |
{{end}}{{with .Threshold}}
## Threshold

Selected **{{num .Threshold}}** with F1 {{num .F1}} over {{.Candidates}} candidates.
{{if .Degenerate}}
> The validation partition holds a single class; the default threshold was kept.
{{end}}{{end}}{{with .Binary}}
## Binary metrics

| Metric | Value |
|---|---:|
| Threshold | {{num .Threshold}} |
| Accuracy | {{num .Accuracy}} |
| Positive precision | {{num .PositivePrecision}} |
| Positive recall | {{num .PositiveRecall}} |
| Negative precision | {{num .NegativePrecision}} |
| Negative recall | {{num .NegativeRecall}} |
| F1 | {{num .F1}} |
| AUC | {{num .AUC}} |

|  | Predicted true | Predicted false |
|---|---:|---:|
| Actual true | {{.Confusion.TP}} | {{.Confusion.FN}} |
| Actual false | {{.Confusion.FP}} | {{.Confusion.TN}} |
{{template "scores" .Scores}}{{end}}{{with .Multiclass}}
## Multiclass metrics

Accuracy {{num .Accuracy}}, macro precision {{num .MacroPrecision}}, macro recall {{num .MacroRecall}}, macro F1 {{num .MacroF1}}.

| Class | Precision | Recall | F1 | Support |
|---|---:|---:|---:|---:|
{{range $class := .Classes}}{{with index $.Multiclass.PerClass $class}}| {{$class}} | {{num .Precision}} | {{num .Recall}} | {{num .F1}} | {{.Support}} |
{{end}}{{end}}
{{matrix .}}
{{template "scores" .Scores}}{{end}}`

const scoresTemplate = `{{define "scores"}}{{if .Count}}
### Score distribution

| Count | Mean | Std dev | Min | Q25 | Median | Q75 | Max |
|---:|---:|---:|---:|---:|---:|---:|---:|
| {{.Count}} | {{num .Mean}} | {{num .StdDev}} | {{num .Min}} | {{num .Q25}} | {{num .Median}} | {{num .Q75}} | {{num .Max}} |
{{end}}{{end}}`

var funcs = template.FuncMap{
	"num": func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"short": func(h fmt.Stringer) string {
		s := h.String()
		if len(s) > 12 {
			return s[:12]
		}
		if s == "" {
			return "-"
		}
		return s
	},
	"algorithm": func(a classification.Algorithm) string {
		if a == classification.AlgorithmNone {
			return "none"
		}
		return string(a)
	},
	"created": func(r *classification.PipelineReport) string {
		if r.CreatedAt.IsZero() {
			return "-"
		}
		return r.CreatedAt.Time().UTC().Format("2006-01-02 15:04:05 MST")
	},
	"matrix": confusionTable,
}

var tmpl = template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate + scoresTemplate))

// Markdown renders a pipeline report as GitHub-flavoured Markdown
func Markdown(r *classification.PipelineReport) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report is nil")
	}
	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, "report", r); err != nil {
		return "", fmt.Errorf("failed to render report %s: %w", r.ID, err)
	}
	return buf.String(), nil
}

// HTML renders the Markdown report as a standalone HTML page
func HTML(r *classification.PipelineReport) ([]byte, error) {
	md, err := Markdown(r)
	if err != nil {
		return nil, err
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: fmt.Sprintf("Classification run %s", r.ID),
	})
	return markdown.ToHTML([]byte(md), p, renderer), nil
}

// confusionTable lays out the [actual][predicted] matrix with class headers
func confusionTable(m *classification.MulticlassMetrics) string {
	if len(m.Classes) == 0 || len(m.ConfusionMatrix) != len(m.Classes) {
		return ""
	}
	var b strings.Builder
	b.WriteString("| Actual \\ Predicted |")
	for _, c := range m.Classes {
		fmt.Fprintf(&b, " %s |", c)
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---:|", len(m.Classes)))
	b.WriteString("\n")
	for i, c := range m.Classes {
		fmt.Fprintf(&b, "| %s |", c)
		for _, n := range m.ConfusionMatrix[i] {
			fmt.Fprintf(&b, " %d |", n)
		}
		b.WriteString("\n")
	}
	return b.String()
}
