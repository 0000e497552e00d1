package mail

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var draftTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// RenderQuoteDraft monta o rascunho determinístico usado quando o modelo não responde.
func RenderQuoteDraft(data QuoteDraftData, variant DraftVariant) (subject, body string, err error) {
	name := "quote_draft_" + string(variant) + ".tmpl"
	if draftTemplates.Lookup(name) == nil {
		return "", "", fmt.Errorf("template de rascunho desconhecido: %s", variant)
	}

	var buf bytes.Buffer
	if err := draftTemplates.ExecuteTemplate(&buf, "quote_subject.tmpl", data); err != nil {
		return "", "", fmt.Errorf("erro ao processar assunto: %w", err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := draftTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return subject, strings.TrimSpace(buf.String()), nil
}
