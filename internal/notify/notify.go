// Package notify provides the post-commit document rendering and mail
// delivery adapters. Both are best-effort: the workflow never fails a
// committed transition because a manifest could not be produced or sent.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portssvc "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/services"
)

const manifestTemplate = `EQUIPMENT CHECKOUT MANIFEST
Request:   {{.Request.RequestID}}
Project:   {{.Request.ProjectID}}
Requested: {{.Request.RequestedBy}}
Status:    {{.Request.Status}}

Items:
{{- range .Lines}}
  - {{.ItemID}} x{{.Quantity}}
{{- end}}
`

// TextRenderer renders a plain-text manifest from a template.
type TextRenderer struct {
	tmpl *template.Template
}

// NewTextRenderer creates the default manifest renderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{tmpl: template.Must(template.New("manifest").Parse(manifestTemplate))}
}

var _ portssvc.DocumentRenderer = (*TextRenderer)(nil)

func (r *TextRenderer) RenderRequestManifest(ctx context.Context, request domain.EquipmentRequest, lines []domain.RequestedItem) ([]byte, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, struct {
		Request domain.EquipmentRequest
		Lines   []domain.RequestedItem
	}{Request: request, Lines: lines})
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// LogMailer logs deliveries instead of sending them. It stands in until an
// SMTP relay is provisioned for the ops environment.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that writes deliveries to the given logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

var _ portssvc.Mailer = (*LogMailer)(nil)

func (m *LogMailer) Send(ctx context.Context, recipients []string, subject string, attachment []byte) error {
	m.logger.InfoContext(ctx, "Mail delivery",
		slog.Any("recipients", recipients),
		slog.String("subject", subject),
		slog.Int("attachment_bytes", len(attachment)))
	return nil
}
