package services

import (
	"context"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
)

// DocumentRenderer produces a printable manifest for a checked-out request.
// Rendering happens after the core transition commits; a failure here never
// rolls the checkout back.
type DocumentRenderer interface {
	RenderRequestManifest(ctx context.Context, request domain.EquipmentRequest, lines []domain.RequestedItem) ([]byte, error)
}

// Mailer delivers a rendered document to recipients, best-effort.
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject string, attachment []byte) error
}
