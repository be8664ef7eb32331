package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/latampartners/landing/internal/logging"
	"github.com/latampartners/landing/internal/models"
)

// Saver persists a named object and returns where it landed.
type Saver interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// Archive writes a JSON snapshot of every accepted lead.
type Archive struct {
	saver  Saver
	prefix string
}

// NewArchive stores snapshots under prefix.
func NewArchive(saver Saver, prefix string) *Archive {
	return &Archive{saver: saver, prefix: prefix}
}

// Name implements leadsync.Sink.
func (a *Archive) Name() string { return "archive" }

// Deliver implements leadsync.Sink.
func (a *Archive) Deliver(ctx context.Context, lead models.Lead) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("encode lead %s: %w", lead.ID, err)
	}

	location, err := a.saver.Save(ctx, ObjectKey(a.prefix, lead), bytes.NewReader(body))
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug("lead archived", "lead_id", lead.ID, "location", location)
	return nil
}

// ObjectKey returns <prefix>/<persona>/<yyyy>/<mm>/<dd>/<id>.json using the
// submission's UTC date.
func ObjectKey(prefix string, lead models.Lead) string {
	ts := lead.SubmittedAt.UTC()
	return path.Join(prefix, string(lead.Persona), ts.Format("2006"), ts.Format("01"), ts.Format("02"), lead.ID+".json")
}
