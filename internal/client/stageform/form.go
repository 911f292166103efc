// Package stageform implements the stage-entry workflow as a small state
// machine, independent of any particular input surface. The CLI drives it; the
// transitions and guarantees live here so they can be tested without a
// terminal or a network.
//
// States and transitions:
//
//	closed --Open (permitted set non-empty)--> editing
//	editing --Submit success--> closed (fields cleared)
//	editing --Submit failure--> editing (fields preserved for retry)
//	editing --Cancel--> closed (fields discarded, no network call)
//
// When the actor's permitted set is empty the form cannot open at all; the
// timeline stays view-only.
package stageform

import (
	"context"
	"errors"
	"fmt"

	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/client/permissions"
	"github.com/agritrack/agritrack-cli/internal/client/session"
	"github.com/agritrack/agritrack-cli/internal/common"
)

// ErrNotEditing is returned by Submit when no entry is in progress.
var ErrNotEditing = errors.New("no stage entry in progress")

// State of the form.
type State int

const (
	StateClosed State = iota
	StateEditing
)

// Submitter performs the actual append-and-refresh. services.ProductService
// satisfies it.
type Submitter interface {
	AddStage(ctx context.Context, sess *session.Session, productID string, req models.StageRequest) (*models.Product, error)
}

// Form is the stage-entry controller for one product at a time.
type Form struct {
	svc Submitter

	state     State
	sess      *session.Session
	productID string
	options   []string
	fields    models.StageRequest
}

func New(svc Submitter) *Form {
	return &Form{svc: svc}
}

func (f *Form) State() State {
	return f.state
}

// Options returns the stage labels selectable in the open form, in vocabulary
// order.
func (f *Form) Options() []string {
	return append([]string(nil), f.options...)
}

// Fields returns the current form contents.
func (f *Form) Fields() models.StageRequest {
	return f.fields
}

// SetFields stores the user's input. Validation happens at Submit.
func (f *Form) SetFields(req models.StageRequest) {
	f.fields = req
}

// Open starts editing a new stage for the given product. It fails with
// common.ErrPermissionDenied when the actor's permitted stage set is empty;
// viewing is then all they can do.
func (f *Form) Open(sess *session.Session, productID string) error {
	var options []string
	if sess != nil {
		options = permissions.AllowedStages(sess.Roles, sess.StageProfile)
	}
	if len(options) == 0 {
		return fmt.Errorf("%w: no stages available for this account", common.ErrPermissionDenied)
	}

	f.state = StateEditing
	f.sess = sess
	f.productID = productID
	f.options = options
	f.fields = models.StageRequest{}
	return nil
}

// Submit sends the entered stage to the backend. On success the form closes
// and its contents are cleared; the refreshed product is returned so the
// caller can replace its cached copy as a whole value. On failure the form
// stays open with the contents intact so the user can retry.
func (f *Form) Submit(ctx context.Context) (*models.Product, error) {
	if f.state != StateEditing {
		return nil, ErrNotEditing
	}

	product, err := f.svc.AddStage(ctx, f.sess, f.productID, f.fields)
	if err != nil {
		return nil, err
	}

	f.reset()
	return product, nil
}

// Cancel discards the in-progress input without any network call.
func (f *Form) Cancel() {
	f.reset()
}

func (f *Form) reset() {
	f.state = StateClosed
	f.sess = nil
	f.productID = ""
	f.options = nil
	f.fields = models.StageRequest{}
}
