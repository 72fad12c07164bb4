package contract

import (
	"context"
	"errors"

	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/pkg/criteria"
	"ai-sitebuilder-be/pkg/writeplan"

	"github.com/google/uuid"
)

// ErrNotFound is raised when a subject vanished between precheck and
// write, or when a targeted fetch finds nothing.
var ErrNotFound = errors.New("record not found")

// ErrNotAttached distinguishes detaching a tag that was never attached
// from a successful detach.
var ErrNotAttached = errors.New("tag not attached")

// TagAttachment is the result of an attach/detach operation.
type TagAttachment struct {
	// AlreadyAttached is true when an attach found an existing
	// attachment and made no change.
	AlreadyAttached bool
	// StillTagged reports whether the component has any remaining tag
	// after the operation.
	StillTagged bool
}

type ComponentRepository interface {
	Create(ctx context.Context, component *entity.Component) error
	// FetchOne returns nil without error when the component does not
	// exist under the site.
	FetchOne(ctx context.Context, siteId, componentId uuid.UUID) (*entity.Component, error)
	FetchAll(ctx context.Context, siteId uuid.UUID) ([]*entity.Component, error)
	Search(ctx context.Context, siteId uuid.UUID, predicates []criteria.Predicate) ([]*entity.Component, error)
	// ApplyWrite applies the compiled instructions atomically after an
	// existence precheck and returns the post-update component.
	ApplyWrite(ctx context.Context, siteId, componentId uuid.UUID, instructions []writeplan.Instruction) (*entity.Component, error)
	Remove(ctx context.Context, siteId, componentId uuid.UUID) error
	AttachTag(ctx context.Context, componentId, tagId uuid.UUID) (*TagAttachment, error)
	DetachTag(ctx context.Context, componentId, tagId uuid.UUID) (*TagAttachment, error)
}
