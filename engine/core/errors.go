package core

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrNoSubpasses          = errors.New("render pass declares no subpass")
	ErrInvalidAttachment    = errors.New("invalid attachment description")
	ErrInvalidStencilLayout = errors.New("invalid stencil layout")
	ErrInvalidSubpass       = errors.New("invalid subpass description")
	ErrInvalidReference     = errors.New("attachment reference out of range")
	ErrInvalidDependency    = errors.New("invalid subpass dependency")
	ErrDescriptionNotFound  = errors.New("render pass description not found")
	ErrUnknownEnumName      = errors.New("unknown enum name")
	ErrBackend              = errors.New("backend failed to create render pass")
)
