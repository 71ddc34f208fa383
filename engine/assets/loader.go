package assets

import "github.com/spaghettifunk/renderpass/engine/assets/loaders"

// Loader turns a description file into creation parameters.
type Loader interface {
	Load(path string) (*loaders.Description, error)
}
