package fixture

import "errors"

// ErrEmptyAssetID is returned when an asset entry omits its id field.
var ErrEmptyAssetID = errors.New("fixture: asset entry missing id")

// ErrEmptyDependencyID is returned when a dependency entry omits its id field.
var ErrEmptyDependencyID = errors.New("fixture: dependency entry missing id")
