package metadata

import "errors"

var ErrAttributeLength = errors.New("vertex attribute length does not match vertex count")
