package booking

import (
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

// NewCancelToken returns a fresh opaque cancellation token: a random UUID as
// 32 lowercase hex characters.
func NewCancelToken() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// errTokenCollision is returned by repositories when a freshly generated
// token already exists; the service retries with a new one.
var errTokenCollision = errors.New("cancel token collision")

const maxTokenAttempts = 3
