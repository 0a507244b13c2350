package conn

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// connIDPrefix marks connection instance ids in logs and events.
const connIDPrefix = "conn-"

// newConnID returns a fresh connection instance id: conn-{ulid_lowercase}.
func newConnID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		id = ulid.Make()
	}
	return connIDPrefix + strings.ToLower(id.String())
}
