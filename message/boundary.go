package message

import (
	"strings"

	"github.com/google/uuid"
)

// boundaryPrefix starts every generated boundary. It contains no character
// that needs quoting in a Content-Type parameter.
const boundaryPrefix = "mf"

// GenerateBoundary returns a random boundary made from a UUID. It is unique
// enough that it will not turn up inside any part by accident.
func GenerateBoundary() string {
	return boundaryPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GenerateSafeBoundary returns a boundary that does not occur anywhere in the
// given parts. Bodies that are already encoded can be checked this way before
// they are written:
//
//	boundary := message.GenerateSafeBoundary(body1, body2)
func GenerateSafeBoundary(parts ...[]byte) string {
	for {
		boundary := GenerateBoundary()

		clash := false
		for _, p := range parts {
			if strings.Contains(string(p), boundary) {
				clash = true
				break
			}
		}

		if !clash {
			return boundary
		}
	}
}
