package recognizer

import "strings"

// Version is the client library version, sent to the server on every request.
const Version = "1.0.0"

// APIVersion is the API generation this client speaks.
const APIVersion = "v1"

// CheckCompatibility compares the leading (major) component of two dotted
// version strings and returns a *VersionMismatchError when they differ. Minor
// and patch components are deliberately ignored.
func CheckCompatibility(clientVersion, serverVersion string) error {
	clientMajor, _, _ := strings.Cut(clientVersion, ".")
	serverMajor, _, _ := strings.Cut(serverVersion, ".")

	if clientMajor != serverMajor {
		return &VersionMismatchError{
			ClientVersion: clientVersion,
			ServerVersion: serverVersion,
		}
	}
	return nil
}
