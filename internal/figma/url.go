package figma

import (
	"fmt"
	"regexp"
)

var fileIDPattern = regexp.MustCompile(`(?:file|design)/([a-zA-Z0-9]+)`)

// ExtractFileID pulls the file identifier out of a project URL. Both URL
// shapes the service uses are accepted: /file/{id} and /design/{id}.
func ExtractFileID(rawURL string) (string, error) {
	m := fileIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("no file id in URL %q: expected a /file/{id} or /design/{id} path", rawURL)
	}
	return m[1], nil
}
