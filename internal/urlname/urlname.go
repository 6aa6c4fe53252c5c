// Package urlname derives synthetic field names from a resolved URL so
// that filename templates can reference parts of it.
package urlname

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// Derive assigns names to the components of rawurl.
//
// The result maps "_url_hostname" to the URL's authority and, for a path
// with N+1 segments, "_url0" through "_urlN" to the segments in order plus
// "_url_basename" to the last one. A URL without an authority (or one that
// does not parse) yields an empty map, so templates referencing these
// fields fail resolution for such rows.
func Derive(rawurl string) map[string]string {
	parsed, err := url.Parse(rawurl)
	if err != nil || parsed.Host == "" {
		return map[string]string{}
	}

	names := map[string]string{
		bulkurl.URLFieldPrefix + "_hostname": parsed.Host,
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return names
	}

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		names[fmt.Sprintf("%s%d", bulkurl.URLFieldPrefix, i)] = segment
	}
	names[bulkurl.URLFieldPrefix+"_basename"] = segments[len(segments)-1]
	return names
}
