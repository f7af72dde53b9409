package octopus_apis

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// jsonString matches the body of a JSON string literal, escapes included
const jsonString = `"((?:[^"\\]|\\.)*)"`

// keyStart stops keys that merely end in the name, like InnerErrorMessage, from matching
const keyStart = `(?:^|[^A-Za-z0-9_])`

var errorMessagePattern = regexp.MustCompile(keyStart + `"?ErrorMessage"?\s*:\s*` + jsonString)
var errorsPattern = regexp.MustCompile(keyStart + `"?Errors"?\s*:\s*\[((?:\s*"(?:[^"\\]|\\.)*"\s*,?)*)\s*]`)
var quotedStringPattern = regexp.MustCompile(jsonString)

// unescapeOnce undoes one level of string escaping, which is what a JSON document looks like when it
// is embedded in a javascript string on an HTML error page
var unescapeOnce = strings.NewReplacer(`\\`, `\`, `\"`, `"`)

// GetErrorsFromResponse scrapes the error message and error details out of an Octopus error response.
// The response may be a JSON document, or an HTML page with the JSON document embedded in it. The
// message is returned first, followed by one " - " prefixed line per detail. An empty string is
// returned if the response holds no recognisable error.
func GetErrorsFromResponse(response string) string {
	message, details, found := scrapeErrors(response)

	if !found {
		message, details, found = scrapeErrors(unescapeOnce.Replace(response))
	}

	if !found {
		return ""
	}

	return formatErrors(message, details)
}

func scrapeErrors(response string) (string, []string, bool) {
	message := ""
	found := false

	if match := errorMessagePattern.FindStringSubmatch(response); len(match) == 2 {
		message = decodeJsonString(match[1])
		found = true
	}

	details := []string{}
	if match := errorsPattern.FindStringSubmatch(response); len(match) == 2 {
		found = true
		details = lo.Map(quotedStringPattern.FindAllStringSubmatch(match[1], -1), func(item []string, index int) string {
			return decodeJsonString(item[1])
		})
	}

	return message, details, found
}

// decodeJsonString decodes the escapes in the body of a JSON string, returning the raw text if it is
// not valid JSON
func decodeJsonString(raw string) string {
	decoded := ""
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &decoded); err != nil {
		return raw
	}
	return decoded
}
