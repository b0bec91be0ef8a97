package webview

import (
	"fmt"
	"strings"
)

// EscapeForScript escapes a value for embedding inside a single-quoted
// JavaScript string literal
func EscapeForScript(value string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"</", `<\/`,
	)
	return replacer.Replace(value)
}

// BuildBootstrapScript generates the script injected into the web app page.
// It seeds the app's local and session storage with the session and reports
// the outcome to the bridge message endpoint.
func BuildBootstrapScript(accessToken string, profileJSON []byte, messageEndpoint string) string {
	escapedToken := EscapeForScript(accessToken)
	escapedUser := EscapeForScript(string(profileJSON))
	escapedEndpoint := EscapeForScript(messageEndpoint)

	return fmt.Sprintf(`(function() {
  var report = function(message) {
    try {
      navigator.sendBeacon('%s', message);
    } catch (e) {}
  };
  try {
    localStorage.setItem('token', '%s');
    localStorage.setItem('user', '%s');
    sessionStorage.setItem('token', '%s');
    sessionStorage.setItem('user', '%s');
    report('TOKEN_SET');
  } catch (e) {
    report('TOKEN_ERROR: ' + e.message);
  }
})();`, escapedEndpoint, escapedToken, escapedUser, escapedToken, escapedUser)
}

// InjectIntoHTML inserts the script into an HTML document so it runs before
// the web app boots. Preferred slot is the end of <head>; documents without
// one get the script at the end of <body>, and anything else gets it
// appended.
func InjectIntoHTML(page []byte, script string) []byte {
	tag := []byte("<script>" + script + "</script>")

	for _, marker := range []string{"</head>", "</body>"} {
		if idx := indexFold(page, marker); idx >= 0 {
			injected := make([]byte, 0, len(page)+len(tag))
			injected = append(injected, page[:idx]...)
			injected = append(injected, tag...)
			injected = append(injected, page[idx:]...)
			return injected
		}
	}

	return append(append([]byte{}, page...), tag...)
}

// indexFold finds an ASCII marker case-insensitively without re-encoding
// the page
func indexFold(page []byte, marker string) int {
	if len(marker) == 0 || len(page) < len(marker) {
		return -1
	}

	for i := 0; i+len(marker) <= len(page); i++ {
		match := true
		for j := 0; j < len(marker); j++ {
			b := page[i+j]
			if b >= 'A' && b <= 'Z' {
				b += 'a' - 'A'
			}
			if b != marker[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
