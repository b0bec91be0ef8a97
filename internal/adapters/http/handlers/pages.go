package handlers

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

// Minimal local pages. All real screens live in the remote web app; the
// shell only renders the login form and retry-capable error states.

const loginHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>TrustBuild</title>
</head>
<body>
  <main class="login">
    <h1>TrustBuild Contractor</h1>
    {{if .Offline}}<div class="offline" role="alert">No internet connection</div>{{end}}
    {{if .Notice}}<div class="notice" role="status">{{.Notice}}</div>{{end}}
    {{if .Error}}<div class="error" role="alert">{{.Error}}</div>{{end}}
    <form method="post" action="/login">
      <label>Email <input type="email" name="email" required autofocus></label>
      <label>Password <input type="password" name="password" required></label>
      <button type="submit">Login</button>
    </form>
  </main>
</body>
</html>`

const errorHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>TrustBuild</title>
</head>
<body>
  <main class="error-screen">
    <h1>Something went wrong</h1>
    <p role="alert">{{.Message}}</p>
    <a class="retry" href="{{.RetryURL}}">Try Again</a>
  </main>
</body>
</html>`

var (
	loginTemplate = template.Must(template.New("login").Parse(loginHTML))
	errorTemplate = template.Must(template.New("error").Parse(errorHTML))
)

// loginView feeds the login page template
type loginView struct {
	Notice  string
	Error   string
	Offline bool
}

// errorView feeds the retry error page template
type errorView struct {
	Message  string
	RetryURL string
}

// User-facing notices shown on the login screen after a forced sign-out
var notices = map[string]string{
	"contractor_only": "Access Denied. This app is only available for contractors. Please use the web app.",
	"session_expired": "Your session has expired. Please login again.",
	"logged_out":      "You have been logged out.",
}

// renderPage executes a template and sends it as HTML
func renderPage(c *fiber.Ctx, status int, tpl *template.Template, data interface{}) error {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
