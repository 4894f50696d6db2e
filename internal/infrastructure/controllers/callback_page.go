package controllers

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

const successMessagePrefix = "authorization:github:success:"

type callbackPayload struct {
	Token    string `json:"token"`
	Provider string `json:"provider"`
}

type callbackView struct {
	Origin  string
	Message string
}

// The page answers the CMS "authorizing:github" handshake first and only then
// posts the token, to the origin carried in the OAuth state.
var callbackTemplate = template.Must(template.New("callback").
	Funcs(template.FuncMap{"js": jsSingleQuoted}).
	Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Authorizing Decap CMS</title>
</head>
<body>
<p>Authorizing, this window closes automatically.</p>
<script>
(function () {
  var origin = '{{js .Origin}}';
  var message = '{{js .Message}}';
  function receiveMessage(event) {
    if (event.origin !== origin) {
      return;
    }
    window.removeEventListener('message', receiveMessage, false);
    window.opener.postMessage(message, origin);
    window.close();
  }
  window.addEventListener('message', receiveMessage, false);
  window.opener.postMessage('authorizing:github', origin);
})();
</script>
</body>
</html>
`))

var jsReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"<", `\x3c`,
	">", `\x3e`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// jsSingleQuoted escapes value for a single-quoted JavaScript string. Double
// quotes are left alone so the JSON payload stays readable in the page.
func jsSingleQuoted(value string) string {
	return jsReplacer.Replace(value)
}

func renderCallbackPage(grant *entities.OAuthGrant) ([]byte, error) {
	payload, err := json.Marshal(callbackPayload{Token: grant.Token, Provider: "github"})
	if err != nil {
		return nil, err
	}

	var page bytes.Buffer
	if err = callbackTemplate.Execute(&page, callbackView{
		Origin:  grant.Origin,
		Message: successMessagePrefix + string(payload),
	}); err != nil {
		return nil, err
	}
	return page.Bytes(), nil
}
