// Package p4 renders Perforce client specifications and registers them with
// the p4 command-line client.
package p4

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Fixed client settings. p4 parses these literally; keep the spelling.
const (
	ClientOptions = "noallwrite noclobber compress unlocked nomodtime rmdir"
	SubmitOptions = "leaveunchanged"
	LineEnd       = "local"
)

// clientSpecTemplate follows the field order of `p4 client -o`.
const clientSpecTemplate = `
# A Perforce Client Specification.
#
# Use 'p4 help client' to see more about client views and options.

Client: {{ .client }}
Update: {{ .update }}
Access: {{ .access }}
Owner:  {{ .owner }}
Host:   {{ .host }}

Description:
    Created by {{ .owner }}.

Root:   {{ .root }}
Options:    {{ .options }}
SubmitOptions:  {{ .submit_options }}
LineEnd:    {{ .line_end }}
Stream: {{ .depot }}
View:
  {{ .depot }}/... //{{ .client }}/...
`

var clientSpecTpl = template.Must(template.New("client_spec").Option("missingkey=error").Parse(clientSpecTemplate))

// ClientSpec holds the values substituted into the client specification.
type ClientSpec struct {
	Client    string
	Update    string
	Access    string
	Owner     string
	Host      string
	Root      string
	DepotPath string
}

// fields is the explicit placeholder mapping. Every key the template
// references must be present; execution fails otherwise.
func (s ClientSpec) fields() map[string]any {
	return map[string]any{
		"client":         s.Client,
		"update":         s.Update,
		"access":         s.Access,
		"owner":          s.Owner,
		"host":           s.Host,
		"root":           s.Root,
		"depot":          s.DepotPath,
		"options":        ClientOptions,
		"submit_options": SubmitOptions,
		"line_end":       LineEnd,
	}
}

// Render produces the client specification text. Empty values are rejected
// because p4 would silently accept a spec with a blank Root or View.
func Render(spec ClientSpec) (string, error) {
	data := spec.fields()

	var missing []string
	for _, key := range []string{"client", "update", "access", "owner", "host", "root", "depot"} {
		if strings.TrimSpace(data[key].(string)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("render client spec: empty value for %s", strings.Join(missing, ", "))
	}

	var buf bytes.Buffer
	if err := clientSpecTpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render client spec: %w", err)
	}
	return buf.String(), nil
}

// ViewLine is the single view mapping of a rendered spec.
func ViewLine(depot, client string) string {
	return fmt.Sprintf("  %s/... //%s/...", depot, client)
}
