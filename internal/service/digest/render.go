package digest

import (
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"strings"
)

// emailTemplate is the daily digest email body. Sections with nothing to say
// (no upcoming work, no weekly history) are omitted entirely.
var emailTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, sans-serif; max-width: 600px; margin: 0 auto; padding: 16px;">
  <h2>Hi {{.Greeting}}, you have {{.DueCount}} problem{{if ne .DueCount 1}}s{{end}} to review today</h2>
  {{if gt .Overdue 0}}<p><strong>{{.Overdue}}</strong> of them {{if eq .Overdue 1}}is{{else}}are{{end}} overdue.</p>{{end}}
  {{if .Preview}}
  <h3>Up first</h3>
  <ul>
    {{range .Preview}}<li><a href="{{.URL}}">{{.Title}}</a> ({{.Difficulty}}, due {{.DueAt}})</li>
    {{end}}
  </ul>
  {{end}}
  {{if .HasUpcoming}}
  <h3>Coming up</h3>
  <p>Tomorrow: {{.DueTomorrow}} &middot; In 2 days: {{.DueIn2Days}} &middot; In 3 days: {{.DueIn3Days}}</p>
  {{end}}
  {{if .Weekly}}
  <h3>Last 7 days</h3>
  <p>{{.Weekly.Total}} review{{if ne .Weekly.Total 1}}s{{end}}, {{.PassRate}}% passed.</p>
  {{end}}
  <p><a href="{{.AppURL}}/review">Start reviewing</a></p>
</body>
</html>
`))

type emailData struct {
	*Summary
	Greeting    string
	HasUpcoming bool
	PassRate    int
	AppURL      string
}

// EmailSubject returns the digest email subject line.
func EmailSubject(sum *Summary) string {
	if sum.DueCount == 1 {
		return "1 problem due for review"
	}
	return fmt.Sprintf("%d problems due for review", sum.DueCount)
}

// RenderEmail renders the digest email HTML body.
func RenderEmail(sum *Summary, appURL string) (string, error) {
	greeting := strings.TrimSpace(sum.Name)
	if greeting == "" {
		greeting = "there"
	}

	rate := 0
	if sum.Weekly != nil {
		rate = passRate(sum.Weekly.Pass, sum.Weekly.Total)
	}

	data := emailData{
		Summary:     sum,
		Greeting:    greeting,
		HasUpcoming: sum.DueTomorrow+sum.DueIn2Days+sum.DueIn3Days > 0,
		PassRate:    rate,
		AppURL:      strings.TrimRight(appURL, "/"),
	}

	var b strings.Builder
	if err := emailTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render digest email: %w", err)
	}
	return b.String(), nil
}

// pushMessage is the JSON payload delivered to the service worker.
type pushMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// RenderPush renders the digest push notification payload.
func RenderPush(sum *Summary, appURL string) ([]byte, error) {
	body := fmt.Sprintf("%d problems are waiting for review.", sum.DueCount)
	if sum.DueCount == 1 {
		body = "1 problem is waiting for review."
	}
	if sum.Overdue > 0 {
		body += fmt.Sprintf(" %d overdue.", sum.Overdue)
	}

	payload, err := json.Marshal(pushMessage{
		Title: EmailSubject(sum),
		Body:  body,
		URL:   strings.TrimRight(appURL, "/") + "/review",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render push payload: %w", err)
	}
	return payload, nil
}

func passRate(pass, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(pass) / float64(total) * 100))
}
