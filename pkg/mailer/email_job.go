package mailer

// EmailJob is the queue payload for one outgoing email. A job names a
// Template with its Data, or carries a ready Subject with Text and/or HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// MessageType tags the AMQP message so queue tooling can tell jobs apart.
func (j EmailJob) MessageType() string {
	if j.Template == "" {
		return "email.raw"
	}
	return "email." + j.Template
}
