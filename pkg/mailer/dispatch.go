package mailer

import (
	"context"
	"errors"
	"fmt"

	tpl "github.com/oksasatya/booking-api/pkg/mailer/templates"
)

var ErrEmptyJob = errors.New("email job has neither template nor body")

// Compose returns the subject and bodies of job, rendering its template if set.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", ErrEmptyJob
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	subject, text, html, err = tpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("render %s: %w", job.Template, err)
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return subject, text, html, nil
}

// Deliver composes job and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	if job.To == "" {
		return errors.New("email job has no recipient")
	}
	subject, text, html, err := Compose(job)
	if err != nil {
		return err
	}
	return s.Send(ctx, job.To, subject, text, html)
}
