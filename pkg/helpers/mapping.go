package helpers

import (
	"fmt"

	"github.com/oksasatya/booking-api/pkg/mailer"
)

// EnsureRecipientAndEmail fills the template Email field from the job recipient.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || v == nil || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
}

// ApplyDefaults fills company/support fields the publisher left empty.
func ApplyDefaults(job *mailer.EmailJob, defaults map[string]string) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	for k, def := range defaults {
		if def == "" {
			continue
		}
		if v, ok := job.Data[k]; !ok || v == nil || fmt.Sprintf("%v", v) == "" {
			job.Data[k] = def
		}
	}
}
