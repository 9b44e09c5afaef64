// Package notifications publishes rendered schedule announcements to Discord.
//
// The default implementation posts to the webhook configured under
// announce.webhook_url and degrades to a no-op when none is set. Callers
// depend only on the Service interface.
package notifications
