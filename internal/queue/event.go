// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into outbound email.
package queue

// ResetQueueName is the durable queue carrying password-reset requests.
const ResetQueueName = "user.password_reset"

// PasswordResetRequestedEvent is published when a user asks for a password
// reset. It carries everything the mail consumer needs without querying
// the primary database.
type PasswordResetRequestedEvent struct {
	Email       string `json:"email"`
	ResetToken  string `json:"reset_token"`
	RequestedAt string `json:"requested_at"`
}
