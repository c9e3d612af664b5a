package notify

import (
	"fmt"

	"github.com/bloggerhq/blogger/internal/domain/model"
)

// Email builders. Bodies are deliberately plain; the client renders nothing
// richer than links.

func WelcomeEmail(name, to, verifyLink string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to Blogger!",
		HTML: fmt.Sprintf(
			"<p>Welcome to Blogger, %s!</p><p>Please verify your email by visiting <a href=%q>%s</a>.</p>",
			name, verifyLink, verifyLink),
		Text: fmt.Sprintf(
			"Welcome to Blogger, %s! Please verify your email by visiting: %s",
			name, verifyLink),
	}
}

func LoginAlertEmail(name, to string, lc model.LoginContext) Message {
	when := lc.Time.UTC().Format("Jan 2, 2006 03:04 PM")
	return Message{
		To:      to,
		Subject: "New Login Detected",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>New login detected on your account at %s from %s using %s (IP %s).</p><p>If this wasn't you, please secure your account immediately.</p>",
			name, when, lc.Location, lc.Device, lc.IP),
		Text: fmt.Sprintf(
			"New login detected on your account at %s from %s using %s. If this wasn't you, please secure your account immediately.",
			when, lc.Location, lc.Device),
	}
}

func ResetPasswordEmail(name, to, resetURL string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p><a href=%q>Reset your password</a>. The link expires in one hour.</p>",
			name, resetURL),
		Text: fmt.Sprintf("Reset your password: %s", resetURL),
	}
}

func PasswordUpdatedEmail(name, to, supportURL string) Message {
	return Message{
		To:      to,
		Subject: "Password Updated Successfully",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your password has been updated successfully. If you did not request this change, please contact support at <a href=%q>%s</a>.</p>",
			name, supportURL, supportURL),
		Text: fmt.Sprintf(
			"Your password has been updated successfully. If you did not request this change, please contact support at %s",
			supportURL),
	}
}

func VerifyEmail(name, to, verifyURL string) Message {
	return Message{
		To:      to,
		Subject: "Verify Your Email",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p><a href=%q>Verify your email</a>. The link expires in 24 hours.</p>",
			name, verifyURL),
		Text: fmt.Sprintf("Verify your email: %s", verifyURL),
	}
}

func EmailVerifiedEmail(to, onboardingURL string) Message {
	return Message{
		To:      to,
		Subject: "Your Email has been verified",
		HTML: fmt.Sprintf(
			"<p>Your Email has been verified. Now get started by completing your profile: <a href=%q>%s</a>.</p>",
			onboardingURL, onboardingURL),
		Text: fmt.Sprintf(
			"Your Email has been verified, Now get started by just completing your profile: %s",
			onboardingURL),
	}
}
