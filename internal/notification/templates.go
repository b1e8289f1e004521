package notification

import "strings"

const (
	SubjectWelcome       = "Welcome aboard"
	SubjectVerifyAccount = "Account Verification OTP"
	SubjectPasswordReset = "Password reset OTP"
)

const emailVerifyTemplate = `
  <div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px; background-color: #f9f9f9;">
    <h2 style="color: #333;">Email Verification</h2>
    <p style="font-size: 16px; color: #555;">Hi <strong>{{email}}</strong>,</p>
    <p style="font-size: 16px; color: #555;">Please use the following OTP code to verify your email address:</p>
    <div style="font-size: 28px; font-weight: bold; color: #2d89ef; text-align: center; margin: 20px 0;">
      {{otp}}
    </div>
    <p style="font-size: 14px; color: #777;">If you did not request this, please ignore this email.</p>
  </div>
`

const passwordResetTemplate = `
  <div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 24px; border: 1px solid #ddd; border-radius: 10px; background-color: #fff;">
    <h2 style="color: #e63946;">Reset Your Password</h2>
    <p style="font-size: 16px; color: #333;">Hello,</p>
    <p style="font-size: 16px; color: #444;">
      We received a request to reset the password for the account with the email:
      <strong>{{email}}</strong>
    </p>
    <p style="font-size: 16px; color: #444;">Use the OTP below to reset your password:</p>
    <div style="font-size: 28px; font-weight: bold; color: #1d3557; text-align: center; margin: 24px 0;">
      {{otp}}
    </div>
    <p style="font-size: 14px; color: #999;">
      If you didn't request a password reset, you can ignore this email.
    </p>
  </div>
`

// VerifyEmailBody renders the account-verification message.
func VerifyEmailBody(otp, email string) string {
	return render(emailVerifyTemplate, otp, email)
}

// PasswordResetBody renders the password-reset message.
func PasswordResetBody(otp, email string) string {
	return render(passwordResetTemplate, otp, email)
}

// WelcomeBody renders the registration welcome message.
func WelcomeBody(name, email string) string {
	return "Welcome " + name + ", your account has been created with email id: " + email
}

func render(template, otp, email string) string {
	return strings.NewReplacer("{{otp}}", otp, "{{email}}", email).Replace(template)
}
