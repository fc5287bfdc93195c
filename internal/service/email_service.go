package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// wrapHTML places email content inside the shared GamePal layout
func wrapHTML(title, content string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #7c5cdb; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #7c5cdb; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
%s
		</div>
		<div class="footer">
			<p>This is an automated email from GamePal. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, title, content)
}

// SendPasswordResetEmail sends a password reset email with a reset link
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): password reset to %s", toEmail)
		return nil
	}

	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", s.appBaseURL, resetToken)

	subject := "Reset Your GamePal Password"
	htmlBody := wrapHTML("Password Reset Request", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>We received a request to reset your password for your GamePal account.</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Reset Password</a>
			</p>
			<p>Or copy and paste this link into your browser:</p>
			<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
			<p><strong>This link will expire in 1 hour.</strong></p>
			<p>If you didn't request a password reset, you can safely ignore this email.</p>
`, toName, resetLink, resetLink))

	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset your password for your GamePal account.

Click the link below to reset your password:
%s

This link will expire in 1 hour.

If you didn't request a password reset, you can safely ignore this email.
`, toName, resetLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendWelcomeEmail sends a welcome email to new guardians
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to GamePal!"
	htmlBody := wrapHTML("Welcome to GamePal!", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Thank you for creating your GamePal account! We're excited to help your children find friends who love the same games they do.</p>
			<p>Here's what you can do next:</p>
			<ul>
				<li>Add your kids and pick their favorite games and interests</li>
				<li>Browse match suggestions for each child</li>
				<li>Send and approve connection requests</li>
				<li>Schedule playdates once both families agree</li>
			</ul>
			<p style="text-align: center;">
				<a href="%s/login" class="button">Get Started</a>
			</p>
`, toName, s.appBaseURL))

	textBody := fmt.Sprintf(`Hi %s,

Thank you for creating your GamePal account! We're excited to help your children find friends who love the same games they do.

Here's what you can do next:
- Add your kids and pick their favorite games and interests
- Browse match suggestions for each child
- Send and approve connection requests
- Schedule playdates once both families agree

Get started: %s/login
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendLikeReceivedEmail notifies a guardian that another child wants to
// connect with one of theirs
func (s *EmailService) SendLikeReceivedEmail(ctx context.Context, toEmail, toName, myChildName, otherChildName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): like received to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("New connection request for %s", myChildName)
	htmlBody := wrapHTML("New Connection Request", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p><strong>%s</strong> would like to connect with <strong>%s</strong>.</p>
			<p>Review the request and decide whether to approve it. Contact details are only shared after you approve.</p>
			<p style="text-align: center;">
				<a href="%s/matches" class="button">Review Request</a>
			</p>
`, toName, otherChildName, myChildName, s.appBaseURL))

	textBody := fmt.Sprintf(`Hi %s,

%s would like to connect with %s.

Review the request and decide whether to approve it. Contact details are only shared after you approve.

Review it here: %s/matches
`, toName, otherChildName, myChildName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendLikeApprovedEmail notifies the requesting guardian that the other
// family approved the connection
func (s *EmailService) SendLikeApprovedEmail(ctx context.Context, toEmail, toName, myChildName, otherChildName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): like approved to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("%s and %s are now connected!", myChildName, otherChildName)
	htmlBody := wrapHTML("It's a Match!", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Great news! The connection between <strong>%s</strong> and <strong>%s</strong> has been approved.</p>
			<p>You can now see the other parent's contact details and arrange a playdate.</p>
			<p style="text-align: center;">
				<a href="%s/matches" class="button">View Match</a>
			</p>
`, toName, myChildName, otherChildName, s.appBaseURL))

	textBody := fmt.Sprintf(`Hi %s,

Great news! The connection between %s and %s has been approved.

You can now see the other parent's contact details and arrange a playdate.

View it here: %s/matches
`, toName, myChildName, otherChildName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendMeetingScheduledEmail notifies the other guardian that a playdate
// has been proposed for an approved match
func (s *EmailService) SendMeetingScheduledEmail(ctx context.Context, toEmail, toName, schedulerName, date, timeOfDay, notes string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): meeting scheduled to %s", toEmail)
		return nil
	}

	notesHTML := ""
	notesText := ""
	if notes != "" {
		notesHTML = fmt.Sprintf("<p>Notes: %s</p>", notes)
		notesText = fmt.Sprintf("\nNotes: %s\n", notes)
	}

	subject := "A playdate has been scheduled"
	htmlBody := wrapHTML("Playdate Scheduled", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p><strong>%s</strong> has scheduled a playdate for <strong>%s</strong> at <strong>%s</strong>.</p>
			%s
			<p style="text-align: center;">
				<a href="%s/matches" class="button">View Details</a>
			</p>
`, toName, schedulerName, date, timeOfDay, notesHTML, s.appBaseURL))

	textBody := fmt.Sprintf(`Hi %s,

%s has scheduled a playdate for %s at %s.
%s
View it here: %s/matches
`, toName, schedulerName, date, timeOfDay, notesText, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] sendEmail: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message id: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
