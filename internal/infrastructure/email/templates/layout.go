// Package templates renders the HTML shells for outbound emails.
package templates

import (
	"fmt"
	"html"
)

// LayoutProps configures the outer HTML shell.
type LayoutProps struct {
	Title   string
	Content string
}

// PreviewProps configures a campaign email preview body.
type PreviewProps struct {
	CampaignName string
	Subject      string
	Content      string
	CallToAction string
}

// GetEmailLayout wraps content in the standard outer shell.
func GetEmailLayout(props LayoutProps) string {
	title := props.Title
	if title == "" {
		title = "CampaignForge"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f4f4f5;font-family:Arial,Helvetica,sans-serif;">
<table role="presentation" width="100%%" cellpadding="0" cellspacing="0">
<tr><td align="center" style="padding:24px;">
<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:32px;">
<tr><td>%s</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`, html.EscapeString(title), props.Content)
}

// GetPreviewContent renders the inner body of a campaign email preview.
func GetPreviewContent(props PreviewProps) string {
	body := fmt.Sprintf(`<h1 style="font-size:20px;color:#18181b;">%s</h1>
<p style="color:#3f3f46;line-height:1.6;">%s</p>`,
		html.EscapeString(props.Subject), html.EscapeString(props.Content))

	if props.CallToAction != "" {
		body += fmt.Sprintf(`
<p style="margin-top:24px;"><a href="#" style="background-color:#2563eb;color:#ffffff;padding:12px 24px;border-radius:6px;text-decoration:none;">%s</a></p>`,
			html.EscapeString(props.CallToAction))
	}

	body += fmt.Sprintf(`
<p style="margin-top:32px;font-size:12px;color:#a1a1aa;">Preview generated for campaign %s</p>`,
		html.EscapeString(props.CampaignName))
	return body
}
