package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEmailLayoutEscapesTitle(t *testing.T) {
	html := GetEmailLayout(LayoutProps{Title: "<script>alert(1)</script>", Content: "<p>hi</p>"})

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "<p>hi</p>")
}

func TestGetPreviewContent(t *testing.T) {
	content := GetPreviewContent(PreviewProps{
		CampaignName: "Spring Sale",
		Subject:      "Save big",
		Content:      "Limited time offer",
		CallToAction: "Shop now",
	})

	assert.Contains(t, content, "Save big")
	assert.Contains(t, content, "Limited time offer")
	assert.Contains(t, content, "Shop now")
	assert.Contains(t, content, "Spring Sale")
}

func TestGetPreviewContentOmitsEmptyCTA(t *testing.T) {
	content := GetPreviewContent(PreviewProps{CampaignName: "X", Subject: "S", Content: "C"})

	assert.False(t, strings.Contains(content, "<a href"))
}
