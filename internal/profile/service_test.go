package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func sampleProfile(privacy PrivacySettings) *Profile {
	return &Profile{
		UserID:    1,
		FirstName: "Ada",
		LastName:  "Okafor",
		Bio:       strPtr("early riser, mostly in the library"),
		Phone:     strPtr("+15550000001"),
		Instagram: strPtr("ada.o"),
		Privacy:   privacy,
	}
}

func TestApplyPrivacyHidesOptedOutFields(t *testing.T) {
	p := sampleProfile(PrivacySettings{
		ShowPhone:     false,
		ShowInstagram: false,
		ShowBio:       true,
		Discoverable:  true,
	})

	applyPrivacy(p)

	assert.Nil(t, p.Phone)
	assert.Nil(t, p.Instagram)
	assert.NotNil(t, p.Bio)
	assert.Equal(t, "Ada", p.FirstName)
}

func TestApplyPrivacyShowAllKeepsEverything(t *testing.T) {
	p := sampleProfile(PrivacySettings{
		ShowPhone:     true,
		ShowInstagram: true,
		ShowBio:       true,
		Discoverable:  true,
	})

	applyPrivacy(p)

	assert.NotNil(t, p.Phone)
	assert.NotNil(t, p.Instagram)
	assert.NotNil(t, p.Bio)
}

func TestDefaultPrivacyHidesContactDetails(t *testing.T) {
	defaults := DefaultPrivacySettings()

	assert.False(t, defaults.ShowPhone)
	assert.False(t, defaults.ShowInstagram)
	assert.True(t, defaults.ShowBio)
	assert.True(t, defaults.Discoverable)
}

func TestAllowedAvatarExtensions(t *testing.T) {
	assert.True(t, allowedImageExts[".jpg"])
	assert.True(t, allowedImageExts[".webp"])
	assert.False(t, allowedImageExts[".gif"])
	assert.False(t, allowedImageExts[".svg"])
}
