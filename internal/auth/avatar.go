package auth

import "net/url"

// AvatarURL builds a generated initials avatar for identities without a photo.
func AvatarURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("background", "00ffff")
	q.Set("color", "000")
	q.Set("size", "200")
	q.Set("font-size", "0.6")
	q.Set("format", "png")
	q.Set("rounded", "true")
	return "https://ui-avatars.com/api/?" + q.Encode()
}
