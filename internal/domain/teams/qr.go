package teams

// QRPayload is the plain-text block encoded into a team's QR code. It is
// only defined when both name and password are non-empty.
//
// The password is embedded verbatim: anyone who can scan the code can read
// it.
func QRPayload(name, password string) (string, bool) {
	if name == "" || password == "" {
		return "", false
	}
	return "\n    Team Name: " + name + "\n    Team Password: " + password + "\n  ", true
}

// QRFilename is the download name for a team's QR image.
func QRFilename(name string) string {
	return name + "-qrcode.png"
}
