// Package qrcode renders provisioning URIs as QR code images, either as raw
// PNG bytes or as a data URI that can be embedded directly into HTML pages.
//
// The package is a thin wrapper around github.com/skip2/go-qrcode that adds
// defaults, input validation and a Renderer type used by the MFA setup page.
//
// # Usage
//
//	r := qrcode.NewRenderer(256)
//	dataURI, err := r.Render("otpauth://totp/HFS:HFS?secret=...&issuer=HFS")
//	if err != nil {
//		// handle error
//	}
//	// <img src="{{ dataURI }}">
//
// # Error Handling
//
//   • ErrEmptyContent             – the content argument was empty.
//   • ErrorFailedToGenerateQRCode – the underlying library could not
//     encode the content (for example it is too long for any QR version).
//
// Compare with errors.Is.
package qrcode
