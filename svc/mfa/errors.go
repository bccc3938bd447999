package mfa

import "errors"

var (
	ErrStorage        = errors.New("mfa: secret storage failure")
	ErrSecretExists   = errors.New("mfa: secret already exists")
	ErrInvalidSecret  = errors.New("mfa: invalid secret")
	ErrFailedToRender = errors.New("mfa: failed to render provisioning page")
)
