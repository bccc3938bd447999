// Package mfa implements the TOTP second factor of a host: the installation
// secret lifecycle, the login gate and the enrollment page.
//
// The secret is loaded once at start-up with LoadOrCreateSecret and then
// passed by value to a Gate and a SetupHandler. Nothing in this package keeps
// global state.
//
//	store := mfa.NewSecretStore(db)
//	secret, err := mfa.LoadOrCreateSecret(ctx, store, engine, 20)
//	if err != nil {
//		return err // storage failures are fatal
//	}
//
//	gate := mfa.NewGate(engine, secret)
//	if d := gate.Check(ctx, body); !d.Allowed() {
//		// reject with d.Reason
//	}
//
//	setup := mfa.NewSetupHandler(engine, renderer, secret)
//	handler = mfa.SetupMiddleware("/mfa-setup", setup)(handler)
//
// The gate fails closed: a missing or malformed code, a verification error
// or a mismatch all produce a Deny decision with ReasonMFAFailed.
package mfa
