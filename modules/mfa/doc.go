// Package mfa wires the TOTP second factor into a host.
//
// Init opens the host database, loads or creates the installation secret,
// subscribes the login gate to host.EventAttemptingLogin and returns a Module
// whose Middleware serves the enrollment page:
//
//	m, err := mfa.Init(ctx, h, mfa.WithConfig(cfg))
//	if err != nil {
//		return err
//	}
//	defer m.Unload()
//
//	router.Use(m.Middleware)
//
// A denied attempt is answered with 401 and "MFA Failed" through
// RequestContext.Fail and the event is stopped with events.PreventDefault.
package mfa
