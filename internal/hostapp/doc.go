// Package hostapp is a small reference host for the MFA module. It implements
// host.Host on top of a kvstore backend and an events.Bus, and serves:
//
//	POST /login         emits attemptingLogin, then checks the bcrypt password
//	GET  /mfa-setup     enrollment page, served by the MFA module middleware
//	GET  /health/live   liveness
//	GET  /health/ready  backend readiness
package hostapp
