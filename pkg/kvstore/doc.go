// Package kvstore provides the key-value databases a host hands to modules
// through its openDatabase(name) call.
//
// Every driver implements Store (Get/Put) and Creator (PutIfAbsent), the
// latter atomically where the backend allows it:
//
//   • Memory   – process-local map, for tests and ephemeral hosts.
//   • File     – one YAML document per database, written via temp file + rename.
//   • Redis    – keys prefixed with "{name}:", SETNX for PutIfAbsent.
//   • Postgres – kv_entries(db_name, key) rows, schema applied with goose from
//     embedded migrations, INSERT ... ON CONFLICT DO NOTHING for PutIfAbsent.
//   • Mongo    – one collection per database keyed by _id, duplicate-key
//     inserts for PutIfAbsent.
//   • S3       – objects under {prefix}/{name}/, If-None-Match: * for PutIfAbsent.
//
// Connect picks a driver from Config (KV_DRIVER) and returns a Backend holding
// the Opener together with Ping/Close hooks for the underlying connection.
//
// # Usage
//
//	backend, err := kvstore.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer backend.Close(ctx)
//
//	db, err := backend.Open(ctx, "totp-mfa")
//	value, err := db.Get(ctx, "secret")
//	if errors.Is(err, kvstore.ErrNotFound) {
//		// first run
//	}
//
// Missing keys are reported as ErrNotFound on every driver.
package kvstore
