package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/totpmfa/internal/hostapp"
	"github.com/dmitrymomot/totpmfa/pkg/config"
	"github.com/dmitrymomot/totpmfa/pkg/kvstore"
	"github.com/dmitrymomot/totpmfa/pkg/logger"
	"github.com/dmitrymomot/totpmfa/pkg/requestid"
	"github.com/dmitrymomot/totpmfa/pkg/totp"
	svcmfa "github.com/dmitrymomot/totpmfa/svc/mfa"
)

const usage = `usage: hfs <command>

commands:
  serve            run the host (default)
  keygen           print a new TOTP_ENCRYPTION_KEY
  hash <password>  print a bcrypt hash for HOST_ADMIN_PASSWORD_HASH
  code             print the current code of the installation secret
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(ctx)
	case "keygen":
		err = keygen()
	case "hash":
		if len(os.Args) < 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		err = hash(os.Args[2])
	case "code":
		err = code(ctx)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "hfs: unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		slog.Error("hfs "+cmd, logger.Error(err))
		os.Exit(1)
	}
}

func loadConfig() (hostapp.Config, *slog.Logger, error) {
	var cfg hostapp.Config
	if err := config.Load(&cfg); err != nil {
		return cfg, nil, err
	}
	log := logger.New(logger.FromConfig(cfg.Log), logger.WithContextExtractors(requestid.LoggerExtractor()))
	logger.SetAsDefault(log)
	return cfg, log, nil
}

func serve(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := hostapp.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func keygen() error {
	key, err := totp.GenerateEncodedEncryptionKey()
	if err != nil {
		return err
	}
	fmt.Println(key)
	return nil
}

func hash(password string) error {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Println(string(h))
	return nil
}

// code reads the stored secret without creating one.
func code(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	mfaCfg := cfg.MFA.WithDefaults()

	backend, err := kvstore.Connect(ctx, cfg.KV, log)
	if err != nil {
		return err
	}
	defer backend.Close(context.WithoutCancel(ctx))

	db, err := backend.Open(ctx, mfaCfg.DatabaseName)
	if err != nil {
		return err
	}

	opts := []svcmfa.StoreOption{svcmfa.WithSecretKey(mfaCfg.SecretKey)}
	if mfaCfg.TOTP.EncryptionKey != "" {
		key, err := totp.ParseEncryptionKey(mfaCfg.TOTP.EncryptionKey)
		if err != nil {
			return err
		}
		opts = append(opts, svcmfa.WithEncryptionKey(key))
	}

	secret, found, err := svcmfa.NewSecretStore(db, opts...).Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("no secret stored yet, run \"hfs serve\" once")
	}

	now := time.Now()
	c, err := totp.NewEngineFromConfig(mfaCfg.TOTP).GenerateCode(secret.Base32(), now)
	if err != nil {
		return err
	}
	remaining := totp.DefaultPeriod - now.Unix()%totp.DefaultPeriod
	fmt.Printf("%s (valid for %ds)\n", c, remaining)
	return nil
}
