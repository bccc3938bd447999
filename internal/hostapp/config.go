package hostapp

import (
	"github.com/dmitrymomot/totpmfa/pkg/httpserver"
	"github.com/dmitrymomot/totpmfa/pkg/kvstore"
	"github.com/dmitrymomot/totpmfa/pkg/logger"
	svcmfa "github.com/dmitrymomot/totpmfa/svc/mfa"
)

// APIVersion is the module API level this host implements.
const APIVersion = 10.3

// Config is the complete host configuration.
type Config struct {
	AdminUsername     string  `env:"HOST_ADMIN_USERNAME" envDefault:"admin"` // Account accepted by POST /login
	AdminPasswordHash string  `env:"HOST_ADMIN_PASSWORD_HASH"`               // bcrypt hash, see "hfs hash"
	APIVersion        float64 `env:"HOST_API_VERSION" envDefault:"10.3"`     // Reported to modules

	HTTP httpserver.Config
	KV   kvstore.Config
	Log  logger.Config
	MFA  svcmfa.Config
}
