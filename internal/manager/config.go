package manager

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"llmsvc/internal/llm"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultServiceName = "llm-service"
	defaultContextSize = 4096
	defaultMaxInflight = 1

	DefaultGenerateMaxTokens = 256
	DefaultChatMaxTokens     = 512
	DefaultTemperature       = 0.7
)

// DefaultStop is applied to /generate when the request carries no stop field.
var DefaultStop = []string{llm.EOT}

// Provisioner resolves the artifact to a local path. *provision.Provisioner
// satisfies it.
type Provisioner interface {
	EnsureArtifact(ctx context.Context, repoID, filename, cacheDir string) (string, error)
}

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	ServiceName string

	// Artifact
	RepoID    string
	ModelFile string
	CacheDir  string

	// Engine (fixed at load time)
	Backend     string // informational, reported by Status
	ContextSize int
	GPULayers   int
	Threads     int
	Verbose     bool

	// MaxInflight bounds concurrent engine calls.
	MaxInflight int

	Provisioner Provisioner
	Loader      llm.Loader
	Publisher   EventPublisher
	Logger      *zerolog.Logger

	// BaseContext scopes loads; canceled by Close. Defaults to Background.
	BaseContext context.Context

	// now is overridable in tests.
	now func() time.Time
}

func (c ManagerConfig) withDefaults() ManagerConfig {
	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}
	if c.ContextSize <= 0 {
		c.ContextSize = defaultContextSize
	}
	if c.GPULayers < 0 {
		c.GPULayers = 0
	}
	if c.MaxInflight <= 0 {
		c.MaxInflight = defaultMaxInflight
	}
	if c.Publisher == nil {
		c.Publisher = noopPublisher{}
	}
	if c.Logger == nil {
		l := zerolog.Nop()
		c.Logger = &l
	}
	if c.BaseContext == nil {
		c.BaseContext = context.Background()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}
