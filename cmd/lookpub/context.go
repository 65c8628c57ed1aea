package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"lookpub/internal/config"
	"lookpub/internal/logging"
	"lookpub/internal/publish"
	"lookpub/internal/scenegraph"
	"lookpub/internal/session"
	"lookpub/internal/template"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// env bundles the collaborators a lifecycle command needs: the open store,
// the template registry, and a runner bound to one scene document.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *session.Store
	registry *template.Registry
	runner   *publish.Runner
	scene    *scenegraph.Scene
}

func (e *env) close() {
	if e != nil && e.store != nil {
		_ = e.store.Close()
	}
}

// openEnv opens the store and builds a runner for the given scene document.
func (c *commandContext) openEnv(scenePath string) (*env, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	scene, err := scenegraph.Load(scenePath)
	if err != nil {
		return nil, err
	}

	registry, err := template.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	store, err := session.Open(cfg)
	if err != nil {
		return nil, err
	}

	base := publish.NewBase(cfg, logging.NewComponentLogger(logger, "publish"))
	plugin := publish.NewLookFilePlugin(scene, registry, base, logging.NewComponentLogger(logger, "lookfile"))
	runner := publish.NewRunner(store, logging.NewComponentLogger(logger, "runner"), plugin)

	return &env{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		registry: registry,
		runner:   runner,
		scene:    scene,
	}, nil
}

// openSessionEnv resolves a recorded session (the latest when sessionID is
// empty) and builds the environment around its scene document.
func (c *commandContext) openSessionEnv(ctx context.Context, sessionID string) (*env, *session.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := session.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	sess, err := resolveSession(ctx, store, sessionID)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	_ = store.Close()

	environment, err := c.openEnv(sess.ScenePath)
	if err != nil {
		return nil, nil, err
	}
	return environment, sess, nil
}

func resolveSession(ctx context.Context, store *session.Store, sessionID string) (*session.Session, error) {
	if strings.TrimSpace(sessionID) != "" {
		sess, err := store.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, fmt.Errorf("no session with id %s", sessionID)
		}
		return sess, nil
	}

	sess, err := store.LatestSession(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("no sessions recorded; run `lookpub accept <scene>` first")
	}
	return sess, nil
}
