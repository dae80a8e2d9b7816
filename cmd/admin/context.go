package main

import (
	"fmt"
	"sync"

	"bailemos/internal/config"
	"bailemos/internal/database"
	"bailemos/internal/service"

	"gorm.io/gorm"
)

type commandContext struct {
	configOnce sync.Once
	config     *config.Config
	configErr  error

	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.LoadConfig()
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// database opens the connection without migrating so that migrate status and
// down see the schema as it is.
func (c *commandContext) database() (*gorm.DB, error) {
	c.dbOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.dbErr = err
			return
		}
		db, err := database.Open(cfg)
		if err != nil {
			c.dbErr = fmt.Errorf("connect database: %w", err)
			return
		}
		c.db = db
	})
	return c.db, c.dbErr
}

func (c *commandContext) adminService() (*service.AdminService, error) {
	db, err := c.database()
	if err != nil {
		return nil, err
	}
	return service.NewAdminService(db), nil
}
