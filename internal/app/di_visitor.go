package app

import (
	"fmt"

	visitorHTTP "github.com/lumenpass/lumenpass/internal/visitor/http"
	visitorRepository "github.com/lumenpass/lumenpass/internal/visitor/repository"
	visitorUseCase "github.com/lumenpass/lumenpass/internal/visitor/usecase"
)

// VisitorRepository returns the visitor repository based on database driver.
func (c *Container) VisitorRepository() (visitorUseCase.VisitorRepository, error) {
	var err error
	c.visitorRepositoryInit.Do(func() {
		c.visitorRepository, err = c.initVisitorRepository()
		if err != nil {
			c.initErrors["visitorRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["visitorRepository"]; exists {
		return nil, storedErr
	}
	return c.visitorRepository, nil
}

// VisitorUseCase returns the visitor use case.
func (c *Container) VisitorUseCase() (visitorUseCase.VisitorUseCase, error) {
	var err error
	c.visitorUseCaseInit.Do(func() {
		c.visitorUseCase, err = c.initVisitorUseCase()
		if err != nil {
			c.initErrors["visitorUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["visitorUseCase"]; exists {
		return nil, storedErr
	}
	return c.visitorUseCase, nil
}

// VisitorHandler returns the HTTP handler for visitor operations.
func (c *Container) VisitorHandler() (*visitorHTTP.VisitorHandler, error) {
	var err error
	c.visitorHandlerInit.Do(func() {
		c.visitorHandler, err = c.initVisitorHandler()
		if err != nil {
			c.initErrors["visitorHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["visitorHandler"]; exists {
		return nil, storedErr
	}
	return c.visitorHandler, nil
}

// initVisitorRepository creates the visitor repository based on the database driver.
func (c *Container) initVisitorRepository() (visitorUseCase.VisitorRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for visitor repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return visitorRepository.NewPostgreSQLVisitorRepository(db), nil
	case "mysql":
		return visitorRepository.NewMySQLVisitorRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVisitorUseCase creates the visitor use case with all its dependencies.
func (c *Container) initVisitorUseCase() (visitorUseCase.VisitorUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for visitor use case: %w", err)
	}

	repository, err := c.VisitorRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get visitor repository for visitor use case: %w", err)
	}

	credentials, err := c.CredentialUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for visitor use case: %w", err)
	}

	baseUseCase := visitorUseCase.NewVisitorUseCase(txManager, repository, credentials, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for visitor use case: %w", err)
		}
		return visitorUseCase.NewVisitorUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initVisitorHandler creates the visitor HTTP handler with all its dependencies.
func (c *Container) initVisitorHandler() (*visitorHTTP.VisitorHandler, error) {
	visitors, err := c.VisitorUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get visitor use case for visitor handler: %w", err)
	}

	credentials, err := c.CredentialUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for visitor handler: %w", err)
	}

	return visitorHTTP.NewVisitorHandler(visitors, credentials, c.config.ScanTimeout, c.Logger()), nil
}
