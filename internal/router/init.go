package router

import (
	"github.com/idigest/idigest-server/internal/application"
	"github.com/idigest/idigest-server/internal/container"
	pginfra "github.com/idigest/idigest-server/internal/infrastructure/postgres"
	handlers "github.com/idigest/idigest-server/internal/interface/http"
	"github.com/idigest/idigest-server/internal/router/modules"
)

func buildUserModule() *modules.UserModule {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	orgs := pginfra.NewOrganizationRepository(container.GetPGPool())

	service := application.NewAuthService(
		repo,
		orgs,
		container.GetJWT(),
		container.GetRabbitPub(),
		container.GetLogger(),
		cfg.ResetTokenTTL,
		cfg.MailSendEnabled,
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())
	return modules.NewUserModule(handler, container.GetJWT())
}

func buildDataModule() *modules.DataModule {
	data := pginfra.NewUserDataRepository(container.GetPGPool())
	classes := pginfra.NewClassRepository(container.GetPGPool())

	service := application.NewUserDataService(data, classes, container.GetLogger())

	handler := handlers.NewUserDataHandler(service, container.GetLogger())
	return modules.NewDataModule(handler, container.GetJWT())
}

func buildActivityModule() *modules.ActivityModule {
	devices := pginfra.NewDeviceRepository(container.GetPGPool())
	groups := pginfra.NewGroupRepository(container.GetPGPool())
	messages := pginfra.NewMessageRepository(container.GetPGPool())

	service := application.NewActivityService(devices, groups, messages, container.GetLogger())

	handler := handlers.NewActivityHandler(service, container.GetLogger())
	return modules.NewActivityModule(handler, container.GetJWT())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	r.Add(buildUserModule())
	r.Add(buildDataModule())
	r.Add(buildActivityModule())
}
