package main

import (
	"enrollment-sync/cmd/bootstrap"
	"enrollment-sync/internal/infra/db"
)

// @title           resource-authority
// @version         1.0
// @description     Canonical resource state and withdraw adjudication.

// @BasePath  /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	bootstrap.Run(bootstrap.Service{
		Name:       "authority",
		Migrations: db.AuthorityMigrations,
		GroupID:    "resource-authority",
	}, bootstrap.AuthorityModule)
}
