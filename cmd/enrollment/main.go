package main

import (
	"enrollment-sync/cmd/bootstrap"
	"enrollment-sync/internal/infra/db"
)

// @title           enrollment-service
// @version         1.0
// @description     Participant-facing enrollment lifecycle API.

// @BasePath  /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	bootstrap.Run(bootstrap.Service{
		Name:       "enrollment",
		Migrations: db.EnrollmentMigrations,
		GroupID:    "enrollment-service",
	}, bootstrap.EnrollmentModule)
}
