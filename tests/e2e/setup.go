//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"enrollment-sync/cmd/bootstrap"
	"enrollment-sync/cmd/bootstrap/components"
	"enrollment-sync/internal/infra/db"
	"enrollment-sync/internal/infra/messaging"
	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/tests/common/authtest"
	"enrollment-sync/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

var (
	postgresContainerOnce sync.Once
	postgresTestContainer testcontainers.Container

	testUser     = "test"
	testPassword = "testpass"
)

type ContainerInfo struct {
	Host string
	Port nat.Port
}

// ServiceEnv is one running service: its HTTP engine and its own database.
type ServiceEnv struct {
	Router *gin.Engine
	DB     *pgxpool.Pool
}

// ------------------------------------------------------------
// Per-process setup
// ------------------------------------------------------------
func setupE2EEnvironment(t *testing.T) (enrollment, authority ServiceEnv, cfg config.Config) {
	postgresInfo := startContainers(t)

	cfg = config.NewTestConfig()
	cfg.Store.Driver = config.StoreDriverPostgres
	cfg.Kafka.GroupID = ""

	broker := messaging.NewMemoryBroker()
	t.Cleanup(func() { _ = broker.Close() })

	enrollment = startService(t, bootstrap.Service{
		Name:       "enrollment",
		Migrations: db.EnrollmentMigrations,
		GroupID:    "enrollment-service",
	}, components.EnrollmentHandlerModule, withDB(cfg, createDatabase(t, postgresInfo, "enrollment")), broker)

	authority = startService(t, bootstrap.Service{
		Name:       "authority",
		Migrations: db.AuthorityMigrations,
		GroupID:    "resource-authority",
	}, components.AuthorityHandlerModule, withDB(cfg, createDatabase(t, postgresInfo, "authority")), broker)

	slog.Info("e2e environment ready",
		"postgres_host", postgresInfo.Host,
		"postgres_port", postgresInfo.Port.Port())

	return enrollment, authority, cfg
}

func withDB(cfg config.Config, dbConfig config.DBConfig) config.Config {
	cfg.DB = dbConfig
	return cfg
}

// ------------------------------------------------------------
// Containers
// ------------------------------------------------------------
func startContainers(t *testing.T) ContainerInfo {
	gin.SetMode(gin.TestMode)
	startPostgreSQLContainerOnce(t)

	postgresInfo, err := getContainerHostPort(postgresTestContainer, "5432/tcp")
	require.NoError(t, err, "failed to read postgres container address")

	return postgresInfo
}

// ------------------------------------------------------------
// Databases
// ------------------------------------------------------------

// createDatabase creates an empty database for one service. Migrations run
// when the service starts.
func createDatabase(t *testing.T, postgresInfo ContainerInfo, prefix string) config.DBConfig {
	dbName := prefix + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, postgresInfo.Host, postgresInfo.Port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "admin connection failed")
	defer adminPool.Close()

	var createErr error
	for attempts := range 5 {
		if attempts > 0 {
			time.Sleep(min(time.Duration(500+attempts*500)*time.Millisecond, 3*time.Second))
			slog.Warn("retrying database creation", "attempt", attempts+1, "error", createErr.Error())
		}
		_, createErr = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
		if createErr == nil {
			break
		}
	}
	require.NoError(t, createErr, "failed to create test database")

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()

		cleanupPool, err := pgxpool.New(cleanupCtx, adminDSN)
		if err != nil {
			slog.Warn("cleanup connection failed", "database", dbName, "error", err.Error())
			return
		}
		defer cleanupPool.Close()

		if _, err := cleanupPool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", dbName, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     postgresInfo.Host,
		Port:     postgresInfo.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 10,
	}
}

// ------------------------------------------------------------
// Applications
// ------------------------------------------------------------

// startService builds the service the way the binary does, minus the HTTP
// listener. Both services share one in-process broker.
func startService(t *testing.T, svc bootstrap.Service, handlers fx.Option, cfg config.Config, broker *messaging.MemoryBroker) ServiceEnv {
	var env ServiceEnv

	app := fx.New(
		fx.Supply(svc, cfg),
		fx.Provide(
			func() messaging.Broker { return broker },
			func() messaging.Producer { return broker },
			func() *gin.Engine { return gin.New() },
		),
		bootstrap.LoggerModule,
		bootstrap.DBModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.UseCaseModule,
		bootstrap.WorkerModule,
		handlers,

		fx.Populate(&env.Router, &env.DB),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start %s", svc.Name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx app", "service", svc.Name, "error", err.Error())
		}
	})

	require.NotNil(t, env.Router, "router setup failed")
	require.NotNil(t, env.DB, "database setup failed")
	return env
}

func startGenericContainer(req testcontainers.ContainerRequest, timeoutSec int) (testcontainers.Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

// ------------------------------------------------------------
// PostgreSQL container, started once per process
// ------------------------------------------------------------
func startPostgreSQLContainerOnce(t *testing.T) {
	postgresContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=512m",
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "max_connections=200",
				"-c", "log_statement=none",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Name:   "postgres-e2e-enrollment-sync",
			Labels: map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		postgresTestContainer, err = startGenericContainer(req, 180)
		require.NoError(t, err, "failed to start postgres container")

		t.Cleanup(func() {
			if postgresTestContainer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := postgresTestContainer.Terminate(ctx); err != nil {
					slog.Warn("failed to terminate postgres container", "error", err.Error())
				}
			}
		})
	})
}

func getContainerHostPort(c testcontainers.Container, port string) (ContainerInfo, error) {
	ctx := context.Background()
	mappedPort, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return ContainerInfo{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	return ContainerInfo{Host: host, Port: mappedPort}, nil
}

// ------------------------------------------------------------
// Shared suite
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Enrollment ServiceEnv
	Authority  ServiceEnv
	Config     config.Config
	AdminToken string
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	s.Enrollment, s.Authority, s.Config = setupE2EEnvironment(t)
	s.AdminToken = authtest.NewJWTHelper(s.Config.JWT).AdminToken(t)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.Enrollment.DB), "failed to reset enrollment database")
	require.NoError(s.T(), dbtest.ResetDB(s.Authority.DB), "failed to reset authority database")
}
