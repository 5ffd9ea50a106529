package helper_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/go-redis/redis"
	"github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/websocket"
	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tindev/tindev-app/internal"
	"github.com/tindev/tindev-app/internal/config"
	"github.com/tindev/tindev-app/internal/entity"
	"github.com/tindev/tindev-app/pkg/http_util"
	"github.com/tindev/tindev-app/pkg/path"
)

// TestServerResources holds everything a suite needs to drive the real
// server: docker-backed postgres and redis plus direct handles to both.
type TestServerResources struct {
	Cancel        context.CancelFunc
	Config        *config.Config
	Pool          *dockertest.Pool
	DBResource    *dockertest.Resource
	RedisResource *dockertest.Resource
	ORM           *gorm.DB
	Redis         *redis.Client
}

func (resources *TestServerResources) BaseURL() string {
	return "http://localhost:" + resources.Config.Get("PORT")
}

func (resources *TestServerResources) WSURL() string {
	return "ws://localhost:" + resources.Config.Get("PORT") + "/ws"
}

// SetupTestServer spins up postgres and redis in docker, migrates the
// schema and runs the real server in-process.
func SetupTestServer(ctx context.Context) (*TestServerResources, error) {
	ctx, cancel := context.WithCancel(ctx)
	var gormDB *gorm.DB
	var redisClient *redis.Client

	cfg, err := config.NewConfig("TEST")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}

	pool, dbResource, redisResource, err := setupDockerResources(cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not set up docker resources: %w", err)
	}

	pool.MaxWait = 60 * time.Second
	if err := pool.Retry(func() error {
		gormDB, err = connectToPostgres(dbResource, cfg)
		return err
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("could not connect to postgres: %s", err)
	}

	if err := pool.Retry(func() error {
		redisClient, err = connectToRedis(redisResource)
		return err
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("could not connect to redis: %s", err)
	}

	dbConnection, err := gormDB.DB()
	if err != nil {
		cancel()
		return nil, err
	}

	if err := runMigrations(dbConnection); err != nil {
		cancel()
		return nil, err
	}

	go internal.Run(ctx, os.Stdout, []string{"test"})

	if !waitForServer(ctx, cfg.Get("PORT")) {
		pool.Purge(redisResource)
		pool.Purge(dbResource)
		cancel()
		return nil, fmt.Errorf("server did not start within timeout")
	}

	return &TestServerResources{
		Cancel:        cancel,
		Config:        cfg,
		Pool:          pool,
		DBResource:    dbResource,
		RedisResource: redisResource,
		ORM:           gormDB,
		Redis:         redisClient,
	}, nil
}

func (resources *TestServerResources) CleanupTestServer() {
	if resources == nil {
		return
	}

	if resources.Cancel != nil {
		resources.Cancel()
	}

	if resources.Pool != nil {
		if resources.DBResource != nil {
			if err := resources.Pool.Purge(resources.DBResource); err != nil {
				log.Printf("Could not purge postgres: %s", err)
			}
		}

		if resources.RedisResource != nil {
			if err := resources.Pool.Purge(resources.RedisResource); err != nil {
				log.Printf("Could not purge redis: %s", err)
			}
		}
	}
}

func setupDockerResources(cfg *config.Config) (*dockertest.Pool, *dockertest.Resource, *dockertest.Resource, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to docker: %s", err)
	}

	dbOptions := &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", cfg.Get("POSTGRES_USER")),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", cfg.Get("POSTGRES_PASSWORD")),
			fmt.Sprintf("POSTGRES_DB=%s", cfg.Get("POSTGRES_DB_NAME")),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432/tcp": {{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%s/tcp", cfg.Get("POSTGRES_PORT"))}},
		},
	}
	dbResource, err := pool.RunWithOptions(dbOptions)

	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not start postgres: %s", err)
	}

	redisOptions := &dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7",
		PortBindings: map[docker.Port][]docker.PortBinding{
			"6379/tcp": {{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%s/tcp", cfg.Get("REDIS_PORT"))}},
		},
	}

	redisResource, err := pool.RunWithOptions(redisOptions)

	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not start redis: %s", err)
	}

	return pool, dbResource, redisResource, nil
}

func connectToPostgres(dbResource *dockertest.Resource, cfg *config.Config) (*gorm.DB, error) {
	hostPort := strings.Split(dbResource.GetHostPort("5432/tcp"), ":")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		hostPort[0],
		hostPort[1],
		cfg.Get("POSTGRES_USER"),
		cfg.Get("POSTGRES_PASSWORD"),
		cfg.Get("POSTGRES_DB_NAME"))

	gormDB, err := gorm.Open(postgres.Open(dsn))

	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	return gormDB, sqlDB.Ping()
}

func connectToRedis(redisResource *dockertest.Resource) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:" + redisResource.GetPort("6379/tcp"),
	})
	return redisClient, redisClient.Ping().Err()
}

func runMigrations(db *sql.DB) error {
	driver, err := migratePostgres.WithInstance(db, &migratePostgres.Config{})

	if err != nil {
		return err
	}

	basePath, err := os.Getwd()

	if err != nil {
		return err
	}

	migrationPath, err := path.FindRoot(basePath, "migrations", true)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationPath+"/migrations",
		"postgres", driver)
	if err != nil {
		return err
	}

	return m.Up()
}

func waitForServer(ctx context.Context, port string) bool {
	loopContext, cancelLoopContext := context.WithTimeout(ctx, 60*time.Second)
	defer cancelLoopContext()

	for {
		select {
		case <-loopContext.Done():
			return false
		default:
			resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
			if err != nil {
				time.Sleep(1 * time.Second)
				continue
			}

			if resp.StatusCode == http.StatusOK {
				return true
			}
			time.Sleep(1 * time.Second)
		}
	}
}

// PopulateUsers seeds count fake profiles straight into the database.
func PopulateUsers(db *gorm.DB, count int) ([]entity.User, error) {
	users := make([]entity.User, 0, count)

	for i := 0; i < count; i++ {
		hashed, err := bcrypt.GenerateFromPassword([]byte(faker.Password()), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}

		user := entity.User{
			Name:     faker.Name(),
			Email:    faker.Email(),
			Username: faker.Username(),
			Password: string(hashed),
			Bio:      faker.Sentence(),
			Avatar:   faker.URL(),
		}
		if res := db.Create(&user); res.Error != nil {
			return nil, res.Error
		}
		users = append(users, user)
	}
	return users, nil
}

func SignUpUser(t *testing.T, baseURL, username, password, email string) entity.SignUpResponse {
	t.Helper()

	reqBody := entity.CreateUserRequest{
		Name:     "testname",
		Username: username,
		Password: password,
		Email:    email,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	resp, err := http.Post(baseURL+"/v1/auth/sign-up", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response, err := http_util.DecodeBody(bodyBytes, http_util.HTTPResponse[entity.SignUpResponse]{})
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return response.Data
}

func SignInUser(t *testing.T, baseURL, email, username, password string) entity.SignInResponse {
	t.Helper()

	body, err := json.Marshal(entity.SignInRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	resp, err := http.Post(baseURL+"/v1/auth/sign-in", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response, err := http_util.DecodeBody(bodyBytes, http_util.HTTPResponse[entity.SignInResponse]{})
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return response.Data
}

// Swipe posts one like/dislike on profileID and returns the outcome.
func Swipe(t *testing.T, baseURL, token string, profileID uint, action entity.Action) entity.SwipeResponse {
	t.Helper()

	verb := "likes"
	if action == entity.ActionDislike {
		verb = "dislikes"
	}

	requestURL := fmt.Sprintf("%s/v1/devs/%d/%s", baseURL, profileID, verb)

	req, err := http.NewRequest(http.MethodPost, requestURL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %s", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response, err := http_util.DecodeBody(bodyBytes, http_util.HTTPResponse[entity.SwipeResponse]{})
	if err != nil {
		t.Fatalf("Failed to decode response: %s", err)
	}

	return response.Data
}

func GetCandidates(t *testing.T, baseURL, token string) []entity.Candidate {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, baseURL+"/v1/devs", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %s", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %s", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response, err := http_util.DecodeBody(bodyBytes, http_util.HTTPResponse[entity.CandidatesResponse]{})
	if err != nil {
		t.Fatalf("Failed to decode response: %s", err)
	}

	return response.Data.Candidates
}

// DialWS opens the realtime channel for token.
func DialWS(t *testing.T, wsURL, token string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %s", err)
	}
	return conn
}
