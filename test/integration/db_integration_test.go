package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshu-sajeev/vid2blog/internal/config"
	"github.com/joshu-sajeev/vid2blog/internal/models"
	"github.com/joshu-sajeev/vid2blog/internal/storage/postgres"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDB   *sql.DB
	testDSN  string
	testPort string
)

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}

	pool.MaxWait = 60 * time.Second

	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	pg, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "17-alpine",
		Env: []string{
			"POSTGRES_USER=testuser",
			"POSTGRES_PASSWORD=testpass",
			"POSTGRES_DB=vid2blog_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start postgres container: %s", err)
	}

	testPort = pg.GetPort("5432/tcp")
	testDSN = fmt.Sprintf(
		"host=localhost user=testuser password=testpass dbname=vid2blog_test port=%s sslmode=disable TimeZone=UTC",
		testPort,
	)

	if err := pool.Retry(func() error {
		var err error
		testDB, err = sql.Open("postgres", testDSN)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := testDB.PingContext(ctx); err != nil {
			testDB.Close()
			return err
		}
		return nil
	}); err != nil {
		log.Fatalf("Could not connect to postgres: %s", err)
	}

	os.Setenv("POSTGRES_USER", "testuser")
	os.Setenv("POSTGRES_PASSWORD", "testpass")
	os.Setenv("POSTGRES_DB", "vid2blog_test")
	os.Setenv("POSTGRES_HOST", "localhost")
	os.Setenv("POSTGRES_PORT", testPort)
	os.Setenv("DB_MAX_RETRIES", "3")
	os.Setenv("DB_RETRY_DELAY", "100ms")
	os.Setenv("DB_LOG_LEVEL", "silent")

	// apply the embedded migrations once, through the same path the
	// API and worker binaries use on boot
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	gdb, err := postgres.ConnectDB(ctx, nil)
	cancel()
	if err != nil {
		log.Fatalf("Could not connect via gorm: %s", err)
	}
	if err := postgres.Migrate(gdb); err != nil {
		log.Fatalf("Could not run migrations: %s", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}

	if err := pool.Purge(pg); err != nil {
		log.Fatalf("Could not purge postgres container: %s", err)
	}

	os.Exit(code)
}

func TestConnectDB(t *testing.T) {
	tests := []struct {
		name        string
		config      *postgres.Config
		setupEnv    func()
		cleanupEnv  func()
		wantErr     bool
		errContains string
		validate    func(t *testing.T, db *gorm.DB)
	}{
		{
			name:   "connect from environment",
			config: nil,
			validate: func(t *testing.T, db *gorm.DB) {
				require.NotNil(t, db)

				sqlDB, err := db.DB()
				require.NoError(t, err)
				assert.NoError(t, sqlDB.Ping())

				var dbName string
				err = db.Raw("SELECT current_database()").Scan(&dbName).Error
				require.NoError(t, err)
				assert.Equal(t, "vid2blog_test", dbName)

				stats := sqlDB.Stats()
				assert.Equal(t, 50, stats.MaxOpenConnections)
			},
		},
		{
			name: "connect with explicit config",
			config: &postgres.Config{
				User:       "testuser",
				Password:   "testpass",
				Host:       "localhost",
				Port:       testPort,
				Database:   "vid2blog_test",
				MaxRetries: 3,
				RetryDelay: 100 * time.Millisecond,
				LogLevel:   logger.Silent,
			},
			validate: func(t *testing.T, db *gorm.DB) {
				require.NotNil(t, db)

				tx := db.Begin()
				require.NotNil(t, tx)
				assert.NoError(t, tx.Error)
				assert.NoError(t, tx.Rollback().Error)
			},
		},
		{
			name: "connection refused on wrong port",
			config: &postgres.Config{
				User:       "testuser",
				Password:   "testpass",
				Host:       "localhost",
				Port:       "19999",
				Database:   "vid2blog_test",
				MaxRetries: 2,
				RetryDelay: 5 * time.Millisecond,
				LogLevel:   logger.Silent,
			},
			wantErr:     true,
			errContains: "database connection failed after 2 attempts",
		},
		{
			name: "invalid credentials",
			config: &postgres.Config{
				User:       "testuser",
				Password:   "wrongpass",
				Host:       "localhost",
				Port:       testPort,
				Database:   "vid2blog_test",
				MaxRetries: 2,
				RetryDelay: 5 * time.Millisecond,
				LogLevel:   logger.Silent,
			},
			wantErr:     true,
			errContains: "database connection failed after 2 attempts",
		},
		{
			name:   "missing environment variables",
			config: nil,
			setupEnv: func() {
				os.Setenv("POSTGRES_PORT", "not-a-port")
			},
			cleanupEnv: func() {
				os.Setenv("POSTGRES_PORT", testPort)
			},
			wantErr:     true,
			errContains: "POSTGRES_PORT must be a valid number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if tt.setupEnv != nil {
				tt.setupEnv()
			}

			db, err := postgres.ConnectDB(ctx, tt.config)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				assert.Nil(t, db)
			} else {
				require.NoError(t, err)
				require.NotNil(t, db)
				if tt.validate != nil {
					tt.validate(t, db)
				}
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			}

			if tt.cleanupEnv != nil {
				tt.cleanupEnv()
			}
		})
	}
}

// setupTestDB returns a fresh connection with clean tables.
func setupTestDB(tb testing.TB) (*gorm.DB, context.Context) {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	tb.Cleanup(cancel)

	db, err := postgres.ConnectDB(ctx, &postgres.Config{
		User:       "testuser",
		Password:   "testpass",
		Host:       "localhost",
		Port:       testPort,
		Database:   "vid2blog_test",
		MaxRetries: 3,
		RetryDelay: 100 * time.Millisecond,
		LogLevel:   logger.Silent,
	})
	require.NoError(tb, err)

	require.NoError(tb, db.Exec("DELETE FROM queue_entries").Error)
	require.NoError(tb, db.Exec("DELETE FROM blogs").Error)

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db, ctx
}

func TestBlogAndQueueRoundTrip(t *testing.T) {
	db, ctx := setupTestDB(t)
	blogs := postgres.NewBlogRepository(db)
	queue := postgres.NewQueueRepository(db)

	id := uuid.New().String()
	require.NoError(t, blogs.Create(ctx, &models.Blog{
		ID:             id,
		YoutubeURL:     "https://youtu.be/abc123",
		YoutubeVideoID: "abc123",
		Status:         string(config.BlogStatusPending),
	}))

	payload := datatypes.JSON([]byte(fmt.Sprintf(
		`{"blogId":%q,"videoId":"abc123","youtubeUrl":"https://youtu.be/abc123"}`, id)))
	entry, err := queue.Enqueue(ctx, id, payload)
	require.NoError(t, err)
	assert.Equal(t, id, entry.ID)

	// duplicate submission reuses the same slot
	again, err := queue.Enqueue(ctx, id, payload)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, again.ID)

	claimed, err := queue.ClaimNext(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, id, claimed.ID)
	assert.Equal(t, string(config.EntryStateActive), claimed.State)

	require.NoError(t, queue.ReportProgress(ctx, id, 60))
	require.NoError(t, blogs.Update(ctx, id, map[string]any{
		"status":         string(config.BlogStatusProcessing),
		"status_message": "Generating blog content with AI...",
	}))

	status, err := queue.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 60, status.Progress)

	result := datatypes.JSON([]byte(fmt.Sprintf(`{"blogId":%q,"status":"completed"}`, id)))
	require.NoError(t, queue.Complete(ctx, id, result))
	require.NoError(t, blogs.Update(ctx, id, map[string]any{
		"status":         string(config.BlogStatusCompleted),
		"status_message": nil,
		"title":          "A Blog Post",
	}))

	saved, err := blogs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(config.BlogStatusCompleted), saved.Status)
	assert.Nil(t, saved.StatusMessage)
	require.NotNil(t, saved.Title)
	assert.Equal(t, "A Blog Post", *saved.Title)

	status, err = queue.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(config.EntryStateCompleted), status.State)
	assert.Equal(t, 100, status.Progress)
}

func TestQueueRetrySchedule(t *testing.T) {
	db, ctx := setupTestDB(t)
	queue := postgres.NewQueueRepository(db)

	id := uuid.New().String()
	_, err := queue.Enqueue(ctx, id, datatypes.JSON([]byte(`{}`)))
	require.NoError(t, err)

	for attempt := 1; attempt < config.MaxAttempts; attempt++ {
		claimed, err := queue.ClaimNext(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, claimed)

		require.NoError(t, queue.Fail(ctx, id, "stage fetch-metadata: quota exceeded"))

		entry, err := queue.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, attempt, entry.Attempts)
		assert.Equal(t, string(config.EntryStateQueued), entry.State)
		assert.True(t, entry.AvailableAt.After(time.Now().UTC()),
			"retried entry must be delayed")

		// collapse the backoff so the next claim succeeds
		require.NoError(t, db.Model(&models.QueueEntry{}).Where("id = ?", id).
			Update("available_at", time.Now().UTC().Add(-time.Second)).Error)
	}

	claimed, err := queue.ClaimNext(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	require.NoError(t, queue.Fail(ctx, id, "stage fetch-metadata: quota exceeded"))

	entry, err := queue.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(config.EntryStateFailed), entry.State)
	assert.Equal(t, config.MaxAttempts, entry.Attempts)

	claimed, err = queue.ClaimNext(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, claimed, "terminal entries stay dead")
}
