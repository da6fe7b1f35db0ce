//go:build integration

package databases_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/linesmerrill/festival-registration-api/config"
	"github.com/linesmerrill/festival-registration-api/databases"
	"github.com/linesmerrill/festival-registration-api/models"
)

func setupMongo(t *testing.T) databases.DatabaseHelper {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	conf := &config.Config{URL: uri, DatabaseName: "festival_test"}
	client, err := databases.NewClient(conf)
	require.NoError(t, err)
	require.NoError(t, client.Connect(ctx))
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := databases.NewDatabase(conf, client)
	require.NoError(t, databases.EnsureIndexes(ctx, db))
	return db
}

func TestIntegration_MarkSuccessfulAppliesOnce(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	pendingDB := databases.NewPendingPaymentDatabase(db)

	require.NoError(t, pendingDB.InsertOne(ctx, models.PendingPayment{
		TxRef:     "tx_1700000000000-42",
		Profile:   models.Profile{Email: "ada@example.com", FullName: "Ada Obi"},
		Status:    models.PaymentStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}))

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, applied, err := pendingDB.MarkSuccessful(ctx, "tx_1700000000000-42")
			assert.NoError(t, err)
			if applied {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	p, err := pendingDB.FindByTxRef(ctx, "tx_1700000000000-42")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccessful, p.Status)
	assert.True(t, p.UsedForRegistration)
}

func TestIntegration_RegistrantEmailIsUnique(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	registrantDB := databases.NewRegistrantDatabase(db)

	first := models.Registrant{Profile: models.Profile{Email: "ada@example.com"}, RegistrationID: "EVT-000001", CreatedAt: time.Now()}
	second := models.Registrant{Profile: models.Profile{Email: "ada@example.com"}, RegistrationID: "EVT-000002", CreatedAt: time.Now()}

	_, err := registrantDB.InsertOne(ctx, first)
	require.NoError(t, err)
	_, err = registrantDB.InsertOne(ctx, second)
	assert.True(t, databases.IsDuplicateOn(err, databases.IndexRegistrantEmail), "got %v", err)

	all, err := registrantDB.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIntegration_SchedulerLockIsExclusive(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	lockDB := databases.NewSchedulerLockDatabase(db)

	acquired, err := lockDB.TryAcquireLock(ctx, "reconcile", "web.1", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = lockDB.TryAcquireLock(ctx, "reconcile", "web.2", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, lockDB.ReleaseLock(ctx, "reconcile", "web.1"))

	acquired, err = lockDB.TryAcquireLock(ctx, "reconcile", "web.2", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}
