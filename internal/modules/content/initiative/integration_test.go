//go:build integration

package initiative_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/config"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/database"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/models"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/modules/content/initiative"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const petrovskaya = "улица Петровская"

func setupStore(t *testing.T) (*database.Store, *initiative.Service) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgis/postgis:16-3.4-alpine",
		postgres.WithDatabase("taganrog_db"),
		postgres.WithUsername("taganrog_user"),
		postgres.WithPassword("taganrog_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := &config.AppConfig{
		Env:         "test",
		DatabaseURL: connStr,
		Database:    config.DatabaseConfig{MaxConns: 4},
		Geocoding: config.GeocodingConfig{
			Function:      "get_street_name",
			UnknownStreet: "Неизвестная улица",
		},
		AutoMigrate: true,
	}
	store, err := database.Connect(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.DB.Exec(
		`INSERT INTO streets (name, geometry) VALUES (?, ST_SetSRID(ST_MakeLine(ST_MakePoint(38.93, 47.21), ST_MakePoint(38.95, 47.21)), 4326))`,
		petrovskaya,
	).Error)

	resolver := initiative.NewPostGISStreetResolver(store.DB, cfg.Geocoding)
	return store, initiative.NewService(store.DB, resolver)
}

func input(title string, status models.InitiativeStatus) initiative.Input {
	return initiative.Input{
		Title:      title,
		Status:     status,
		Lat:        47.21,
		Lon:        38.94,
		AuthorName: models.DefaultAuthor,
		AuthorRole: models.DefaultAuthor,
	}
}

func countRows(t *testing.T, store *database.Store, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, store.DB.Table(table).Count(&n).Error)
	return n
}

func TestInitiativeStore(t *testing.T) {
	store, svc := setupStore(t)
	ctx := context.Background()

	t.Run("coordinates and address round trip", func(t *testing.T) {
		created, err := svc.Create(ctx, input("Lamp", models.StatusRed))
		require.NoError(t, err)
		assert.InDelta(t, 47.21, created.Lat, 1e-9)
		assert.InDelta(t, 38.94, created.Lon, 1e-9)
		assert.Equal(t, petrovskaya, created.Address)
		assert.Equal(t, []initiative.Media{}, created.Media)

		far := input("Far away", models.StatusRed)
		far.Lat, far.Lon = 10, 10
		farCreated, err := svc.Create(ctx, far)
		require.NoError(t, err)
		assert.Empty(t, farCreated.Address)
	})

	t.Run("ids are unique", func(t *testing.T) {
		seen := map[int64]bool{}
		for i := 0; i < 5; i++ {
			created, err := svc.Create(ctx, input("Unique", models.StatusYellow))
			require.NoError(t, err)
			assert.False(t, seen[created.ID])
			seen[created.ID] = true
		}
	})

	t.Run("invalid status writes nothing", func(t *testing.T) {
		before := countRows(t, store, "initiatives")
		_, err := svc.Create(ctx, input("Nope", "BLUE"))
		assert.ErrorIs(t, err, initiative.ErrValidation)
		assert.Equal(t, before, countRows(t, store, "initiatives"))
	})

	t.Run("media round trip and cascade", func(t *testing.T) {
		in := input("With media", models.StatusGreen)
		in.Media = []initiative.MediaInput{
			{URL: "/media/a.jpg", MediaType: "image"},
			{URL: "/media/b.mp4", MediaType: "video"},
		}
		created, err := svc.Create(ctx, in)
		require.NoError(t, err)
		require.Len(t, created.Media, 2)
		urls := []string{created.Media[0].URL, created.Media[1].URL}
		sort.Strings(urls)
		assert.Equal(t, []string{"/media/a.jpg", "/media/b.mp4"}, urls)

		require.NoError(t, svc.Delete(ctx, created.ID))
		var n int64
		require.NoError(t, store.DB.Table("initiative_media").Where("initiative_id = ?", created.ID).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("update keeps author id and media", func(t *testing.T) {
		in := input("Before", models.StatusRed)
		in.AuthorID = "author-1"
		in.Media = []initiative.MediaInput{{URL: "/media/c.jpg", MediaType: "image"}}
		created, err := svc.Create(ctx, in)
		require.NoError(t, err)

		upd := input("After", models.StatusGreen)
		upd.AuthorID = "someone-else"
		upd.Lat, upd.Lon = 47.25, 38.90
		updated, err := svc.Update(ctx, created.ID, upd)
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Title)
		assert.Equal(t, "GREEN", updated.Status)
		assert.Equal(t, "author-1", updated.AuthorID)
		assert.Len(t, updated.Media, 1)
		assert.InDelta(t, 47.25, updated.Lat, 1e-9)
		assert.InDelta(t, 38.90, updated.Lon, 1e-9)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		_, err = svc.Update(ctx, created.ID, input("Bad", "PURPLE"))
		assert.ErrorIs(t, err, initiative.ErrValidation)

		stored, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", stored.Title)
		assert.Equal(t, "GREEN", stored.Status)
	})

	t.Run("failed media insert rolls back initiative", func(t *testing.T) {
		const name = "test:reject_media_insert"
		require.NoError(t, store.DB.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
			if tx.Statement.Table == "initiative_media" {
				_ = tx.AddError(errors.New("media insert rejected"))
			}
		}))
		defer store.DB.Callback().Create().Remove(name)

		initiatives := countRows(t, store, "initiatives")
		mediaRows := countRows(t, store, "initiative_media")

		in := input("Half written", models.StatusRed)
		in.Media = []initiative.MediaInput{{URL: "/media/d.jpg", MediaType: "image"}}
		_, err := svc.Create(ctx, in)
		require.Error(t, err)
		assert.NotErrorIs(t, err, initiative.ErrValidation)
		assert.Equal(t, initiatives, countRows(t, store, "initiatives"))
		assert.Equal(t, mediaRows, countRows(t, store, "initiative_media"))
	})

	t.Run("absent ids", func(t *testing.T) {
		for _, id := range []int64{0, -1, 999999} {
			_, err := svc.Get(ctx, id)
			assert.True(t, errors.Is(err, initiative.ErrNotFound))
			_, err = svc.Update(ctx, id, input("x", models.StatusRed))
			assert.True(t, errors.Is(err, initiative.ErrNotFound))
			assert.True(t, errors.Is(svc.Delete(ctx, id), initiative.ErrNotFound))
		}
	})

	t.Run("list filter order and geojson", func(t *testing.T) {
		for _, s := range []models.InitiativeStatus{models.StatusRed, models.StatusGreen, models.StatusRed} {
			_, err := svc.Create(ctx, input("Filtered", s))
			require.NoError(t, err)
		}

		reds, err := svc.List(ctx, initiative.Filter{Status: "RED"})
		require.NoError(t, err)
		require.NotEmpty(t, reds)
		for i, it := range reds {
			assert.Equal(t, "RED", it.Status)
			if i > 0 {
				prev := reds[i-1]
				assert.False(t, it.CreatedAt.After(prev.CreatedAt))
			}
		}

		all, err := svc.List(ctx, initiative.Filter{})
		require.NoError(t, err)
		fc, err := svc.GeoJSON(ctx, initiative.Filter{})
		require.NoError(t, err)
		require.Len(t, fc.Features, len(all))
		for i, f := range fc.Features {
			assert.Equal(t, all[i].Title, f.Properties["title"])
			assert.Len(t, f.Properties, 5)
		}
	})
}
