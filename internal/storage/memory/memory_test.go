package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/storage"
)

// Пакет unit-тестов для storage/memory.
//
// Покрытие:
//   - создание и поиск по email/ID;
//   - уникальность email (с учётом регистра) и ID;
//   - промахи -> storage.ErrNotFound;
//   - частичное обновление предпочтений и updated_at;
//   - изоляция копий и конкурентный доступ (запускать с -race).

func newUser(email string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		Preferences:  models.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSaveUser_And_Lookup_OK(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()
	u := newUser("a@x.com")

	require.NoError(t, st.SaveUser(ctx, u))

	byEmail, err := st.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byID, err := st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", byID.Email)
	require.Equal(t, "hash", byID.PasswordHash)
}

func TestSaveUser_DuplicateEmail_AlreadyExists(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	require.NoError(t, st.SaveUser(ctx, newUser("a@x.com")))

	err := st.SaveUser(ctx, newUser("a@x.com"))
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	// Регистр email значим: это другой адрес.
	require.NoError(t, st.SaveUser(ctx, newUser("A@x.com")))
}

func TestSaveUser_DuplicateID_AlreadyExists(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	u := newUser("a@x.com")
	require.NoError(t, st.SaveUser(ctx, u))

	dup := newUser("b@x.com")
	dup.ID = u.ID
	require.ErrorIs(t, st.SaveUser(ctx, dup), storage.ErrAlreadyExists)
}

func TestLookup_NotFound(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()

	_, err := st.UserByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UserByID(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UpdatePreferences(ctx, uuid.New(), models.PreferencesUpdate{})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdatePreferences_ShallowMerge(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()
	u := newUser("a@x.com")
	u.Preferences.Languages = []string{"en"}
	u.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, st.SaveUser(ctx, u))

	cats := []string{"tech"}
	got, err := st.UpdatePreferences(ctx, u.ID, models.PreferencesUpdate{Categories: &cats})
	require.NoError(t, err)

	require.Equal(t, []string{"tech"}, got.Preferences.Categories)
	require.Equal(t, []string{"en"}, got.Preferences.Languages)
	require.Equal(t, []string{}, got.Preferences.Sources)
	require.True(t, got.UpdatedAt.After(u.UpdatedAt))

	// Пустой массив — полноценная замена.
	empty := []string{}
	got, err = st.UpdatePreferences(ctx, u.ID, models.PreferencesUpdate{Languages: &empty})
	require.NoError(t, err)
	require.Equal(t, []string{}, got.Preferences.Languages)
	require.Equal(t, []string{"tech"}, got.Preferences.Categories)
}

func TestReturnedRecords_AreCopies(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()
	u := newUser("a@x.com")
	require.NoError(t, st.SaveUser(ctx, u))

	// Мутация исходного объекта после сохранения не влияет на хранилище.
	u.Email = "mutated@x.com"

	got, err := st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	got.Preferences.Categories = append(got.Preferences.Categories, "leak")

	again, err := st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", again.Email)
	require.Empty(t, again.Preferences.Categories)
}

func TestCanceledContext_ReturnsCtxErr(t *testing.T) {
	t.Parallel()

	st := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, st.SaveUser(ctx, newUser("a@x.com")), context.Canceled)

	_, err := st.UserByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()
	owner := newUser("owner@x.com")
	require.NoError(t, st.SaveUser(ctx, owner))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_ = st.SaveUser(ctx, newUser(fmt.Sprintf("u%d@x.com", i)))
			cats := []string{fmt.Sprintf("c%d", i)}
			_, _ = st.UpdatePreferences(ctx, owner.ID, models.PreferencesUpdate{Categories: &cats})
			_, _ = st.UserByID(ctx, owner.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 32; i++ {
		_, err := st.UserByEmail(ctx, fmt.Sprintf("u%d@x.com", i))
		require.NoError(t, err)
	}

	got, err := st.UserByID(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, got.Preferences.Categories, 1)
}
